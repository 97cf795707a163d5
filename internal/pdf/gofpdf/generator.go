package gofpdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/validation"
	"github.com/jung-kurt/gofpdf"
)

type Generator struct {
	siteName string
}

func New(siteName string) *Generator { return &Generator{siteName: siteName} }

func (g *Generator) Generate(q models.Quote) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Quote request #%d", q.ID), false)
	pdf.SetCreator(g.siteName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Quote request #%d", q.ID)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", q.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Priority: %s   Status: %s", q.Priority, q.Status))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Customer")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range customerLines(q.Customer) {
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 7, "SKU", "B", 0, "", false, 0, "")
	pdf.CellFormat(80, 7, "Product", "B", 0, "", false, 0, "")
	pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Unit price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range q.Items {
		pdf.CellFormat(30, 6, tr(trim(it.SKU, 16)), "", 0, "", false, 0, "")
		pdf.CellFormat(80, 6, tr(trim(it.Name, 45)), "", 0, "", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, it.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, it.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	totals := [][2]string{
		{"Subtotal", q.Totals.Subtotal.StringFixed(2)},
		{"Tax", q.Totals.Tax.StringFixed(2)},
		{"Total", q.Totals.Total.StringFixed(2) + " " + q.Totals.Currency},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Helvetica", "B", 11)
		}
		pdf.CellFormat(160, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, row[1], "", 1, "R", false, 0, "")
	}

	if q.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr("Notes: "+q.Notes), "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 5, tr(g.siteName))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("ошибка формирования PDF заявки %d: %w", q.ID, err)
	}
	return buf.Bytes(), nil
}

func customerLines(c models.Customer) []string {
	lines := []string{c.Name, c.Email}
	if c.CompanyName != "" {
		lines = append(lines, c.CompanyName)
	}
	if c.TaxID != "" {
		lines = append(lines, "Tax ID: "+validation.FormatTaxID(c.TaxID))
	}
	if c.Phone != "" {
		lines = append(lines, "Phone: "+c.Phone)
	}

	addr := c.BillingAddress
	street := strings.TrimSpace(strings.Join([]string{addr.Address1, addr.Address2}, " "))
	city := strings.TrimSpace(strings.Join([]string{addr.Postcode, addr.City, addr.State, addr.Country}, " "))
	for _, l := range []string{street, city} {
		if l != "" {
			lines = append(lines, l)
		}
	}

	return lines
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
