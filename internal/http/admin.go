package router

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Renal37/go-quote-relay/internal/middlewares"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/utils"
	"github.com/go-chi/chi/v5"
)

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func adminRequest(w http.ResponseWriter, r *http.Request) (models.AdminService, *models.User, bool) {
	adminService := middlewares.GetServiceFromContext[models.AdminService](w, r, middlewares.AdminServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if adminService == nil || user == nil {
		return nil, nil, false
	}
	return *adminService, user, true
}

func quoteIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, http.StatusBadRequest, "Invalid quote ID")
		return 0, false
	}
	return id, true
}

func parseQuoteFilter(status string, from, to *utils.Date) (models.QuoteFilter, error) {
	filter := models.QuoteFilter{DateFrom: from.Ptr(), DateTo: to.Ptr()}

	if status != "" {
		s, ok := models.ParseQuoteStatus(status)
		if !ok {
			return filter, fmt.Errorf("unknown status %q", status)
		}
		filter.Status = &s
	}

	return filter, nil
}

func queryDate(r *http.Request, name string) (*utils.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func ListQuotes(w http.ResponseWriter, r *http.Request) {
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}

	from, err := queryDate(r, "date_from")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := queryDate(r, "date_to")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	filter, err := parseQuoteFilter(r.URL.Query().Get("status"), from, to)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid page")
			return
		}
	}

	result, err := adminService.ListQuotes(r.Context(), user, filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, result)
}

func GetQuote(w http.ResponseWriter, r *http.Request) {
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}
	id, ok := quoteIDParam(w, r)
	if !ok {
		return
	}

	quote, err := adminService.GetQuote(r.Context(), user, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, quote)
}

func GetQuotePDF(w http.ResponseWriter, r *http.Request) {
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}
	id, ok := quoteIDParam(w, r)
	if !ok {
		return
	}

	doc, err := adminService.RenderPDF(r.Context(), user, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=quote-%d.pdf", id))
	_, _ = w.Write(doc)
}

func UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.StatusUpdate](w, r)
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}
	id, ok := quoteIDParam(w, r)
	if !ok {
		return
	}

	if err := adminService.UpdateStatus(r.Context(), user, id, data); err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, statusResponse{Success: true, Message: "Status updated successfully"})
}

func ResendQuote(w http.ResponseWriter, r *http.Request) {
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}
	id, ok := quoteIDParam(w, r)
	if !ok {
		return
	}

	result, err := adminService.Resend(r.Context(), user, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, result)
}

func ExportQuotes(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[models.ExportRequest](w, r)
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}

	filter, err := parseQuoteFilter(data.Status, data.DateFrom, data.DateTo)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	url, err := adminService.Export(r.Context(), user, filter, models.ExportFormat(data.Format))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, models.ExportResult{URL: url})
}

func TestERPConnection(w http.ResponseWriter, r *http.Request) {
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}

	result, err := adminService.TestConnection(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, result)
}

func GetStats(w http.ResponseWriter, r *http.Request) {
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}

	stats, err := adminService.Stats(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, stats)
}

func UpdateSettings(w http.ResponseWriter, r *http.Request) {
	data := middlewares.GetParsedJSONData[map[string]string](w, r)
	adminService, user, ok := adminRequest(w, r)
	if !ok {
		return
	}

	if err := adminService.UpdateSettings(r.Context(), user, data); err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, statusResponse{Success: true, Message: "Settings saved"})
}
