package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/shopspring/decimal"
)

const (
	SelectCartItemsQuery = `
		SELECT
			p.id,
			ci.variation_id,
			p.name,
			p.sku,
			ci.quantity,
			p.price::text,
			p.tax_rate::text,
			p.attributes
		FROM
			cart_items ci
			JOIN products p ON p.id = ci.product_id
		WHERE
			ci.user_id = $1
		ORDER BY
			ci.added_at,
			p.id
	`
)

// FindCartItems читает текущую корзину пользователя вместе с ценами и атрибутами товаров.
func (d *Database) FindCartItems(ctx context.Context, userID string) ([]models.LineItem, error) {
	rows, err := d.db.Query(ctx, SelectCartItemsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения корзины: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var (
			item       models.LineItem
			price      string
			taxRate    string
			attributes []byte
		)

		if err := rows.Scan(&item.ProductID, &item.VariationID, &item.Name, &item.SKU, &item.Quantity, &price, &taxRate, &attributes); err != nil {
			return nil, fmt.Errorf("ошибка обработки строки корзины: %w", err)
		}

		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("некорректная цена товара %d: %w", item.ProductID, err)
		}

		rate, err := decimal.NewFromString(taxRate)
		if err != nil {
			return nil, fmt.Errorf("некорректная ставка налога товара %d: %w", item.ProductID, err)
		}

		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.LineTax = item.LineTotal.Mul(rate)

		if item.Attributes, err = decodeAttributes(attributes); err != nil {
			return nil, fmt.Errorf("ошибка разбора атрибутов товара %d: %w", item.ProductID, err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации по строкам: %w", err)
	}

	return items, nil
}

// decodeAttributes приводит значения JSONB-атрибутов товара к строкам.
// Числа сохраняют исходную запись, вложенные объекты и массивы
// остаются компактным JSON, null становится пустой строкой.
func decodeAttributes(data []byte) (map[string]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	attributes := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			attributes[key] = ""
		case string:
			attributes[key] = v
		case json.Number:
			attributes[key] = v.String()
		case bool:
			attributes[key] = strconv.FormatBool(v)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("атрибут %s: %w", key, err)
			}
			attributes[key] = string(encoded)
		}
	}

	return attributes, nil
}
