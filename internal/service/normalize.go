package service

import (
	"encoding/json"
	"strconv"
	"time"

	"paywatch/internal/model"
)

// NormalizeTransaction converts one raw history record into the canonical
// form. The service is not consistent about field casing across endpoints
// and versions, so every field resolves through an ordered alias list with
// the PascalCase spelling first. The function is total: missing, extra or
// mistyped fields degrade to defaults, never to an error. An empty order
// id is passed through; rejecting it is the caller's decision.
func NormalizeTransaction(raw map[string]any) model.Transaction {
	return model.Transaction{
		OrderID:    stringField(raw, "ID", "id"),
		Amount:     numberField(raw, "Amount", "amount"),
		Status:     model.ClassifyStatus(stringField(raw, "Status", "status")),
		PaymentURL: stringField(raw, "PaymentURL", "payment_url"),
		CreatedAt:  timeField(raw, "CreatedAt", "created_at"),
		Items:      itemsField(raw, "Items", "items"),
	}
}

// stringField returns the first alias present with a string value.
// Matching is case-sensitive and exact; a present key with a non-string
// value falls through to the next alias.
func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok {
			return s
		}
	}
	return ""
}

func numberField(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f
			}
		}
	}
	return 0
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func timeField(raw map[string]any, keys ...string) *time.Time {
	s := stringField(raw, keys...)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// itemsField resolves the line items. Absent input yields an empty slice,
// never nil; element order is preserved as received.
func itemsField(raw map[string]any, keys ...string) []model.LineItem {
	items := []model.LineItem{}
	for _, key := range keys {
		elems, ok := raw[key].([]any)
		if !ok {
			continue
		}
		for _, elem := range elems {
			obj, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			items = append(items, model.LineItem{
				Name:     stringField(obj, "Name", "name"),
				Quantity: intField(obj, "Quantity", "quantity"),
			})
		}
		break
	}
	return items
}

func intField(raw map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		case int64:
			return int(v)
		case json.Number:
			if n, err := strconv.Atoi(v.String()); err == nil {
				return n
			}
		}
	}
	return 0
}
