package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const invoiceDateLayout = "2006-01-02 15:04:05 -0700"

// CreateInvoice builds the invoice payload with defaults, sanitizes it and
// posts it to the invoice API.
func (g *Gateway) CreateInvoice(ctx context.Context, params map[string]any) (map[string]any, error) {
	payload, err := buildInvoicePayload(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	if g.cfg.IsSanitized {
		payload = SanitizeRequest(payload)
	}

	resp, err := g.client.Post(ctx, "/v1/invoices", payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return resp, nil
}

func (g *Gateway) GetInvoice(ctx context.Context, invoiceID string) (map[string]any, error) {
	if invoiceID == "" {
		return nil, fmt.Errorf("failed to get invoice: %w", &ValidationError{Message: "invoice ID cannot be empty"})
	}
	resp, err := g.client.Get(ctx, "/v1/invoices/"+invoiceID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return resp, nil
}

func (g *Gateway) VoidInvoice(ctx context.Context, invoiceID string) (map[string]any, error) {
	if invoiceID == "" {
		return nil, fmt.Errorf("failed to void invoice: %w", &ValidationError{Message: "invoice ID cannot be empty"})
	}
	resp, err := g.client.Patch(ctx, "/v1/invoices/"+invoiceID+"/void", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to void invoice: %w", err)
	}
	return resp, nil
}

// buildInvoicePayload fills in invoice defaults: a generated order_id and
// invoice_number, invoice_date now, due_date one day out and the
// virtual_account payment type.
func buildInvoicePayload(params map[string]any) (map[string]any, error) {
	items, ok := asMapSlice(params["items"])
	if !ok || len(items) == 0 {
		return nil, &ValidationError{Message: "items cannot be empty", Fields: []string{"items"}}
	}
	for _, item := range items {
		if _, ok := item["id"]; !ok {
			return nil, &ValidationError{Message: "each item must have id and price", Fields: []string{"items"}}
		}
		if _, ok := item["price"]; !ok {
			return nil, &ValidationError{Message: "each item must have id and price", Fields: []string{"items"}}
		}
	}

	now := time.Now()
	dueDate := now.Add(24 * time.Hour)
	if raw := asString(params["due_date"]); raw != "" {
		parsed, err := parseInvoiceDate(raw)
		if err != nil {
			return nil, &ValidationError{Message: "invalid due_date: " + raw, Fields: []string{"due_date"}}
		}
		dueDate = parsed
	}

	customer, _ := asMap(params["customer"])
	amount, _ := asMap(params["amount"])
	accounts, _ := asMapSlice(params["virtual_accounts"])

	return map[string]any{
		"order_id":       stringOr(params["order_id"], generateOrderID),
		"invoice_number": stringOr(params["invoice_number"], generateInvoiceNumber),
		"invoice_date":   stringOr(params["invoice_date"], func() string { return now.Format(invoiceDateLayout) }),
		"due_date":       dueDate.Format(invoiceDateLayout),
		"payment_type":   stringOr(params["payment_type"], func() string { return "virtual_account" }),

		"customer_details": buildCustomerDetails(customer),
		"item_details":     buildItemDetails(items),
		"virtual_accounts": buildVirtualAccounts(accounts),
		"amount":           buildAmount(amount),

		"notes":     asString(params["notes"]),
		"reference": asString(params["reference"]),
	}, nil
}

func parseInvoiceDate(value string) (time.Time, error) {
	layouts := []string{
		invoiceDateLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func buildCustomerDetails(customer map[string]any) map[string]any {
	details := map[string]any{
		"name":  asString(customer["name"]),
		"email": asString(customer["email"]),
		"phone": asString(customer["phone"]),
	}
	if id, ok := customer["id"]; ok {
		details["id"] = id
	}
	return details
}

func buildItemDetails(items []map[string]any) []map[string]any {
	details := make([]map[string]any, 0, len(items))
	for _, item := range items {
		name := asString(item["name"])
		if name == "" {
			name = asString(item["description"])
		}
		if name == "" {
			name = "Item"
		}

		quantity := any(1)
		if q, ok := item["quantity"]; ok {
			quantity = q
		}

		details = append(details, map[string]any{
			"item_id":     item["id"],
			"description": asString(item["description"]),
			"quantity":    quantity,
			"price":       item["price"],
			"name":        name,
		})
	}
	return details
}

func buildVirtualAccounts(accounts []map[string]any) []map[string]any {
	if len(accounts) == 0 {
		return []map[string]any{{"bank": "bca_va"}}
	}
	out := make([]map[string]any, 0, len(accounts))
	for _, va := range accounts {
		out = append(out, map[string]any{"bank": va["bank"]})
	}
	return out
}

func buildAmount(amount map[string]any) map[string]any {
	out := make(map[string]any, 3)
	for _, key := range []string{"vat", "discount", "shipping"} {
		if v, ok := amount[key]; ok {
			out[key] = v
		} else {
			out[key] = 0
		}
	}
	return out
}

// stringOr returns the value as a string, or the generated fallback when the
// value is absent or empty.
func stringOr(v any, fallback func() string) string {
	if s := asString(v); s != "" {
		return s
	}
	return fallback()
}

func generateOrderID() string {
	return "INV-" + uniqueSuffix(13) + "-" + strconv.FormatInt(time.Now().Unix(), 10)
}

func generateInvoiceNumber() string {
	return "INV/" + time.Now().Format("20060102") + "/" + uniqueSuffix(13)
}

func uniqueSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if len(s) > n {
		s = s[:n]
	}
	return s
}
