package payment

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildInvoicePayload(t *testing.T) {
	minimalParams := func() map[string]any {
		return map[string]any{
			"items": []map[string]any{
				{"id": "item-1", "price": 10000},
			},
		}
	}

	t.Run("Defaults", func(t *testing.T) {
		payload, err := buildInvoicePayload(minimalParams())
		assert.NoError(t, err)

		orderID := payload["order_id"].(string)
		assert.True(t, strings.HasPrefix(orderID, "INV-"), "order_id %q", orderID)

		invoiceNumber := payload["invoice_number"].(string)
		assert.True(t, strings.HasPrefix(invoiceNumber, "INV/"), "invoice_number %q", invoiceNumber)
		assert.Contains(t, invoiceNumber, time.Now().Format("20060102"))

		assert.Equal(t, "virtual_account", payload["payment_type"])

		dueDate, err := time.ParseInLocation(invoiceDateLayout, payload["due_date"].(string), time.Local)
		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), dueDate, time.Minute)

		accounts := payload["virtual_accounts"].([]map[string]any)
		assert.Equal(t, []map[string]any{{"bank": "bca_va"}}, accounts)

		amount := payload["amount"].(map[string]any)
		assert.Equal(t, 0, amount["vat"])
		assert.Equal(t, 0, amount["discount"])
		assert.Equal(t, 0, amount["shipping"])
	})

	t.Run("GeneratedIDsAreUnique", func(t *testing.T) {
		first, err := buildInvoicePayload(minimalParams())
		assert.NoError(t, err)
		second, err := buildInvoicePayload(minimalParams())
		assert.NoError(t, err)
		assert.NotEqual(t, first["order_id"], second["order_id"])
		assert.NotEqual(t, first["invoice_number"], second["invoice_number"])
	})

	t.Run("ExplicitValuesKept", func(t *testing.T) {
		payload, err := buildInvoicePayload(map[string]any{
			"order_id":       "ORDER-42",
			"invoice_number": "INV/CUSTOM/1",
			"payment_type":   "payment_link",
			"due_date":       "2026-12-01 10:00:00 +0700",
			"notes":          "monthly billing",
			"reference":      "ref-9",
			"items": []map[string]any{
				{"id": "item-1", "price": 10000},
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, "ORDER-42", payload["order_id"])
		assert.Equal(t, "INV/CUSTOM/1", payload["invoice_number"])
		assert.Equal(t, "payment_link", payload["payment_type"])
		assert.Equal(t, "monthly billing", payload["notes"])
		assert.Equal(t, "ref-9", payload["reference"])

		dueDate, err := time.Parse(invoiceDateLayout, payload["due_date"].(string))
		assert.NoError(t, err)
		assert.Equal(t, 2026, dueDate.Year())
	})

	t.Run("DueDateLayouts", func(t *testing.T) {
		for _, raw := range []string{
			"2026-12-01 10:00:00 +0700",
			"2026-12-01T10:00:00Z",
			"2026-12-01 10:00:00",
			"2026-12-01",
		} {
			params := minimalParams()
			params["due_date"] = raw
			payload, err := buildInvoicePayload(params)
			assert.NoError(t, err, "due_date %q", raw)

			dueDate, err := time.ParseInLocation(invoiceDateLayout, payload["due_date"].(string), time.Local)
			assert.NoError(t, err)
			assert.Equal(t, time.December, dueDate.Month())
		}
	})

	t.Run("InvalidDueDate", func(t *testing.T) {
		params := minimalParams()
		params["due_date"] = "tomorrow"
		_, err := buildInvoicePayload(params)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"due_date"}, validationErr.Fields)
	})

	t.Run("MissingItems", func(t *testing.T) {
		for name, params := range map[string]map[string]any{
			"Absent": {},
			"Empty":  {"items": []map[string]any{}},
		} {
			_, err := buildInvoicePayload(params)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr, name)
			assert.Equal(t, []string{"items"}, validationErr.Fields, name)
		}
	})

	t.Run("ItemMissingIDOrPrice", func(t *testing.T) {
		for name, item := range map[string]map[string]any{
			"NoID":    {"price": 10000},
			"NoPrice": {"id": "item-1"},
		} {
			_, err := buildInvoicePayload(map[string]any{
				"items": []map[string]any{item},
			})
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr, name)
		}
	})

	t.Run("ItemNameFallbacks", func(t *testing.T) {
		payload, err := buildInvoicePayload(map[string]any{
			"items": []map[string]any{
				{"id": "a", "price": 100, "name": "Widget"},
				{"id": "b", "price": 100, "description": "A described item"},
				{"id": "c", "price": 100},
			},
		})
		assert.NoError(t, err)

		items := payload["item_details"].([]map[string]any)
		assert.Equal(t, "Widget", items[0]["name"])
		assert.Equal(t, "A described item", items[1]["name"])
		assert.Equal(t, "Item", items[2]["name"])
		assert.Equal(t, 1, items[2]["quantity"])
	})

	t.Run("CustomerIDOnlyWhenPresent", func(t *testing.T) {
		withID, err := buildInvoicePayload(map[string]any{
			"items":    []map[string]any{{"id": "a", "price": 100}},
			"customer": map[string]any{"id": "cust-1", "name": "Budi", "email": "budi@example.com"},
		})
		assert.NoError(t, err)
		customer := withID["customer_details"].(map[string]any)
		assert.Equal(t, "cust-1", customer["id"])
		assert.Equal(t, "Budi", customer["name"])

		withoutID, err := buildInvoicePayload(map[string]any{
			"items":    []map[string]any{{"id": "a", "price": 100}},
			"customer": map[string]any{"name": "Budi"},
		})
		assert.NoError(t, err)
		customer = withoutID["customer_details"].(map[string]any)
		_, ok := customer["id"]
		assert.False(t, ok)
	})

	t.Run("VirtualAccountsKeepOnlyBank", func(t *testing.T) {
		payload, err := buildInvoicePayload(map[string]any{
			"items": []map[string]any{{"id": "a", "price": 100}},
			"virtual_accounts": []map[string]any{
				{"bank": "bni_va", "extra": "dropped"},
			},
		})
		assert.NoError(t, err)
		accounts := payload["virtual_accounts"].([]map[string]any)
		assert.Equal(t, []map[string]any{{"bank": "bni_va"}}, accounts)
	})
}

func TestGateway_Invoices(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		gw := newTestGateway(testConfig(), MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "POST", req.Method)
			assert.Equal(t, "/v1/invoices", req.URL.Path)

			body := decodeRequestBody(t, req)
			assert.Equal(t, "virtual_account", body["payment_type"])
			assert.NotEmpty(t, body["order_id"])

			return jsonResponse(http.StatusOK, `{"id":"inv-1","status":"pending"}`)
		}))

		resp, err := gw.CreateInvoice(context.Background(), map[string]any{
			"items": []map[string]any{{"id": "item-1", "price": 10000, "name": "Widget"}},
		})
		assert.NoError(t, err)
		assert.Equal(t, "inv-1", resp["id"])
	})

	t.Run("CreateValidationFailsBeforeSending", func(t *testing.T) {
		called := false
		gw := newTestGateway(testConfig(), MockRoundTripper(func(req *http.Request) *http.Response {
			called = true
			return jsonResponse(http.StatusOK, `{}`)
		}))

		_, err := gw.CreateInvoice(context.Background(), map[string]any{})

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.False(t, called)
	})

	t.Run("Get", func(t *testing.T) {
		gw := newTestGateway(testConfig(), MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "GET", req.Method)
			assert.Equal(t, "/v1/invoices/inv-1", req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":"inv-1"}`)
		}))

		resp, err := gw.GetInvoice(context.Background(), "inv-1")
		assert.NoError(t, err)
		assert.Equal(t, "inv-1", resp["id"])
	})

	t.Run("Void", func(t *testing.T) {
		gw := newTestGateway(testConfig(), MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "PATCH", req.Method)
			assert.Equal(t, "/v1/invoices/inv-1/void", req.URL.Path)
			return jsonResponse(http.StatusOK, `{"id":"inv-1","status":"voided"}`)
		}))

		resp, err := gw.VoidInvoice(context.Background(), "inv-1")
		assert.NoError(t, err)
		assert.Equal(t, "voided", resp["status"])
	})

	t.Run("EmptyIDRejected", func(t *testing.T) {
		gw := newTestGateway(testConfig(), nil)

		_, err := gw.GetInvoice(context.Background(), "")
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)

		_, err = gw.VoidInvoice(context.Background(), "")
		assert.ErrorAs(t, err, &validationErr)
	})
}
