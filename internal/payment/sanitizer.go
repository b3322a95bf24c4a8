package payment

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxStringLength  = 255
	maxItemLength    = 50
	maxPhoneLength   = 19
	maxPostalLength  = 10
	maxCountryLength = 3
)

var (
	invalidEmailChars  = regexp.MustCompile("[^a-zA-Z0-9.!#$%&'*+\\-/=?^_`{|}~@\\[\\]]")
	invalidPhoneChars  = regexp.MustCompile(`[^0-9\-\(\) ]`)
	invalidPostalChars = regexp.MustCompile(`[^A-Za-z0-9\-]`)
	nonDigits          = regexp.MustCompile(`[^0-9]`)
	cardNumberPattern  = regexp.MustCompile(`^[0-9]{8,19}$`)
	expMonthPattern    = regexp.MustCompile(`^(0?[1-9]|1[0-2])$`)
	expYearPattern     = regexp.MustCompile(`^[0-9]{2,4}$`)
	cvvPattern         = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// SanitizeRequest normalizes a charge-style payload before it is sent to
// Midtrans. The three known sub-maps (item_details, customer_details,
// transaction_details) are sanitized when present; any other top-level key
// passes through unchanged. That pass-through is deliberate: only the known
// envelopes have a fixed schema to enforce.
func SanitizeRequest(payload map[string]any) map[string]any {
	sanitized := make(map[string]any, len(payload))
	for k, v := range payload {
		sanitized[k] = v
	}

	if items, ok := asMapSlice(payload["item_details"]); ok {
		sanitized["item_details"] = sanitizeItems(items)
	}
	if customer, ok := asMap(payload["customer_details"]); ok {
		sanitized["customer_details"] = sanitizeCustomer(customer)
	}
	if details, ok := asMap(payload["transaction_details"]); ok {
		sanitized["transaction_details"] = SanitizeTransactionDetails(details)
	}

	return sanitized
}

// SanitizeTransactionDetails caps order_id and coerces gross_amount, leaving
// any other key in the map untouched. Subscription updates reuse this path
// directly rather than wrapping their body in a transaction_details envelope
// first.
func SanitizeTransactionDetails(details map[string]any) map[string]any {
	sanitized := make(map[string]any, len(details))
	for k, v := range details {
		sanitized[k] = v
	}
	if _, ok := details["order_id"]; ok {
		sanitized["order_id"] = sanitizeString(asString(details["order_id"]), maxStringLength)
	}
	if _, ok := details["gross_amount"]; ok {
		sanitized["gross_amount"] = sanitizeAmount(details["gross_amount"])
	}
	return sanitized
}

// SanitizedCard is card input after normalization. CVV is empty when the
// caller did not supply one.
type SanitizedCard struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVV      string
}

// SanitizeCard validates and normalizes card details. Number is reduced to
// digits and must be 8-19 long, the month is zero-padded to two digits and a
// two-digit year is expanded with the "20" century prefix.
func SanitizeCard(card map[string]any) (SanitizedCard, error) {
	for _, field := range []string{"card_number", "card_exp_month", "card_exp_year"} {
		if asString(card[field]) == "" {
			return SanitizedCard{}, &ValidationError{
				Message: "missing required field: " + field,
				Fields:  []string{field},
			}
		}
	}

	number := nonDigits.ReplaceAllString(asString(card["card_number"]), "")
	if !cardNumberPattern.MatchString(number) {
		return SanitizedCard{}, &ValidationError{Message: "invalid card number format", Fields: []string{"card_number"}}
	}

	month := strings.TrimSpace(asString(card["card_exp_month"]))
	if !expMonthPattern.MatchString(month) {
		return SanitizedCard{}, &ValidationError{Message: "invalid card expiry month", Fields: []string{"card_exp_month"}}
	}
	if len(month) == 1 {
		month = "0" + month
	}

	year := strings.TrimSpace(asString(card["card_exp_year"]))
	if !expYearPattern.MatchString(year) {
		return SanitizedCard{}, &ValidationError{Message: "invalid card expiry year", Fields: []string{"card_exp_year"}}
	}
	if len(year) == 2 {
		year = "20" + year
	}

	sanitized := SanitizedCard{Number: number, ExpMonth: month, ExpYear: year}

	if raw, ok := card["card_cvv"]; ok {
		cvv := strings.TrimSpace(asString(raw))
		if !cvvPattern.MatchString(cvv) {
			return SanitizedCard{}, &ValidationError{Message: "invalid CVV format", Fields: []string{"card_cvv"}}
		}
		sanitized.CVV = cvv
	}

	return sanitized, nil
}

// sanitizeItems normalizes the known item keys in place; keys outside the
// fixed schema (item_id, merchant_name and the like) pass through unchanged.
func sanitizeItems(items []map[string]any) []map[string]any {
	sanitized := make([]map[string]any, 0, len(items))
	for _, item := range items {
		s := make(map[string]any, len(item))
		for k, v := range item {
			s[k] = v
		}
		for _, key := range []string{"id", "name", "category"} {
			if v, ok := item[key]; ok {
				s[key] = sanitizeString(asString(v), maxItemLength)
			}
		}
		if _, ok := item["price"]; ok {
			s["price"] = sanitizeAmount(item["price"])
		}
		if _, ok := item["quantity"]; ok {
			s["quantity"] = sanitizeQuantity(item["quantity"])
		}
		sanitized = append(sanitized, s)
	}
	return sanitized
}

func sanitizeCustomer(customer map[string]any) map[string]any {
	sanitized := map[string]any{
		"first_name": sanitizeString(asString(customer["first_name"]), maxStringLength),
		"last_name":  sanitizeString(asString(customer["last_name"]), maxStringLength),
		"email":      sanitizeEmail(asString(customer["email"])),
		"phone":      sanitizePhone(asString(customer["phone"])),
	}

	if address, ok := asMap(customer["billing_address"]); ok {
		sanitized["billing_address"] = sanitizeAddress(address)
	}
	if address, ok := asMap(customer["shipping_address"]); ok {
		sanitized["shipping_address"] = sanitizeAddress(address)
	}

	return dropEmpty(sanitized)
}

func sanitizeAddress(address map[string]any) map[string]any {
	return dropEmpty(map[string]any{
		"first_name":   sanitizeString(asString(address["first_name"]), maxStringLength),
		"last_name":    sanitizeString(asString(address["last_name"]), maxStringLength),
		"address":      sanitizeString(asString(address["address"]), maxStringLength),
		"city":         sanitizeString(asString(address["city"]), maxStringLength),
		"postal_code":  sanitizePostalCode(asString(address["postal_code"])),
		"phone":        sanitizePhone(asString(address["phone"])),
		"country_code": sanitizeString(asString(address["country_code"]), maxCountryLength),
	})
}

func sanitizeString(value string, maxLength int) string {
	if len(value) > maxLength {
		value = value[:maxLength]
	}
	return strings.TrimSpace(value)
}

func sanitizeEmail(email string) string {
	email = invalidEmailChars.ReplaceAllString(email, "")
	if len(email) > maxStringLength {
		email = email[:maxStringLength]
	}
	return email
}

func sanitizePhone(phone string) string {
	phone = invalidPhoneChars.ReplaceAllString(phone, "")
	if len(phone) > maxPhoneLength {
		phone = phone[:maxPhoneLength]
	}
	return phone
}

func sanitizePostalCode(postalCode string) string {
	postalCode = invalidPostalChars.ReplaceAllString(postalCode, "")
	if len(postalCode) > maxPostalLength {
		postalCode = postalCode[:maxPostalLength]
	}
	return postalCode
}

// sanitizeAmount extracts the numeric content of the value and floors it at
// zero. Malformed numeric strings degrade to their parseable prefix instead
// of being rejected; callers needing strict numeric validation must
// pre-validate.
func sanitizeAmount(amount any) float64 {
	value := looseFloat(amount)
	if value < 0 {
		return 0
	}
	return value
}

// sanitizeQuantity coerces the value to an integer with a floor of one.
func sanitizeQuantity(quantity any) int {
	value := looseInt(quantity)
	if value < 1 {
		return 1
	}
	return value
}

func looseFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		var b strings.Builder
		for _, r := range n {
			if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' {
				b.WriteRune(r)
			}
		}
		return numericPrefixFloat(b.String())
	default:
		return 0
	}
}

func looseInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	case string:
		var b strings.Builder
		for _, r := range n {
			if (r >= '0' && r <= '9') || r == '+' || r == '-' {
				b.WriteRune(r)
			}
		}
		return int(numericPrefixFloat(b.String()))
	default:
		return 0
	}
}

// numericPrefixFloat parses the longest leading substring that forms a valid
// float, mirroring a loose numeric cast.
func numericPrefixFloat(s string) float64 {
	for i := len(s); i > 0; i-- {
		if f, err := strconv.ParseFloat(s[:i], 64); err == nil {
			return f
		}
	}
	return 0
}

// dropEmpty removes keys whose sanitized value is an empty string or an
// empty map, so empty fields are omitted instead of being sent as "".
func dropEmpty(m map[string]any) map[string]any {
	for k, v := range m {
		switch value := v.(type) {
		case string:
			if value == "" {
				delete(m, k)
			}
		case map[string]any:
			if len(value) == 0 {
				delete(m, k)
			}
		}
	}
	return m
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asMapSlice accepts both []map[string]any from Go callers and []any from
// decoded JSON.
func asMapSlice(v any) ([]map[string]any, bool) {
	switch list := v.(type) {
	case []map[string]any:
		return list, true
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, entry := range list {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, m)
		}
		return out, true
	default:
		return nil, false
	}
}
