package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// SignatureVerifier authenticates transaction payloads using the SHA-512
// keyed digest Midtrans signs notifications and status responses with:
// hex(sha512(order_id + status_code + gross_amount + server_key)).
type SignatureVerifier struct {
	serverKey string
}

func NewSignatureVerifier(serverKey string) *SignatureVerifier {
	return &SignatureVerifier{serverKey: serverKey}
}

// Sign computes the transaction digest. The digest and the server key must
// never be logged.
func (s *SignatureVerifier) Sign(orderID, statusCode, grossAmount string) (string, error) {
	if s.serverKey == "" {
		return "", &ConfigurationError{Message: "server key is not configured"}
	}
	if orderID == "" || statusCode == "" || grossAmount == "" {
		return "", &ValidationError{Message: "all signature parameters must not be empty"}
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + s.serverKey))
	return hex.EncodeToString(sum[:]), nil
}

// Verify checks data["signature_key"] against the digest recomputed from
// order_id, status_code and gross_amount. The comparison is constant-time.
func (s *SignatureVerifier) Verify(data map[string]any) error {
	required := []string{"order_id", "status_code", "gross_amount", "signature_key"}
	var missing []string
	for _, field := range required {
		if _, ok := data[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Message: "missing required fields: " + strings.Join(missing, ", "),
			Fields:  missing,
		}
	}

	if err := validateSignatureTypes(data); err != nil {
		return err
	}

	// asString keeps json.Number text intact, which matters for amounts
	// like "10000.00".
	expected, err := s.Sign(
		data["order_id"].(string),
		asString(data["status_code"]),
		asString(data["gross_amount"]),
	)
	if err != nil {
		return err
	}

	supplied := data["signature_key"].(string)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) != 1 {
		return &SignatureMismatchError{}
	}
	return nil
}

func validateSignatureTypes(data map[string]any) error {
	if _, ok := data["order_id"].(string); !ok {
		return &ValidationError{Message: "order_id must be a string", Fields: []string{"order_id"}}
	}
	if !isStringOrNumeric(data["status_code"]) {
		return &ValidationError{Message: "status_code must be a string or numeric", Fields: []string{"status_code"}}
	}
	if !isStringOrNumeric(data["gross_amount"]) {
		return &ValidationError{Message: "gross_amount must be a string or numeric", Fields: []string{"gross_amount"}}
	}
	if _, ok := data["signature_key"].(string); !ok {
		return &ValidationError{Message: "signature_key must be a string", Fields: []string{"signature_key"}}
	}
	return nil
}

func isStringOrNumeric(v any) bool {
	switch v.(type) {
	case string, json.Number, float64, float32, int, int32, int64:
		return true
	default:
		return false
	}
}
