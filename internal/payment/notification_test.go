package payment

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func notificationBody(t *testing.T, verifier *SignatureVerifier, extra map[string]any) []byte {
	t.Helper()

	signature, err := verifier.Sign("ORDER-1", "200", "10000.00")
	assert.NoError(t, err)

	payload := map[string]any{
		"order_id":           "ORDER-1",
		"status_code":        "200",
		"gross_amount":       "10000.00",
		"signature_key":      signature,
		"transaction_status": "settlement",
		"payment_type":       "gopay",
	}
	for k, v := range extra {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	return body
}

func TestNotificationProcessor_Process(t *testing.T) {
	verifier := NewSignatureVerifier("test-server-key")
	processor := NewNotificationProcessor(verifier)

	t.Run("Success", func(t *testing.T) {
		notif, err := processor.Process(notificationBody(t, verifier, nil))
		assert.NoError(t, err)
		assert.Equal(t, "ORDER-1", notif.OrderID())
		assert.Equal(t, "200", notif.StatusCode())
		assert.Equal(t, "10000.00", notif.GrossAmount())
		assert.Equal(t, "settlement", notif.TransactionStatus())
		assert.Equal(t, "gopay", notif.PaymentType())
		assert.Empty(t, notif.FraudStatus())
	})

	t.Run("ExtraFieldsPreserved", func(t *testing.T) {
		notif, err := processor.Process(notificationBody(t, verifier, map[string]any{
			"va_numbers": []any{map[string]any{"bank": "bca", "va_number": "123"}},
		}))
		assert.NoError(t, err)

		v, ok := notif.Get("va_numbers")
		assert.True(t, ok)
		assert.NotNil(t, v)

		_, ok = notif.Get("no_such_field")
		assert.False(t, ok)
	})

	t.Run("NumericAmountKeepsWireText", func(t *testing.T) {
		// gross_amount arrives as a JSON number; its textual form must
		// survive for the signature to recompute identically.
		signature, err := verifier.Sign("ORDER-1", "200", "10000.00")
		assert.NoError(t, err)
		body := []byte(fmt.Sprintf(
			`{"order_id":"ORDER-1","status_code":"200","gross_amount":10000.00,"signature_key":%q}`,
			signature,
		))

		notif, err := processor.Process(body)
		assert.NoError(t, err)
		assert.Equal(t, "10000.00", notif.GrossAmount())
	})

	t.Run("TamperedPayload", func(t *testing.T) {
		_, err := processor.Process(notificationBody(t, verifier, map[string]any{
			"gross_amount": "99999.00",
		}))

		var mismatch *SignatureMismatchError
		assert.ErrorAs(t, err, &mismatch)
		assert.ErrorContains(t, err, "failed to process notification")
	})

	t.Run("WrongServerKey", func(t *testing.T) {
		other := NewNotificationProcessor(NewSignatureVerifier("other-key"))
		_, err := other.Process(notificationBody(t, verifier, nil))

		var mismatch *SignatureMismatchError
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := processor.Process([]byte("{not json"))
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		for _, body := range [][]byte{nil, []byte(""), []byte("{}")} {
			_, err := processor.Process(body)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr, "body %q", body)
		}
	})

	t.Run("MissingSignatureKey", func(t *testing.T) {
		body := []byte(`{"order_id":"ORDER-1","status_code":"200","gross_amount":"10000.00"}`)
		_, err := processor.Process(body)

		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"signature_key"}, validationErr.Fields)
	})
}
