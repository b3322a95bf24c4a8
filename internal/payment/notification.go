package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Notification is a verified transaction notification. Field access goes
// through Get so provider fields added after this code was written resolve
// to absent instead of failing.
type Notification struct {
	fields map[string]any
}

// Get returns the named field, reporting whether it was present.
func (n *Notification) Get(name string) (any, bool) {
	v, ok := n.fields[name]
	return v, ok
}

// String returns the named field rendered as a string, or "" when absent.
func (n *Notification) String(name string) string {
	return asString(n.fields[name])
}

func (n *Notification) OrderID() string           { return n.String("order_id") }
func (n *Notification) StatusCode() string        { return n.String("status_code") }
func (n *Notification) GrossAmount() string       { return n.String("gross_amount") }
func (n *Notification) TransactionStatus() string { return n.String("transaction_status") }
func (n *Notification) PaymentType() string       { return n.String("payment_type") }
func (n *Notification) FraudStatus() string       { return n.String("fraud_status") }

// Fields exposes the full verified payload, extra provider fields included.
func (n *Notification) Fields() map[string]any { return n.fields }

// NotificationProcessor parses inbound webhook bodies and authenticates them
// before any field is exposed.
type NotificationProcessor struct {
	verifier *SignatureVerifier
}

func NewNotificationProcessor(verifier *SignatureVerifier) *NotificationProcessor {
	return &NotificationProcessor{verifier: verifier}
}

// Process parses body as JSON and verifies its signature. The payload is
// only returned once the signature check passes; a failed check never
// exposes partial fields.
func (p *NotificationProcessor) Process(body []byte) (*Notification, error) {
	fields := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil || len(fields) == 0 {
		return nil, &ValidationError{Message: "invalid notification payload"}
	}

	if err := p.verifier.Verify(fields); err != nil {
		return nil, fmt.Errorf("failed to process notification: %w", err)
	}

	return &Notification{fields: fields}, nil
}
