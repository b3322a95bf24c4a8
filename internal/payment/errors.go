package payment

import "fmt"

// ValidationError reports malformed or missing caller input. Nothing was
// sent to Midtrans; the caller can retry with corrected input.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

// ConfigurationError reports a missing or unusable credential.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// SignatureMismatchError reports a failed integrity check on a notification
// or status response. Callers should treat it as a potential forgery.
type SignatureMismatchError struct{}

func (e *SignatureMismatchError) Error() string { return "invalid signature key" }

// TransportError is a network-level failure that survived the retry budget.
type TransportError struct {
	Err      error
	Attempts int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to connect to Midtrans API after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// GatewayError is a non-2xx response from Midtrans. It carries the
// provider-supplied message, the HTTP status and the parsed error body.
type GatewayError struct {
	Message    string
	StatusCode int
	Raw        map[string]any
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("midtrans error (status %d): %s", e.StatusCode, e.Message)
}
