package payment

import (
	"context"
	"fmt"
	"net/http"

	"midtrans-go/internal/config"
	"midtrans-go/internal/logger"
)

// Per-request notification routing headers Midtrans honors.
const (
	HeaderOverrideNotification = "X-Override-Notification"
	HeaderAppendNotification   = "X-Append-Notification"
)

// Gateway composes the transport client, sanitizer and signature verifier
// into the Midtrans operation set: charge, transaction lifecycle, invoices,
// subscriptions, cards and GoPay accounts.
type Gateway struct {
	client   *Client
	cfg      *config.Config
	verifier *SignatureVerifier
}

func NewGateway(cfg *config.Config) *Gateway {
	if cfg.ServerKey == "" {
		logger.L().Warn("Midtrans server key is empty")
	}
	return &Gateway{
		client:   NewClient(cfg),
		cfg:      cfg,
		verifier: NewSignatureVerifier(cfg.ServerKey),
	}
}

// Charge creates a transaction. With sanitization enabled the payload is
// normalized first; explicit notification overrides are moved from the body
// into headers; 3DS is forced on the card section when configured.
func (g *Gateway) Charge(ctx context.Context, params map[string]any) (map[string]any, error) {
	if g.cfg.IsSanitized {
		params = SanitizeRequest(params)
	} else {
		params = shallowCopy(params)
	}

	headers := g.notificationHeaders(params)

	if g.cfg.Is3DS {
		if card, ok := asMap(params["credit_card"]); ok {
			secured := shallowCopy(card)
			secured["secure"] = true
			params["credit_card"] = secured
		}
	}

	resp, err := g.client.Post(ctx, "/v2/charge", params, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to charge transaction: %w", err)
	}
	return resp, nil
}

// notificationHeaders picks per-call notification routing. Explicit request
// parameters win over configuration defaults and are removed from the body
// so they are never sent to the charge endpoint. An empty configured URL
// means the behavior is disabled.
func (g *Gateway) notificationHeaders(params map[string]any) http.Header {
	headers := http.Header{}
	if override := asString(params["override_notif_url"]); override != "" {
		headers.Set(HeaderOverrideNotification, override)
		delete(params, "override_notif_url")
	} else if appendURL := asString(params["append_notif_url"]); appendURL != "" {
		headers.Set(HeaderAppendNotification, appendURL)
		delete(params, "append_notif_url")
	} else if g.cfg.OverrideNotifURL != "" {
		headers.Set(HeaderOverrideNotification, g.cfg.OverrideNotifURL)
	} else if g.cfg.AppendNotifURL != "" {
		headers.Set(HeaderAppendNotification, g.cfg.AppendNotifURL)
	}
	return headers
}

func shallowCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
