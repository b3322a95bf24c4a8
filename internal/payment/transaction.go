package payment

import (
	"context"
	"fmt"
)

// Status fetches a transaction's status and verifies the response signature
// before returning it. A status response is untrusted until its signature
// checks out; a tampered intermediate response must not be treated as
// authoritative.
func (g *Gateway) Status(ctx context.Context, orderID string) (map[string]any, error) {
	resp, err := g.client.Get(ctx, "/v2/"+orderID+"/status", nil, nil)
	if err == nil {
		err = g.verifier.Verify(resp)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction status: %w", err)
	}
	return resp, nil
}

// StatusB2B fetches B2B transaction status. The B2B endpoint does not carry
// a signature key, so no verification applies.
func (g *Gateway) StatusB2B(ctx context.Context, orderID string) (map[string]any, error) {
	resp, err := g.client.Get(ctx, "/v2/"+orderID+"/status/b2b", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get B2B transaction status: %w", err)
	}
	return resp, nil
}

func (g *Gateway) Approve(ctx context.Context, orderID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v2/"+orderID+"/approve", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to approve transaction: %w", err)
	}
	return resp, nil
}

func (g *Gateway) Deny(ctx context.Context, orderID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v2/"+orderID+"/deny", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to deny transaction: %w", err)
	}
	return resp, nil
}

func (g *Gateway) Cancel(ctx context.Context, orderID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v2/"+orderID+"/cancel", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}
	return resp, nil
}

func (g *Gateway) Expire(ctx context.Context, orderID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v2/"+orderID+"/expire", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to expire transaction: %w", err)
	}
	return resp, nil
}

// Refund refunds a settled transaction. The refund body goes through the
// same sanitizer as a charge when sanitization is enabled.
func (g *Gateway) Refund(ctx context.Context, orderID string, params map[string]any) (map[string]any, error) {
	if g.cfg.IsSanitized {
		params = SanitizeRequest(params)
	}
	resp, err := g.client.Post(ctx, "/v2/"+orderID+"/refund", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to refund transaction: %w", err)
	}
	return resp, nil
}

// RefundDirect refunds directly to the customer's payment channel.
func (g *Gateway) RefundDirect(ctx context.Context, orderID string, params map[string]any) (map[string]any, error) {
	if g.cfg.IsSanitized {
		params = SanitizeRequest(params)
	}
	resp, err := g.client.Post(ctx, "/v2/"+orderID+"/refund/online/direct", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to direct refund transaction: %w", err)
	}
	return resp, nil
}
