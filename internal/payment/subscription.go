package payment

import (
	"context"
	"fmt"
)

// CreateSubscription creates a recurring subscription. The payload goes
// through the shared sanitizer when sanitization is enabled.
func (g *Gateway) CreateSubscription(ctx context.Context, params map[string]any) (map[string]any, error) {
	if g.cfg.IsSanitized {
		params = SanitizeRequest(params)
	}
	resp, err := g.client.Post(ctx, "/v1/subscriptions", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return resp, nil
}

func (g *Gateway) GetSubscription(ctx context.Context, subscriptionID string) (map[string]any, error) {
	resp, err := g.client.Get(ctx, "/v1/subscriptions/"+subscriptionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return resp, nil
}

func (g *Gateway) EnableSubscription(ctx context.Context, subscriptionID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v1/subscriptions/"+subscriptionID+"/enable", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to enable subscription: %w", err)
	}
	return resp, nil
}

func (g *Gateway) DisableSubscription(ctx context.Context, subscriptionID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v1/subscriptions/"+subscriptionID+"/disable", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to disable subscription: %w", err)
	}
	return resp, nil
}

func (g *Gateway) CancelSubscription(ctx context.Context, subscriptionID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v1/subscriptions/"+subscriptionID+"/cancel", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return resp, nil
}

// UpdateSubscription patches a subscription. The update body runs through
// the transaction-details sanitization path directly, with no envelope
// wrapping.
func (g *Gateway) UpdateSubscription(ctx context.Context, subscriptionID string, params map[string]any) (map[string]any, error) {
	if g.cfg.IsSanitized {
		params = SanitizeTransactionDetails(params)
	}
	resp, err := g.client.Patch(ctx, "/v1/subscriptions/"+subscriptionID, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	return resp, nil
}
