package payment

import (
	"context"
	"fmt"
)

// CreatePayAccount links a GoPay account to the merchant.
func (g *Gateway) CreatePayAccount(ctx context.Context, params map[string]any) (map[string]any, error) {
	if g.cfg.IsSanitized {
		params = SanitizeRequest(params)
	}
	resp, err := g.client.Post(ctx, "/v2/pay/account", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create pay account: %w", err)
	}
	return resp, nil
}

func (g *Gateway) GetPayAccount(ctx context.Context, accountID string) (map[string]any, error) {
	resp, err := g.client.Get(ctx, "/v2/pay/account/"+accountID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get pay account: %w", err)
	}
	return resp, nil
}

func (g *Gateway) UnbindPayAccount(ctx context.Context, accountID string) (map[string]any, error) {
	resp, err := g.client.Post(ctx, "/v2/pay/account/"+accountID+"/unbind", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to unbind pay account: %w", err)
	}
	return resp, nil
}
