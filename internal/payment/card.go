package payment

import (
	"context"
	"fmt"
	"net/url"
)

// CardRegister registers a card against the merchant account.
func (g *Gateway) CardRegister(ctx context.Context, cardNumber, expMonth, expYear string) (map[string]any, error) {
	params := url.Values{}
	params.Set("card_number", cardNumber)
	params.Set("card_exp_month", expMonth)
	params.Set("card_exp_year", expYear)
	params.Set("client_key", g.cfg.ClientKey)

	resp, err := g.client.Get(ctx, "/v2/card/register", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register card: %w", err)
	}
	return resp, nil
}

// GenerateCardToken tokenizes card details for use in a charge. With
// sanitization enabled the card fields are validated and normalized first.
func (g *Gateway) GenerateCardToken(ctx context.Context, card map[string]any) (map[string]any, error) {
	params := url.Values{}
	params.Set("client_key", g.cfg.ClientKey)

	if g.cfg.IsSanitized {
		sanitized, err := SanitizeCard(card)
		if err != nil {
			return nil, fmt.Errorf("failed to generate card token: %w", err)
		}
		params.Set("card_number", sanitized.Number)
		params.Set("card_exp_month", sanitized.ExpMonth)
		params.Set("card_exp_year", sanitized.ExpYear)
		if sanitized.CVV != "" {
			params.Set("card_cvv", sanitized.CVV)
		}
	} else {
		for _, key := range []string{"card_number", "card_exp_month", "card_exp_year", "card_cvv"} {
			if value := asString(card[key]); value != "" {
				params.Set(key, value)
			}
		}
	}

	resp, err := g.client.Get(ctx, "/v2/token", params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate card token: %w", err)
	}
	return resp, nil
}

// CardBIN looks up issuer data for a card. Only the first 8 digits (the bank
// identification number) leave the process.
func (g *Gateway) CardBIN(ctx context.Context, cardNumber string) (map[string]any, error) {
	bin := nonDigits.ReplaceAllString(cardNumber, "")
	if len(bin) > 8 {
		bin = bin[:8]
	}

	resp, err := g.client.Get(ctx, "/v1/bins/"+bin, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to look up card BIN: %w", err)
	}
	if data, ok := asMap(resp["data"]); ok {
		return data, nil
	}
	return resp, nil
}

// CardRegisterWithBIN combines a BIN lookup and a card registration into one
// composite result. Either call failing fails the whole operation; no
// partial combination is returned.
func (g *Gateway) CardRegisterWithBIN(ctx context.Context, cardNumber, expMonth, expYear string) (map[string]any, error) {
	binData, err := g.CardBIN(ctx, cardNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to register card with BIN: %w", err)
	}

	registration, err := g.CardRegister(ctx, cardNumber, expMonth, expYear)
	if err != nil {
		return nil, fmt.Errorf("failed to register card with BIN: %w", err)
	}

	return map[string]any{
		"card_registration": registration,
		"bin_data":          binData,
	}, nil
}
