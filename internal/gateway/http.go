// Package gateway implements the blockchain gateway client over the chain
// service's REST API. The engine only ever talks to the chain through this
// narrow surface.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"dealtokens/internal/services/walletlink"

	"github.com/shopspring/decimal"
)

var _ walletlink.BlockchainGateway = (*HTTPGateway)(nil)

// HTTPGateway calls the external chain service.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPGateway creates a gateway client. Requests are bounded by the
// client timeout so a dead chain service surfaces as an error, not a hang.
func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (g *HTTPGateway) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	var out struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := g.get(ctx, "/v1/balance/"+address, &out); err != nil {
		return decimal.Zero, err
	}
	return out.Balance, nil
}

func (g *HTTPGateway) Transfer(ctx context.Context, fromAddress, toAddress string, amount decimal.Decimal) (string, error) {
	in := map[string]interface{}{
		"from":   fromAddress,
		"to":     toAddress,
		"amount": amount,
	}
	var out struct {
		TransferID string `json:"transfer_id"`
	}
	if err := g.post(ctx, "/v1/transfers", in, &out); err != nil {
		return "", err
	}
	return out.TransferID, nil
}

func (g *HTTPGateway) VerifySignature(ctx context.Context, address, challenge, signature string) (bool, error) {
	in := map[string]interface{}{
		"address":   address,
		"challenge": challenge,
		"signature": signature,
	}
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := g.post(ctx, "/v1/signatures/verify", in, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

func (g *HTTPGateway) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	return g.do(req, out)
}

func (g *HTTPGateway) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, out)
}

func (g *HTTPGateway) do(req *http.Request, out interface{}) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
