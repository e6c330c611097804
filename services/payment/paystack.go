package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// DefaultBaseURL is the payment gateway host.
const DefaultBaseURL = "https://api.paystack.co"

// ErrVerifyNotSuccessful means the gateway answered but the
// transaction is not in the "success" state.
var ErrVerifyNotSuccessful = errors.New("transaction not successful")

// Gateway wraps the payment provider's transaction endpoints. Verify
// is authoritative for the "was this booking paid for" decision.
type Gateway interface {
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	InitializeLink(ctx context.Context, email string, amount int64) (*InitResult, error)
}

// VerifyResult is a parsed verify response. Raw keeps the gateway
// document verbatim; it is persisted with the booking.
type VerifyResult struct {
	Status string
	Amount int64
	Raw    map[string]interface{}
}

// InitResult is the outcome of initializing a payment link.
type InitResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// PaystackGateway is the production Gateway implementation.
type PaystackGateway struct {
	baseURL   string
	secretKey string
	http      *http.Client
	logger    *zap.Logger
}

// NewPaystackGateway builds a gateway client with the
// environment-appropriate secret key.
func NewPaystackGateway(baseURL, secretKey string, logger *zap.Logger) *PaystackGateway {
	return &PaystackGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      http.DefaultClient,
		logger:    logger,
	}
}

// Verify checks a transaction reference with the gateway. Success
// requires the nested data.status field to equal "success"; any other
// value yields ErrVerifyNotSuccessful alongside the parsed result.
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	raw, err := g.send(req)
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	result := &VerifyResult{Raw: doc}
	if data, ok := doc["data"].(map[string]interface{}); ok {
		result.Status, _ = data["status"].(string)
		if amount, ok := data["amount"].(float64); ok {
			result.Amount = int64(amount)
		}
	}

	if result.Status != "success" {
		g.logger.Warn("payment verification not successful",
			zap.String("reference", reference),
			zap.String("status", result.Status),
		)
		return result, ErrVerifyNotSuccessful
	}
	return result, nil
}

// InitializeLink requests a hosted payment page for the given email
// and amount. The amount is in the currency's major unit; the gateway
// expects subunits, so it is multiplied by 100 on the wire.
func (g *PaystackGateway) InitializeLink(ctx context.Context, email string, amount int64) (*InitResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":  email,
		"amount": amount * 100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	raw, err := g.send(req)
	if err != nil {
		return nil, err
	}

	var body struct {
		Status bool   `json:"status"`
		Msg    string `json:"message"`
		Data   struct {
			AuthorizationURL string `json:"authorization_url"`
			AccessCode       string `json:"access_code"`
			Reference        string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}
	if !body.Status {
		return nil, fmt.Errorf("payment link initialization failed: %s", body.Msg)
	}

	return &InitResult{
		AuthorizationURL: body.Data.AuthorizationURL,
		AccessCode:       body.Data.AccessCode,
		Reference:        body.Data.Reference,
	}, nil
}

func (g *PaystackGateway) send(req *http.Request) ([]byte, error) {
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return raw, nil
}
