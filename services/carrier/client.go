package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/joelbobai/Manzo-BE/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const contentType = "application/vnd.amadeus+json"

// Client wraps the GDS shopping and booking endpoints. Every call is a
// single request with the caller's bearer token; there is no retry and
// no client-side timeout policy.
type Client interface {
	SearchOffers(ctx context.Context, req models.FlightOffersSearchRequest, token string) (*OfferSet, error)
	SearchOffersMultiCity(ctx context.Context, req models.FlightOffersSearchRequest, token string) (*OfferSet, error)
	PriceOffers(ctx context.Context, offers map[string]interface{}, token string) (map[string]interface{}, error)
	Reserve(ctx context.Context, order map[string]interface{}, token string) (*Order, error)
	ApplyCommission(ctx context.Context, orderID string, payload map[string]interface{}, token string) error
	Issue(ctx context.Context, orderID string, token string) (map[string]interface{}, error)
}

// OfferSet is a decoded flight-offers search response.
type OfferSet struct {
	Data         []map[string]interface{} `json:"data"`
	Dictionaries map[string]interface{}   `json:"dictionaries"`
}

// Order is a reservation created with the carrier. Raw keeps the full
// document; ID is extracted for the follow-up commission and issuance
// calls.
type Order struct {
	ID  string
	Raw map[string]interface{}
}

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	baseURL string
	// clientRef is the pre-shared correlation id used for multi-city
	// search and commission calls; plain searches get a random one.
	clientRef string
	http      *http.Client
	logger    *zap.Logger
}

// NewHTTPClient builds a carrier client against the given base URL.
func NewHTTPClient(baseURL, clientRef string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		clientRef: clientRef,
		http:      http.DefaultClient,
		logger:    logger,
	}
}

// SearchOffers runs a flight-offers search with a fresh correlation id.
func (c *HTTPClient) SearchOffers(ctx context.Context, req models.FlightOffersSearchRequest, token string) (*OfferSet, error) {
	var out OfferSet
	if err := c.do(ctx, http.MethodPost, "/v2/shopping/flight-offers", req, token, uuid.New().String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchOffersMultiCity runs the same search under the pre-shared
// correlation id, as multi-city traffic is tracked separately.
func (c *HTTPClient) SearchOffersMultiCity(ctx context.Context, req models.FlightOffersSearchRequest, token string) (*OfferSet, error) {
	var out OfferSet
	if err := c.do(ctx, http.MethodPost, "/v2/shopping/flight-offers", req, token, c.clientRef, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PriceOffers confirms pricing for previously returned offers.
func (c *HTTPClient) PriceOffers(ctx context.Context, offers map[string]interface{}, token string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/v1/shopping/flight-offers/pricing", offers, token, uuid.New().String(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Reserve creates an unissued order with the carrier.
func (c *HTTPClient) Reserve(ctx context.Context, order map[string]interface{}, token string) (*Order, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodPost, "/v1/booking/flight-orders", order, token, uuid.New().String(), &out); err != nil {
		return nil, err
	}
	return &Order{ID: orderIDFrom(out), Raw: out}, nil
}

// ApplyCommission patches the commission payload onto a reserved
// order. The value is advisory to the carrier.
func (c *HTTPClient) ApplyCommission(ctx context.Context, orderID string, payload map[string]interface{}, token string) error {
	path := fmt.Sprintf("/v1/booking/flight-orders/%s", orderID)
	return c.do(ctx, http.MethodPatch, path, payload, token, c.clientRef, nil)
}

// Issue finalizes a reservation into a ticketed order.
func (c *HTTPClient) Issue(ctx context.Context, orderID string, token string) (map[string]interface{}, error) {
	path := fmt.Sprintf("/v1/booking/flight-orders/%s/issuance", orderID)
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodPost, path, nil, token, uuid.New().String(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, token, clientRef string, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode carrier request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build carrier request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("ama-client-ref", clientRef)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read carrier response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp.StatusCode, raw)
		c.logger.Warn("carrier call rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("errors", apiErr.Error()),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode carrier response: %w", err)
	}
	return nil
}

// orderIDFrom digs the order id out of a flight-orders response.
func orderIDFrom(doc map[string]interface{}) string {
	data, ok := doc["data"].(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := data["id"].(string)
	return id
}
