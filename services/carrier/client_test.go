package carrier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joelbobai/Manzo-BE/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSearchOffersSendsCarrierHeaders(t *testing.T) {
	var gotContentType, gotClientRef, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotClientRef = r.Header.Get("ama-client-ref")
		gotAuth = r.Header.Get("Authorization")

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/shopping/flight-offers", r.URL.Path)

		w.Write([]byte(`{"data":[{"id":"1"}],"dictionaries":{"carriers":{"BA":"BRITISH AIRWAYS"}}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "manzo-fixed-ref", zap.NewNop())
	offers, err := client.SearchOffers(context.Background(), models.FlightOffersSearchRequest{}, "tok-abc")
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.amadeus+json", gotContentType)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	// Plain searches get a random correlation id, never the fixed one.
	assert.NotEmpty(t, gotClientRef)
	assert.NotEqual(t, "manzo-fixed-ref", gotClientRef)

	require.Len(t, offers.Data, 1)
	assert.Contains(t, offers.Dictionaries, "carriers")
}

func TestSearchOffersMultiCityUsesFixedClientRef(t *testing.T) {
	var gotClientRef string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClientRef = r.Header.Get("ama-client-ref")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "manzo-fixed-ref", zap.NewNop())
	_, err := client.SearchOffersMultiCity(context.Background(), models.FlightOffersSearchRequest{}, "tok-abc")
	require.NoError(t, err)

	assert.Equal(t, "manzo-fixed-ref", gotClientRef)
}

func TestReserveExtractsOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/booking/flight-orders", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"ORDER-42","type":"flight-order"}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "ref", zap.NewNop())
	order, err := client.Reserve(context.Background(), map[string]interface{}{}, "tok")
	require.NoError(t, err)

	assert.Equal(t, "ORDER-42", order.ID)
	assert.NotNil(t, order.Raw["data"])
}

func TestCarrierErrorsSurfaceAsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"status":400,"code":477,"title":"INVALID FORMAT","detail":"invalid query parameter format"}]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "ref", zap.NewNop())
	_, err := client.SearchOffers(context.Background(), models.FlightOffersSearchRequest{}, "tok")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "INVALID FORMAT", apiErr.Errors[0].Title)
	assert.Contains(t, apiErr.Error(), "invalid query parameter format")
}

func TestCarrierErrorWithUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "ref", zap.NewNop())
	err := client.ApplyCommission(context.Background(), "ORDER-1", map[string]interface{}{}, "tok")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Errors)
}

func TestIssuePostsToIssuancePath(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"data":{"id":"ORDER-42"}}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "ref", zap.NewNop())
	issued, err := client.Issue(context.Background(), "ORDER-42", "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/booking/flight-orders/ORDER-42/issuance", gotPath)
	assert.NotNil(t, issued["data"])
}

func TestApplyCommissionPatchesOrder(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "ref", zap.NewNop())
	err := client.ApplyCommission(context.Background(), "ORDER-42", map[string]interface{}{"data": map[string]interface{}{}}, "tok")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/v1/booking/flight-orders/ORDER-42", gotPath)
}

func TestOrderIDFrom(t *testing.T) {
	assert.Equal(t, "X", orderIDFrom(map[string]interface{}{"data": map[string]interface{}{"id": "X"}}))
	assert.Empty(t, orderIDFrom(map[string]interface{}{"data": "nope"}))
	assert.Empty(t, orderIDFrom(map[string]interface{}{}))
}
