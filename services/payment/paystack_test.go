package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerifySuccessfulTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/ref-789", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_xyz", r.Header.Get("Authorization"))

		w.Write([]byte(`{"status":true,"data":{"status":"success","amount":24500000,"reference":"ref-789"}}`))
	}))
	defer srv.Close()

	gateway := NewPaystackGateway(srv.URL, "sk_test_xyz", zap.NewNop())
	result, err := gateway.Verify(context.Background(), "ref-789")
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, int64(24500000), result.Amount)
	assert.NotNil(t, result.Raw["data"])
}

func TestVerifyNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{"status":"abandoned","amount":100}}`))
	}))
	defer srv.Close()

	gateway := NewPaystackGateway(srv.URL, "sk_test_xyz", zap.NewNop())
	result, err := gateway.Verify(context.Background(), "ref-123")

	require.ErrorIs(t, err, ErrVerifyNotSuccessful)
	// The parsed result still comes back for persistence.
	require.NotNil(t, result)
	assert.Equal(t, "abandoned", result.Status)
}

func TestVerifyGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	}))
	defer srv.Close()

	gateway := NewPaystackGateway(srv.URL, "sk_test_xyz", zap.NewNop())
	result, err := gateway.Verify(context.Background(), "missing-ref")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerifyNotSuccessful)
	assert.Nil(t, result)
}

func TestInitializeLinkConvertsToSubunits(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"ref-new"}}`))
	}))
	defer srv.Close()

	gateway := NewPaystackGateway(srv.URL, "sk_test_xyz", zap.NewNop())
	result, err := gateway.InitializeLink(context.Background(), "ada@example.com", 245000)
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", gotBody["email"])
	assert.Equal(t, float64(24500000), gotBody["amount"])

	assert.Equal(t, "https://checkout.paystack.com/abc", result.AuthorizationURL)
	assert.Equal(t, "ref-new", result.Reference)
}

func TestInitializeLinkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":false,"message":"Invalid email address"}`))
	}))
	defer srv.Close()

	gateway := NewPaystackGateway(srv.URL, "sk_test_xyz", zap.NewNop())
	_, err := gateway.InitializeLink(context.Background(), "nope", 100)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email address")
}
