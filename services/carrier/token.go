package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTokenURL is the carrier's OAuth2 token endpoint. Token grants
// are always issued from the production host.
const DefaultTokenURL = "https://travel.api.amadeus.com/v1/security/oauth2/token"

// refreshInterval is how often the cached token is replaced
// unconditionally, regardless of use.
const refreshInterval = 28 * time.Minute

// TokenProvider hands out the current carrier bearer token.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	ForceRefresh(ctx context.Context) error
}

// Credentials are the client-credentials grant parameters.
type Credentials struct {
	ClientID      string
	ClientSecret  string
	GuestOfficeID string
}

// CachedTokenProvider holds a single token slot. Cold-start reads are
// coalesced into one in-flight token request; a timer replaces the
// token every refreshInterval. Readers may observe a token going stale
// mid-flight; the resulting carrier 401 propagates like any other
// carrier failure.
type CachedTokenProvider struct {
	tokenURL string
	creds    Credentials
	http     *http.Client
	logger   *zap.Logger

	mu    sync.RWMutex
	token string

	group singleflight.Group
	cron  *cron.Cron
}

// NewCachedTokenProvider builds the provider. Call StartRefreshing to
// begin the periodic refresh.
func NewCachedTokenProvider(tokenURL string, creds Credentials, logger *zap.Logger) *CachedTokenProvider {
	return &CachedTokenProvider{
		tokenURL: tokenURL,
		creds:    creds,
		http:     http.DefaultClient,
		logger:   logger,
	}
}

// Token returns the cached token, fetching one if the slot is empty.
// Concurrent cold reads share a single fetch.
func (p *CachedTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.RLock()
	token := p.token
	p.mu.RUnlock()
	if token != "" {
		return token, nil
	}

	v, err, _ := p.group.Do("token", func() (interface{}, error) {
		return p.fetch(ctx)
	})
	if err != nil {
		return "", err
	}

	token = v.(string)
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
	return token, nil
}

// ForceRefresh replaces the cached token unconditionally.
func (p *CachedTokenProvider) ForceRefresh(ctx context.Context) error {
	token, err := p.fetch(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.token = token
	p.mu.Unlock()
	return nil
}

// StartRefreshing fetches an initial token and schedules the periodic
// refresh. The initial failure is logged, not fatal: the first request
// will retry lazily.
func (p *CachedTokenProvider) StartRefreshing() {
	ctx := context.Background()
	if err := p.ForceRefresh(ctx); err != nil {
		p.logger.Error("initial carrier token fetch failed", zap.Error(err))
	}

	p.cron = cron.New()
	_, err := p.cron.AddFunc(fmt.Sprintf("@every %s", refreshInterval), func() {
		if err := p.ForceRefresh(context.Background()); err != nil {
			p.logger.Error("carrier token refresh failed", zap.Error(err))
			return
		}
		p.logger.Info("carrier token refreshed")
	})
	if err != nil {
		p.logger.Error("failed to schedule token refresh", zap.Error(err))
		return
	}
	p.cron.Start()
}

// Stop halts the refresh schedule.
func (p *CachedTokenProvider) Stop() {
	if p.cron != nil {
		p.cron.Stop()
	}
}

func (p *CachedTokenProvider) fetch(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.creds.ClientID)
	form.Set("client_secret", p.creds.ClientSecret)
	if p.creds.GuestOfficeID != "" {
		form.Set("guest_office_id", p.creds.GuestOfficeID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", decodeAPIError(resp.StatusCode, raw)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}
	return body.AccessToken, nil
}
