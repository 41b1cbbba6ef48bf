package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/matchpulse/matchpulse/internal/platform/cache"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
)

const (
	defaultBaseURL   = "https://api.sofascore.com/api/v1"
	maxResponseBytes = 6 << 20
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)

// ErrNoData marks both explicit provider error envelopes and not-found
// responses. Callers treat it as an absent sub-resource, never as a failure
// that should abort the batch.
var ErrNoData = crerr.New("provider returned no data")

var errProviderTransient = crerr.New("provider transient failure")

// IsNoData reports whether err carries the no-data signal.
func IsNoData(err error) bool {
	return crerr.Is(err, ErrNoData)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	ProfileTTL     time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight
	profiles   *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	profileTTL := cfg.ProfileTTL
	if profileTTL <= 0 {
		profileTTL = 6 * time.Hour
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: maxInt(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		profiles:   cache.NewStore(profileTTL),
	}
}

// Fetch retrieves one provider path as a decoded JSON object. Transport
// failures, error envelopes, and not-found responses all surface as
// ErrNoData so the caller degrades the affected record instead of the run.
func (c *Client) Fetch(ctx context.Context, path string) (map[string]any, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: provider is temporarily unavailable", ErrNoData)
	}

	values := url.Values{}
	if c.token != "" {
		values.Set("api_token", c.token)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if reqErr != nil {
			if stderrors.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
			return nil, reqErr
		}
		c.breaker.RecordSuccess()
		return raw, nil
	})
	if err != nil {
		if stderrors.Is(err, errProviderTransient) || isNotFoundError(err) {
			return nil, fmt.Errorf("%w: %v", ErrNoData, sanitizeSensitiveText(err.Error(), c.token))
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	var payload map[string]any
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	if isErrorEnvelope(payload) {
		return nil, fmt.Errorf("%w: error envelope for %s", ErrNoData, path)
	}

	return payload, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if resp.StatusCode == http.StatusNotFound {
				return nil, errNotFound
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "provider request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

var errNotFound = crerr.New("provider resource not found")

func isNotFoundError(err error) bool {
	return stderrors.Is(err, errNotFound)
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func isErrorEnvelope(payload map[string]any) bool {
	if payload == nil {
		return true
	}
	if _, ok := payload["__error__"]; ok {
		return true
	}
	if errObj, ok := payload["error"].(map[string]any); ok {
		if _, hasCode := errObj["code"]; hasCode {
			return true
		}
	}
	return false
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
	return value
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
