package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mealtrack/cli/internal/apperrors"
	"mealtrack/cli/internal/endpoints"
)

// userAgent identifies this client to the service.
const userAgent = "mealtrack-cli"

// meCacheTTL bounds how long a fetched profile is considered fresh.
const meCacheTTL = 10 * time.Minute

// HTTP implements API over the REST endpoints.
// It provides methods for authentication, profile and food-log management,
// and analytics. The account profile is cached in memory to support offline
// status output and reduce API calls.
type HTTP struct {
	// baseURL is the base URL for all requests (e.g. "https://api.mealtrack.app/api/v1")
	baseURL string
	// paths contains the URL paths for the API endpoints
	paths endpoints.Table
	// client is the underlying HTTP client with configured timeout
	client *http.Client

	// meMu guards the profile cache
	meMu sync.Mutex
	// meCache stores the last fetched profile for offline access
	meCache *Profile
	// meCacheTime tracks when the cache was last updated
	meCacheTime time.Time
}

// newHTTP creates a new HTTP client with the given base URL and paths.
// It configures a 10-second timeout for all requests so a hung connection
// never hangs the caller.
func newHTTP(baseURL string, paths endpoints.Table) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		paths:   paths,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// newRequest builds a request with the standard headers. A non-empty token
// is attached as a bearer Authorization header; a non-nil body is sent as
// JSON.
func (h *HTTP) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and decodes a 2xx JSON body into out (skipped when
// out is nil). Non-2xx responses become typed errors carrying the server's
// detail message, or fallback when the body has none.
func (h *HTTP) do(req *http.Request, out any, fallback string) error {
	resp, err := h.client.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.Network, "cannot reach the Mealtrack service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp, fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.Network, "malformed response from server", err)
	}
	return nil
}

// errorFromResponse maps a non-2xx response to a typed error. The service
// reports failures uniformly as {"detail": "..."}; that message is surfaced
// verbatim when present. Server-side failures (5xx) are categorized as
// network problems since retrying is the only remedy.
func errorFromResponse(resp *http.Response, fallback string) error {
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	msg := strings.TrimSpace(body.Detail)
	if msg == "" {
		msg = fallback
	}
	if resp.StatusCode >= 500 {
		return apperrors.Wrap(apperrors.Network, msg, fmt.Errorf("server returned %s", resp.Status))
	}
	return apperrors.New(apperrors.Auth, msg)
}

// Health calls GET /health and returns the service version when available.
// No authentication required. This can be used to check connectivity to the
// backend service.
func (h *HTTP) Health(ctx context.Context) (string, error) {
	req, err := h.newRequest(ctx, http.MethodGet, h.paths.Health, "", nil)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Network, "cannot reach the Mealtrack service", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.Wrap(apperrors.Network, "malformed response from server", err)
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}

// APITime decodes the service's timestamps, which may omit the timezone
// suffix, and marshals back to RFC 3339.
type APITime struct {
	time.Time
}

var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *APITime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range apiTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			t.Time = ts
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t APITime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
