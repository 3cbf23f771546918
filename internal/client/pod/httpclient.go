package pod

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/healthpod/healthpod/internal/common"
)

// resource is the wire form of a stored object.
type resource struct {
	Path      string    `json:"path"`
	Content   []byte    `json:"content"`
	Encrypted bool      `json:"encrypted"`
	UpdatedAt time.Time `json:"updated_at"`
}

type containerDTO struct {
	Files []struct {
		Name      string    `json:"name"`
		Size      int64     `json:"size"`
		UpdatedAt time.Time `json:"updated_at"`
	} `json:"files"`
	Subdirs []string `json:"subdirs"`
}

// HTTPClient talks to the pod server's JSON API. It owns the token pair and
// transparently refreshes the access token once when the server reports it
// expired.
type HTTPClient struct {
	baseURL      string
	http         *http.Client
	accessToken  string
	refreshToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) endpoint(p string) string {
	return c.baseURL + "/api/v1" + p
}

// doJSON performs one request with optional JSON body and decodes a JSON
// response into out when out is non-nil. Non-2xx statuses map onto the
// client sentinels.
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	err := c.doJSONOnce(ctx, method, endpoint, body, out, c.accessToken)
	if !isTokenExpired(err) {
		return err
	}
	if c.refreshToken == "" {
		return common.ErrNotLoggedIn
	}

	// access token expired: refresh once and retry
	if rerr := c.refresh(ctx); rerr != nil {
		return common.ErrNotLoggedIn
	}

	err = c.doJSONOnce(ctx, method, endpoint, body, out, c.accessToken)
	if isTokenExpired(err) {
		return common.ErrNotLoggedIn
	}
	return err
}

// expiredError marks a 401 caused specifically by access-token expiry.
type expiredError struct{}

func (expiredError) Error() string { return common.ErrTokenExpired.Error() }

func isTokenExpired(err error) bool {
	_, ok := err.(expiredError)
	return ok
}

func (c *HTTPClient) doJSONOnce(ctx context.Context, method, endpoint string, body, out any, token string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		if strings.Contains(string(msg), common.ErrTokenExpired.Error()) {
			return expiredError{}
		}
		return common.ErrNotLoggedIn
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", common.ErrFailedToLoad, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", common.ErrFailedToLoad, err)
		}
	}
	return nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	err := c.doJSONOnce(ctx, http.MethodPost, c.endpoint("/auth/refresh"),
		map[string]string{"refresh_token": c.refreshToken}, &resp, "")
	if err != nil {
		return err
	}
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}

// Register creates an account from the client-derived salt and verifier.
func (c *HTTPClient) Register(ctx context.Context, username string, salt, verifier []byte) error {
	body := map[string]any{"username": username, "salt": salt, "verifier": verifier}
	return c.doJSON(ctx, http.MethodPost, c.endpoint("/auth/register"), body, nil)
}

// GetSalt fetches the registration salt for username.
func (c *HTTPClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	var resp struct {
		Salt []byte `json:"salt"`
	}
	endpoint := c.endpoint("/auth/salt") + "?username=" + url.QueryEscape(username)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Salt, nil
}

// Login authenticates with the verifier and stores the issued token pair.
func (c *HTTPClient) Login(ctx context.Context, username string, verifier []byte) error {
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	body := map[string]any{"username": username, "verifier": verifier}
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/auth/login"), body, &resp); err != nil {
		return err
	}
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	return nil
}

// Logout drops the cached token pair.
func (c *HTTPClient) Logout() {
	c.accessToken = ""
	c.refreshToken = ""
}

// LoggedIn reports whether an access token is held.
func (c *HTTPClient) LoggedIn() bool {
	return c.accessToken != ""
}

// Ping checks server liveness.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, c.endpoint("/ping"), nil, nil)
}

func (c *HTTPClient) readResource(ctx context.Context, path string) (*resource, error) {
	var res resource
	endpoint := c.endpoint("/resources") + "?path=" + url.QueryEscape(path)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) writeResource(ctx context.Context, path string, content []byte, encrypted bool) error {
	body := map[string]any{"path": path, "content": content, "encrypted": encrypted}
	return c.doJSON(ctx, http.MethodPut, c.endpoint("/resources"), body, nil)
}

func (c *HTTPClient) deleteResource(ctx context.Context, path string) error {
	endpoint := c.endpoint("/resources") + "?path=" + url.QueryEscape(path)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *HTTPClient) listContainer(ctx context.Context, path string) (*containerDTO, error) {
	var dto containerDTO
	endpoint := c.endpoint("/containers") + "?path=" + url.QueryEscape(path)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}
