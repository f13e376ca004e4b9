// Package client is the HTTP client behind the account forms.  It keeps the
// session cookie in a cookie jar and never follows the login redirect, so a
// 302 is observed as the success it is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/launchdev/internal/model"
)

const sessionCookie = "token"

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client talks to the account API at a fixed base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// New returns a Client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: u,
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// Signup creates an account.  name may be empty.
func (c *Client) Signup(ctx context.Context, email, password, name string) error {
	form := url.Values{"email": {email}, "password": {password}}
	if name != "" {
		form.Set("name", name)
	}
	return c.postForm(ctx, "/api/signup", form, http.StatusOK)
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{"email": {email}, "password": {password}}
	return c.postForm(ctx, "/api/login", form, http.StatusFound)
}

// Logout asks the server to expire the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.postForm(ctx, "/api/logout", url.Values{}, http.StatusFound)
}

// LoggedIn reports whether a session cookie is held for the server.
func (c *Client) LoggedIn() bool {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == sessionCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

// GetUser returns the account behind the current session.
func (c *Client) GetUser(ctx context.Context) (model.UserView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/getUser"), nil)
	if err != nil {
		return model.UserView{}, err
	}
	var out struct {
		User model.UserView `json:"user"`
	}
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return model.UserView{}, err
	}
	return out.User, nil
}

// Subscribe purchases plan for the current session.
func (c *Client) Subscribe(ctx context.Context, plan model.Plan) error {
	body, err := json.Marshal(map[string]string{"plan": string(plan)})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/api/subscribe"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, http.StatusOK, nil)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, want int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, want, nil)
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// do sends req and decodes a JSON body into out when the status is want.
// Other statuses become *APIError carrying the server's "error" message.
func (c *Client) do(req *http.Request, want int, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &body) == nil && body.Error != "" {
			apiErr.Message = body.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
