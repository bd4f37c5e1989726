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

	"github.com/Santos2175/auth-app/internal/common"
)

const apiPrefix = "/api/auth"

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
	User    *Account `json:"user"`
}

// HTTPClient implements Client against the JSON API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient returns a client for the server at baseURL, e.g.
// "http://localhost:5000".
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) endpoint(path string) string {
	return c.baseURL.String() + apiPrefix + path
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any) (*envelope, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg, Detail: env.Error}
	}

	return &env, nil
}

func (c *HTTPClient) Signup(ctx context.Context, email, name string, password []byte) (*Account, error) {
	env, err := c.do(ctx, http.MethodPost, "/signup", map[string]string{
		"email":    email,
		"name":     name,
		"password": string(password),
	})
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*Account, error) {
	env, err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": string(password),
	})
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// Logout asks the server to end the session and always forgets the local
// cookie.
func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", nil)
	c.forgetSession()
	return err
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, code string) (*Account, error) {
	env, err := c.do(ctx, http.MethodPost, "/verify-email", map[string]string{"code": code})
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/forgot-password", map[string]string{"email": email})
	return err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token string, password []byte) error {
	_, err := c.do(ctx, http.MethodPost, "/reset-password/"+url.PathEscape(token),
		map[string]string{"password": string(password)})
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (*Account, error) {
	env, err := c.do(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}
	return env.User, nil
}

// HasSession reports whether the jar holds a session cookie for the server.
func (c *HTTPClient) HasSession() bool {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == common.SessionCookieName && ck.Value != "" {
			return true
		}
	}
	return false
}

func (c *HTTPClient) forgetSession() {
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:   common.SessionCookieName,
		Path:   "/",
		MaxAge: -1,
	}})
}
