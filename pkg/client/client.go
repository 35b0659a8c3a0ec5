// Package client is a typed Go client for the eventhub API. It sends the
// bearer token held by a session.Session and keeps that session in step with
// login and logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gdsc/eventhub/pkg/session"
)

const defaultTimeout = 15 * time.Second

// Client talks to one eventhub server.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for baseURL. sess may be nil for anonymous use.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session { return c.session }

// Signup creates an account. role may be empty for the default role.
func (c *Client) Signup(ctx context.Context, username, password, role string) (*User, error) {
	body := map[string]string{"username": username, "password": password}
	if role != "" {
		body["role"] = role
	}
	var resp struct {
		User User `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/users", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login exchanges credentials for a token and stores it in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return err
	}
	if c.session == nil {
		return fmt.Errorf("eventhub: login requires a session")
	}
	return c.session.Login(resp.Token)
}

// Logout revokes the token on the server and always tears down the local
// session. A server rejection of an already invalid token is not an error.
func (c *Client) Logout(ctx context.Context) error {
	if c.session == nil {
		return nil
	}

	var serverErr error
	if c.session.Token() != "" {
		_, serverErr = c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
		if k := KindOf(serverErr); k == KindAuthentication || k == KindAuthorization {
			serverErr = nil
		}
	}

	if err := c.session.Logout(); err != nil {
		return err
	}
	return serverErr
}

// Me returns the principal the server decodes from the current token.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	var me Me
	if _, err := c.do(ctx, http.MethodGet, "/api/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

func (c *Client) ListEvents(ctx context.Context, opts ListOptions) (*EventPage, error) {
	q := url.Values{}
	if opts.Query != "" {
		q.Set("q", opts.Query)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	page := &EventPage{}
	header, err := c.do(ctx, http.MethodGet, path, nil, &page.Events)
	if err != nil {
		return nil, err
	}
	page.Total = int64(len(page.Events))
	if v := header.Get("X-Total-Count"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			page.Total = n
		}
	}
	return page, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var ev Event
	if _, err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	var ev Event
	if _, err := c.do(ctx, http.MethodPost, "/api/events", in, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error) {
	var ev Event
	if _, err := c.do(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), patch, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/events/"+url.PathEscape(id), nil, nil)
	return err
}

// RegisterForEvent registers the session's user for the event.
func (c *Client) RegisterForEvent(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/events/"+url.PathEscape(id)+"/register", nil, nil)
	return err
}

// RegisteredEvents lists the events userID registered for.
func (c *Client) RegisteredEvents(ctx context.Context, userID string) ([]Event, error) {
	var events []Event
	if _, err := c.do(ctx, http.MethodGet, "/api/events/registered/"+url.PathEscape(userID), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/ping", nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (http.Header, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("eventhub: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("eventhub: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eventhub: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.Header, decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, fmt.Errorf("eventhub: decode response: %w", err)
	}
	return resp.Header, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(raw, &envelope) == nil {
		msg = envelope.Error
		if msg == "" {
			msg = envelope.Message
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
