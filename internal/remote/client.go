// Package remote is the call-through to the hosted backend: table-scoped
// PostgREST inserts/selects plus password authentication. Every call is a
// single request with no retry; failures come back as errors for the caller
// to log and absorb.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// Client talks to one Supabase project.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu      sync.RWMutex
	session *Session
}

// NewClient builds a client for the project at baseURL authenticated with the
// project's anon key.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    http.DefaultClient,
	}
}

// AuthUser is the identity record returned by the auth endpoints.
type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Session is an authenticated session against the backend.
type Session struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        AuthUser `json:"user"`
}

// UseSession attaches a session so subsequent table calls run as that user.
// Passing nil reverts to the anon key.
func (c *Client) UseSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session != nil && c.session.AccessToken != "" && !c.session.Expired() {
		return c.session.AccessToken
	}
	return c.anonKey
}

// apiError is a non-2xx response from the backend.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
}

func decodeError(status int, body []byte) error {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Msg
	}
	if msg == "" {
		msg = payload.ErrorDescription
	}
	if msg == "" {
		msg = string(body)
	}
	return &apiError{Status: status, Message: msg}
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// InsertRow inserts one row into table and returns the representation the
// backend sends back, remote-assigned id included.
func (c *Client) InsertRow(ctx context.Context, table string, row map[string]any) (map[string]any, error) {
	payload, err := json.Marshal([]map[string]any{row})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/"+table, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, decodeError(status, body)
	}
	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("remote: insert into %s returned no rows", table)
	}
	return rows[0], nil
}

// SelectSingle fetches at most one row from table where column equals value.
// A missing row is (nil, nil), not an error.
func (c *Client) SelectSingle(ctx context.Context, table, column, value, columns string) (map[string]any, error) {
	q := url.Values{}
	q.Set(column, "eq."+value)
	q.Set("select", columns)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/"+table+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.pgrst.object+json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	// PostgREST answers 406 when the object representation matches no row.
	if status == http.StatusNotAcceptable || status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status >= 300 {
		return nil, decodeError(status, body)
	}
	var row map[string]any
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, nil
	}
	return row, nil
}

// SignUp creates an identity with the auth provider. The username travels in
// the identity's metadata.
func (c *Client) SignUp(ctx context.Context, email, password, username string) (*Session, error) {
	payload, err := json.Marshal(map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]any{"username": username},
	})
	if err != nil {
		return nil, err
	}
	return c.authRequest(ctx, "/auth/v1/signup", payload)
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	payload, err := json.Marshal(map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return c.authRequest(ctx, "/auth/v1/token?grant_type=password", payload)
}

func (c *Client) authRequest(ctx context.Context, path string, payload []byte) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, decodeError(status, body)
	}
	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, err
	}
	if session.User.ID == "" {
		// Signup with email confirmation enabled returns the bare identity
		// instead of a session.
		var user AuthUser
		if err := json.Unmarshal(body, &user); err != nil {
			return nil, err
		}
		session.User = user
	}
	if session.User.ID == "" {
		return nil, fmt.Errorf("remote: auth response carried no user")
	}
	return &session, nil
}
