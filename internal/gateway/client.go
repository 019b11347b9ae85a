package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/model"
)

// Client is the HTTP implementation of Gateway. It holds the current
// session in memory (optionally cached on disk so a later process can
// restore it) and fires registered session-change callbacks on its own
// auth transitions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	cachePath  string

	mu      sync.Mutex
	session *model.Session
	subs    map[int]func(*model.Identity)
	nextSub int
}

var _ Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger attaches a structured logger (metadata only, no payloads).
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithSessionCache persists the session to the given file so a
// restarted client can restore it.
func WithSessionCache(path string) Option {
	return func(c *Client) { c.cachePath = path }
}

// NewClient creates a gateway client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop(),
		subs:       map[int]func(*model.Identity){},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ---- auth ----

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates a remote identity and stores the issued session.
func (c *Client) SignUp(ctx context.Context, email, password string) (model.Identity, error) {
	var sess model.Session
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", credentials{Email: email, Password: password}, &sess); err != nil {
		return model.Identity{}, err
	}
	c.setSession(&sess)
	return sess.Identity, nil
}

// SignIn authenticates and stores the issued session.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.Identity, error) {
	var sess model.Session
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", credentials{Email: email, Password: password}, &sess); err != nil {
		return model.Identity{}, err
	}
	c.setSession(&sess)
	return sess.Identity, nil
}

// SignOut invalidates the session remotely, then clears the local one.
// On failure the local session is kept, so local state may diverge
// from reality until the next auth operation.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signout", nil, nil); err != nil {
		return err
	}
	c.setSession(nil)
	return nil
}

// Session returns the identity of the current session, or nil when no
// usable session exists. A cached token that the server rejects is
// discarded rather than surfaced as a failure.
func (c *Client) Session(ctx context.Context) (*model.Identity, error) {
	c.mu.Lock()
	sess := c.session
	if sess == nil && c.cachePath != "" {
		sess = c.loadCacheLocked()
		c.session = sess
	}
	c.mu.Unlock()

	if sess == nil || !time.Now().Before(sessionExpiry(sess)) {
		return nil, nil
	}

	var ident model.Identity
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &ident)
	if errors.Is(err, errs.ErrUnauthorized) {
		c.setSession(nil)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ident, nil
}

// OnSessionChange registers fn and returns its unsubscribe handle.
func (c *Client) OnSessionChange(fn func(*model.Identity)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// setSession swaps the stored session, updates the on-disk cache, and
// notifies subscribers outside the lock.
func (c *Client) setSession(sess *model.Session) {
	c.mu.Lock()
	c.session = sess
	if c.cachePath != "" {
		c.storeCacheLocked(sess)
	}
	fns := make([]func(*model.Identity), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	var ident *model.Identity
	if sess != nil {
		id := sess.Identity
		ident = &id
	}
	for _, fn := range fns {
		fn(ident)
	}
}

// sessionExpiry prefers the recorded expiry and falls back to the
// token's unverified exp claim (verification is the server's job).
func sessionExpiry(sess *model.Session) time.Time {
	if !sess.ExpiresAt.IsZero() {
		return sess.ExpiresAt
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

func (c *Client) loadCacheLocked() *model.Session {
	b, err := os.ReadFile(c.cachePath)
	if err != nil {
		return nil
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil
	}
	if sess.AccessToken == "" || !time.Now().Before(sessionExpiry(&sess)) {
		return nil
	}
	return &sess
}

func (c *Client) storeCacheLocked(sess *model.Session) {
	if sess == nil {
		_ = os.Remove(c.cachePath)
		return
	}
	_ = os.MkdirAll(filepath.Dir(c.cachePath), 0o700)
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(c.cachePath, b, 0o600); err != nil {
		c.log.Warn("session cache write failed", zap.Error(err))
	}
}

// ---- profiles ----

// InsertProfile creates the application-level profile row for a
// freshly created identity.
func (c *Client) InsertProfile(ctx context.Context, np model.NewProfile) (model.Profile, error) {
	var p model.Profile
	err := c.do(ctx, http.MethodPost, "/api/v1/profiles", np, &p)
	return p, err
}

// Profile fetches a profile by id; a missing profile is nil, nil.
func (c *Client) Profile(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	err := c.do(ctx, http.MethodGet, "/api/v1/profiles/"+url.PathEscape(id), nil, &p)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ---- projects ----

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var ps []model.Project
	err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &ps)
	return ps, err
}

func (c *Client) Project(ctx context.Context, id string) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(id), nil, &p)
	return p, err
}

func (c *Client) InsertProject(ctx context.Context, np model.NewProject) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodPost, "/api/v1/projects", np, &p)
	return p, err
}

func (c *Client) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	var p model.Project
	err := c.do(ctx, http.MethodPatch, "/api/v1/projects/"+url.PathEscape(id), patch, &p)
	return p, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/projects/"+url.PathEscape(id), nil, nil)
}

// ---- members ----

func (c *Client) InsertMember(ctx context.Context, nm model.NewMember) (model.ProjectMember, error) {
	var m model.ProjectMember
	err := c.do(ctx, http.MethodPost, "/api/v1/members", nm, &m)
	return m, err
}

func (c *Client) DeleteMember(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/members/"+url.PathEscape(id), nil, nil)
}

// ---- tickets ----

func (c *Client) ListTickets(ctx context.Context, projectID string) ([]model.Ticket, error) {
	path := "/api/v1/tickets"
	if projectID != "" {
		path += "?project_id=" + url.QueryEscape(projectID)
	}
	var ts []model.Ticket
	err := c.do(ctx, http.MethodGet, path, nil, &ts)
	return ts, err
}

func (c *Client) Ticket(ctx context.Context, id string) (model.Ticket, error) {
	var t model.Ticket
	err := c.do(ctx, http.MethodGet, "/api/v1/tickets/"+url.PathEscape(id), nil, &t)
	return t, err
}

func (c *Client) InsertTicket(ctx context.Context, nt model.NewTicket) (model.Ticket, error) {
	var t model.Ticket
	err := c.do(ctx, http.MethodPost, "/api/v1/tickets", nt, &t)
	return t, err
}

func (c *Client) UpdateTicket(ctx context.Context, id string, patch model.TicketPatch) (model.Ticket, error) {
	var t model.Ticket
	err := c.do(ctx, http.MethodPatch, "/api/v1/tickets/"+url.PathEscape(id), patch, &t)
	return t, err
}

func (c *Client) DeleteTicket(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tickets/"+url.PathEscape(id), nil, nil)
}

// ---- transport ----

type errorBody struct {
	Error string `json:"error"`
}

// do builds the request, attaches bearer auth when a session exists,
// and maps failure statuses onto the errs sentinels.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken)
	}
	c.mu.Unlock()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", errs.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", errs.ErrNetwork, err)
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return mapStatus(resp.StatusCode, respBody)
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// mapStatus converts an HTTP failure status into the error taxonomy.
func mapStatus(status int, body []byte) error {
	msg := http.StatusText(status)
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		msg = eb.Error
	}
	var sentinel error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = errs.ErrUnauthorized
	case http.StatusNotFound:
		sentinel = errs.ErrNotFound
	case http.StatusConflict:
		sentinel = errs.ErrAlreadyExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = errs.ErrValidation
	case http.StatusTooManyRequests:
		sentinel = errs.ErrRateLimited
	default:
		return fmt.Errorf("server error (%d): %s", status, msg)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
