package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/projecthub/internal/client/models"
	"github.com/dmitrijs2005/projecthub/internal/logging"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"

	maxResponseSize = 10 << 20
)

// HTTPClientConfig configures NewHTTPClient.
type HTTPClientConfig struct {
	// BaseURL is the API root, e.g. "https://backend.example.com/api".
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with Timeout is built.
	HTTPClient *http.Client
	// Timeout bounds a single request when HTTPClient is nil.
	Timeout time.Duration
	// Credentials provides the bearer token. Required.
	Credentials CredentialStore
	// Logger defaults to logging.Discard().
	Logger logging.Logger
	// Metrics is optional.
	Metrics *Metrics
}

// HTTPClient is the remote gateway.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialStore
	logger     logging.Logger
	metrics    *Metrics
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(cfg HTTPClientConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Credentials == nil {
		return nil, errors.New("client: Credentials is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		creds:      cfg.Credentials,
		logger:     logger.With("component", "gateway"),
		metrics:    cfg.Metrics,
	}, nil
}

type request struct {
	method string
	path   string
	json   any
	form   *formBody

	// anonymous requests carry no bearer token and a 401 does not touch
	// the credential store.
	anonymous bool
	// authFailure replaces the 400/401 mapping, used by login.
	authFailure error
}

func (c *HTTPClient) do(ctx context.Context, r request) ([]byte, error) {
	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		body = r.form.body
		contentType = r.form.contentType
	case r.json != nil:
		b, err := json.Marshal(r.json)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !r.anonymous {
		if token := c.creds.Token(ctx); token != "" {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}

	log := c.logger.With("method", r.method, "path", r.path, "request_id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(r.method, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	c.metrics.observe(r.method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 300 {
		return data, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data), Err: c.mapStatus(r, resp.StatusCode)}
	if resp.StatusCode == http.StatusUnauthorized && !r.anonymous {
		log.Warn(ctx, "credential rejected, clearing session")
		c.creds.Invalidate(ctx)
	}
	return nil, apiErr
}

func (c *HTTPClient) mapStatus(r request, status int) error {
	if r.authFailure != nil && (status == http.StatusUnauthorized || status == http.StatusBadRequest) {
		return r.authFailure
	}
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(data []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &m); err == nil {
		if m.Message != "" {
			return m.Message
		}
		if m.Error != "" {
			return m.Error
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func projectPath(id string) string {
	return "/projects/" + url.PathEscape(id)
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		json:        map[string]string{"email": email, "password": password},
		anonymous:   true,
		authFailure: ErrInvalidCredentials,
	})
	if err != nil {
		return nil, err
	}
	return decodeAuth(body)
}

func (c *HTTPClient) Register(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	body, err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/register",
		json:      userPayload(in),
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeIdentity(body)
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/projects"})
	if err != nil {
		return nil, err
	}
	return decodeProjects(body)
}

func (c *HTTPClient) GetProject(ctx context.Context, id string) (*models.Project, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: projectPath(id)})
	if err != nil {
		return nil, err
	}
	p, err := decodeProject(body)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, fmt.Errorf("%w: project without id", ErrMalformedResponse)
	}
	return p, nil
}

func (c *HTTPClient) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	form, err := encodeProjectInput(in)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, request{method: http.MethodPost, path: "/projects", form: form})
	if err != nil {
		return nil, err
	}
	return decodeProject(body)
}

func (c *HTTPClient) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	form, err := encodeProjectPatch(patch)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, request{method: http.MethodPut, path: projectPath(id), form: form})
	if err != nil {
		return nil, err
	}
	return decodeProject(body)
}

func (c *HTTPClient) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, request{method: http.MethodDelete, path: projectPath(id)})
	return err
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.Identity, error) {
	body, err := c.do(ctx, request{method: http.MethodGet, path: "/users"})
	if err != nil {
		return nil, err
	}
	return decodeIdentities(body)
}

func (c *HTTPClient) CreateUser(ctx context.Context, in models.UserInput) (*models.Identity, error) {
	body, err := c.do(ctx, request{method: http.MethodPost, path: "/users", json: userPayload(in)})
	if err != nil {
		return nil, err
	}
	return decodeIdentity(body)
}

func userPayload(in models.UserInput) map[string]string {
	return map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
		"role":     string(in.Role),
	}
}
