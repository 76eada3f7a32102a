package aromai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/aromai/internal/endpoint"
)

// RecipeAPI defines the AromAI operations used by the session store.
// This interface is implemented by *Client and can be used for testing.
type RecipeAPI interface {
	Login(ctx context.Context, req LoginRequest) (LoginTokens, error)
	Register(ctx context.Context, req RegisterRequest) error
	GetRecipes(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Recipe], error)
	GetMyRecipes(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Recipe], error)
	CreateRecipe(ctx context.Context, req RecipeCreationRequest) error
	GetPersonalInfo(ctx context.Context) (PersonalInfo, error)
	AddPersonalInfo(ctx context.Context, req PersonalInfoRequest) error
	CreateAIRecipe(ctx context.Context, req AIRecipeCreationRequest) (AIRecipe, error)
	GetAIRecipes(ctx context.Context, page, pageSize int) (ListEnvelope[AIRecipe], error)
	GetIngredients(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Ingredient], error)
	GetHealths(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Health], error)
	GetCuisines(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Cuisine], error)
	UploadMedia(ctx context.Context, req MediaRequest) (MediaFile, error)
}

// Ensure Client implements RecipeAPI at compile time.
var _ RecipeAPI = (*Client)(nil)

// TokenSource supplies the bearer token. ok is false when there is none.
type TokenSource interface {
	BearerToken() (token string, ok bool)
}

// Credentials holds the session's tokens. It is shared by the client, which
// reads the bearer for every authenticated request, and the session store,
// which is the only writer.
type Credentials struct {
	mu      sync.RWMutex
	bearer  string
	refresh string
}

// BearerToken implements TokenSource.
func (c *Credentials) BearerToken() (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer, c.bearer != ""
}

// RefreshToken returns the in-memory refresh token.
func (c *Credentials) RefreshToken() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh, c.refresh != ""
}

// Set replaces both tokens.
func (c *Credentials) Set(bearer, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = strings.TrimSpace(bearer)
	c.refresh = strings.TrimSpace(refresh)
}

// Clear drops both tokens.
func (c *Credentials) Clear() {
	c.Set("", "")
}

// AnonymousPolicy decides what an authenticated request carries when the
// TokenSource has no token.
type AnonymousPolicy int

const (
	// EmptyBearer sends "Authorization: Bearer " and lets the server reject it.
	EmptyBearer AnonymousPolicy = iota
	// OmitHeader sends no Authorization header.
	OmitHeader
)

// ParseAnonymousPolicy maps the config spelling to a policy.
func ParseAnonymousPolicy(value string) (AnonymousPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "empty-bearer":
		return EmptyBearer, nil
	case "omit":
		return OmitHeader, nil
	default:
		return EmptyBearer, fmt.Errorf("anonymous auth policy %q: want empty-bearer or omit", value)
	}
}

// Options configure a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration // zero leaves the transport default
	RequestsPerSecond float64       // zero disables pacing
	Anonymous         AnonymousPolicy
	Tokens            TokenSource
	Logger            *slog.Logger
	HTTPClient        *http.Client
}

// Client talks to the AromAI HTTP API. Every call is a single attempt.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
	anonymous AnonymousPolicy
	limiter   *rate.Limiter
	logger    *slog.Logger
}

const (
	DefaultBaseURL   = "https://apposite.live/api"
	defaultUserAgent = "aromai/0.1"
)

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		tokens:    opts.Tokens,
		anonymous: opts.Anonymous,
		logger:    logger,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c, nil
}

// BaseURL returns a copy of the API origin.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Login exchanges credentials for tokens.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginTokens, error) {
	var payload Envelope[LoginTokens]
	if err := c.Execute(ctx, endpoint.Login(), req, &payload); err != nil {
		return LoginTokens{}, err
	}
	return payload.Data, nil
}

// Register creates an account. The response data is checked but not returned.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	var payload Envelope[json.RawMessage]
	return c.Execute(ctx, endpoint.Register(), req, &payload)
}

// GetRecipes lists community recipes.
func (c *Client) GetRecipes(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Recipe], error) {
	var payload ListEnvelope[Recipe]
	if err := c.Execute(ctx, endpoint.GetRecipes(q), nil, &payload); err != nil {
		return ListEnvelope[Recipe]{}, err
	}
	return payload, nil
}

// GetMyRecipes lists recipes created by the current user.
func (c *Client) GetMyRecipes(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Recipe], error) {
	var payload ListEnvelope[Recipe]
	if err := c.Execute(ctx, endpoint.GetMyRecipes(q), nil, &payload); err != nil {
		return ListEnvelope[Recipe]{}, err
	}
	return payload, nil
}

// CreateRecipe publishes a community recipe.
func (c *Client) CreateRecipe(ctx context.Context, req RecipeCreationRequest) error {
	return c.Execute(ctx, endpoint.CreateRecipe(), req, nil)
}

// GetPersonalInfo fetches the user's saved preferences.
func (c *Client) GetPersonalInfo(ctx context.Context) (PersonalInfo, error) {
	var payload Envelope[PersonalInfo]
	if err := c.Execute(ctx, endpoint.GetPersonalInfo(), nil, &payload); err != nil {
		return PersonalInfo{}, err
	}
	return payload.Data, nil
}

// AddPersonalInfo stores the user's preferences by id.
func (c *Client) AddPersonalInfo(ctx context.Context, req PersonalInfoRequest) error {
	return c.Execute(ctx, endpoint.AddPersonalInfo(), req, nil)
}

// CreateAIRecipe asks the server to generate a recipe. An empty Language is
// sent as DefaultAILanguage.
func (c *Client) CreateAIRecipe(ctx context.Context, req AIRecipeCreationRequest) (AIRecipe, error) {
	if strings.TrimSpace(req.Language) == "" {
		req.Language = DefaultAILanguage
	}
	var payload Envelope[AIRecipe]
	if err := c.Execute(ctx, endpoint.CreateAIRecipe(), req, &payload); err != nil {
		return AIRecipe{}, err
	}
	return payload.Data, nil
}

// GetAIRecipes lists the user's generated recipes.
func (c *Client) GetAIRecipes(ctx context.Context, page, pageSize int) (ListEnvelope[AIRecipe], error) {
	var payload ListEnvelope[AIRecipe]
	if err := c.Execute(ctx, endpoint.GetAIRecipes(page, pageSize), nil, &payload); err != nil {
		return ListEnvelope[AIRecipe]{}, err
	}
	return payload, nil
}

// GetIngredients searches the ingredient catalog.
func (c *Client) GetIngredients(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Ingredient], error) {
	var payload ListEnvelope[Ingredient]
	if err := c.Execute(ctx, endpoint.GetIngredient(q), nil, &payload); err != nil {
		return ListEnvelope[Ingredient]{}, err
	}
	return payload, nil
}

// GetHealths searches the dietary restriction catalog.
func (c *Client) GetHealths(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Health], error) {
	var payload ListEnvelope[Health]
	if err := c.Execute(ctx, endpoint.GetHealth(q), nil, &payload); err != nil {
		return ListEnvelope[Health]{}, err
	}
	return payload, nil
}

// GetCuisines searches the cuisine catalog.
func (c *Client) GetCuisines(ctx context.Context, q endpoint.ListQuery) (ListEnvelope[Cuisine], error) {
	var payload ListEnvelope[Cuisine]
	if err := c.Execute(ctx, endpoint.GetCuisine(q), nil, &payload); err != nil {
		return ListEnvelope[Cuisine]{}, err
	}
	return payload, nil
}

// UploadMedia sends a JPEG as multipart/form-data.
func (c *Client) UploadMedia(ctx context.Context, req MediaRequest) (MediaFile, error) {
	ep := endpoint.Upload()
	body, contentType, err := encodeMediaUpload(newBoundary(), req)
	if err != nil {
		return MediaFile{}, wrap(ErrURL, ep.Kind().String(), 0, err)
	}
	var payload Envelope[MediaFile]
	if err := c.send(ctx, ep, contentType, body, &payload); err != nil {
		return MediaFile{}, err
	}
	return payload.Data, nil
}

// Execute JSON-encodes body (when non-nil), sends the request described by
// ep and decodes the response into dest (when non-nil).
func (c *Client) Execute(ctx context.Context, ep endpoint.Endpoint, body, dest any) error {
	if c == nil {
		return wrap(ErrURL, ep.Kind().String(), 0, fmt.Errorf("client is nil"))
	}
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return wrap(ErrURL, ep.Kind().String(), 0, fmt.Errorf("encode body: %w", err))
		}
	}
	return c.send(ctx, ep, "application/json", encoded, dest)
}

func (c *Client) send(ctx context.Context, ep endpoint.Endpoint, contentType string, body []byte, dest any) error {
	op := ep.Kind().String()
	method, reqURL, err := endpoint.Resolve(c.baseURL, ep)
	if err != nil {
		return wrap(ErrURL, op, 0, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return wrap(ErrURL, op, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", contentType)
	if ep.Authenticated() {
		c.authorize(req)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return wrap(ErrInvalidResponse, op, 0, fmt.Errorf("wait for request slot: %w", err))
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "op", op, "method", method, "path", reqURL.Path, "error", err)
		return wrap(ErrInvalidResponse, op, 0, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"op", op,
		"method", method,
		"path", reqURL.Path,
		"query", reqURL.RawQuery,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if !statusAccepted(ep.Kind(), resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return wrap(ErrInvalidResponse, op, resp.StatusCode, nil)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return wrap(ErrDecoding, op, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	var token string
	var ok bool
	if c.tokens != nil {
		token, ok = c.tokens.BearerToken()
	}
	if !ok && c.anonymous == OmitHeader {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// statusAccepted reports whether code counts as success for kind. Recipe
// publishing and the personal-info update tolerate the 200-210 range.
func statusAccepted(kind endpoint.Kind, code int) bool {
	switch kind {
	case endpoint.KindCreateRecipe, endpoint.KindAddPersonalInfo:
		return code >= 200 && code <= 210
	}
	return code == http.StatusOK
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
