package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/endpoint"
	"github.com/five82/aromai/internal/prefs"
)

// ErrRefreshFailed marks a CreateAIRecipe error where generation succeeded
// but reloading MyAIRecipes did not. The created recipe is still returned.
var ErrRefreshFailed = errors.New("refresh ai recipes failed")

// Persister stores the per-device state that survives a restart.
// prefs.File implements it.
type Persister interface {
	Load() (prefs.Prefs, error)
	Update(fn func(*prefs.Prefs)) error
}

// family identifies a list operation for generation tracking.
type family int

const (
	familyRecipes family = iota
	familyMyRecipes
	familyAIRecipes
	familyIngredients
	familyHealths
	familyCuisines
	familyPersonalInfo
	familyCount
)

var familyNames = [familyCount]string{
	"recipes", "my recipes", "ai recipes", "ingredients", "healths", "cuisines", "personal info",
}

// Options configure a Store.
type Options struct {
	API         aromai.RecipeAPI
	Credentials *aromai.Credentials
	Persister   Persister // nil keeps state in memory only
	Logger      *slog.Logger
	Language    string // sent with AI recipe requests; empty means aromai.DefaultAILanguage
	AIPageSize  int    // page size of the refresh after CreateAIRecipe; 0 means endpoint.DefaultAIPageSize
	Now         func() time.Time
}

// Store holds the session and the latest server state. It is safe for
// concurrent use; every method that talks to the server blocks on the call
// and must not be invoked with the lock held.
type Store struct {
	api       aromai.RecipeAPI
	creds     *aromai.Credentials
	persister Persister
	logger    *slog.Logger
	language  string
	aiSize    int
	now       func() time.Time

	mu   sync.RWMutex
	gen  [familyCount]uint64
	snap Snapshot
}

// New builds a Store. API is required.
func New(opts Options) (*Store, error) {
	if opts.API == nil {
		return nil, errors.New("session store requires an API client")
	}
	creds := opts.Credentials
	if creds == nil {
		creds = &aromai.Credentials{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = aromai.DefaultAILanguage
	}
	aiSize := opts.AIPageSize
	if aiSize <= 0 {
		aiSize = endpoint.DefaultAIPageSize
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		api:       opts.API,
		creds:     creds,
		persister: opts.Persister,
		logger:    logger,
		language:  language,
		aiSize:    aiSize,
		now:       now,
	}, nil
}

// Credentials returns the token holder shared with the API client.
func (s *Store) Credentials() *aromai.Credentials {
	return s.creds
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Restore loads the persisted token and flags. A stored token that is
// expired is dropped; otherwise the session starts validated.
func (s *Store) Restore() error {
	if s.persister == nil {
		return nil
	}
	p, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	token := strings.TrimSpace(p.BearerToken)
	valid := token != "" && !aromai.ParseClaims(token).Expired(s.now())
	if valid {
		s.creds.Set(token, "")
	} else {
		s.creds.Clear()
	}

	s.mutate(func(snap *Snapshot) {
		snap.IsValidated = valid
		snap.UseMyInfo = p.UseMyInfo
		if valid {
			snap.BearerToken = token
			snap.Name = p.Name
			snap.Email = p.Email
		} else {
			snap.BearerToken = ""
			snap.Name = ""
			snap.Email = ""
		}
	})
	if token != "" && !valid {
		s.logger.Info("stored token expired; sign in again")
	}
	return nil
}

// Login exchanges credentials for tokens, decodes the display identity from
// the access token and persists both. Unreadable claims yield empty fields.
// A persistence failure is logged and does not fail the login.
func (s *Store) Login(ctx context.Context, email, password string) (aromai.Claims, error) {
	tokens, err := s.api.Login(ctx, aromai.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.recordError(err)
		return aromai.Claims{}, err
	}
	token := strings.TrimSpace(tokens.Token)
	if token == "" {
		err := &aromai.Error{Kind: aromai.ErrDecoding, Op: endpoint.KindLogin.String(), Err: errors.New("response has no token")}
		s.recordError(err)
		return aromai.Claims{}, err
	}

	claims := aromai.ParseClaims(token)
	s.creds.Set(token, tokens.RefreshToken)
	s.invalidateAll()
	s.mutate(func(snap *Snapshot) {
		snap.BearerToken = token
		snap.IsValidated = true
		snap.Name = claims.Name
		snap.Email = claims.Email
		snap.LastError = nil
	})

	if err := s.persist(func(p *prefs.Prefs) {
		p.BearerToken = token
		p.Name = claims.Name
		p.Email = claims.Email
	}); err != nil {
		s.logger.Warn("persist session failed", "error", err)
	}
	return claims, nil
}

// Register creates an account. It does not sign in.
func (s *Store) Register(ctx context.Context, req aromai.RegisterRequest) error {
	if err := s.api.Register(ctx, req); err != nil {
		s.recordError(err)
		return err
	}
	return nil
}

// Logout drops both tokens locally and clears the persisted token. No
// request is sent. Responses still in flight are not applied afterwards.
func (s *Store) Logout() error {
	s.creds.Clear()
	s.invalidateAll()
	s.mutate(func(snap *Snapshot) {
		snap.BearerToken = ""
		snap.IsValidated = false
		snap.Name = ""
		snap.Email = ""
	})
	return s.persist(func(p *prefs.Prefs) {
		p.BearerToken = ""
		p.Name = ""
		p.Email = ""
	})
}

// SetUseMyInfo toggles whether AI recipe requests are filled from the
// cached preferences.
func (s *Store) SetUseMyInfo(enabled bool) error {
	s.mutate(func(snap *Snapshot) { snap.UseMyInfo = enabled })
	return s.persist(func(p *prefs.Prefs) { p.UseMyInfo = enabled })
}

// GetRecipes fetches community recipes into AllRecipes.
func (s *Store) GetRecipes(ctx context.Context, q endpoint.ListQuery) (aromai.ListEnvelope[aromai.Recipe], error) {
	g := s.begin(familyRecipes)
	res, err := s.api.GetRecipes(ctx, q)
	if err != nil {
		s.fail(familyRecipes, g, err)
		return res, err
	}
	s.apply(familyRecipes, g, func(snap *Snapshot) {
		snap.AllRecipes = cloneSlice(res.Data)
		snap.RecipesPage = res.Pagination
	})
	return res, nil
}

// GetMyRecipes fetches the user's own recipes into MyRecipes.
func (s *Store) GetMyRecipes(ctx context.Context, q endpoint.ListQuery) (aromai.ListEnvelope[aromai.Recipe], error) {
	g := s.begin(familyMyRecipes)
	res, err := s.api.GetMyRecipes(ctx, q)
	if err != nil {
		s.fail(familyMyRecipes, g, err)
		return res, err
	}
	s.apply(familyMyRecipes, g, func(snap *Snapshot) {
		snap.MyRecipes = cloneSlice(res.Data)
		snap.MyRecipesPage = res.Pagination
	})
	return res, nil
}

// GetAIRecipes fetches the user's generated recipes into MyAIRecipes.
func (s *Store) GetAIRecipes(ctx context.Context, page, pageSize int) (aromai.ListEnvelope[aromai.AIRecipe], error) {
	g := s.begin(familyAIRecipes)
	res, err := s.api.GetAIRecipes(ctx, page, pageSize)
	if err != nil {
		s.fail(familyAIRecipes, g, err)
		return res, err
	}
	s.apply(familyAIRecipes, g, func(snap *Snapshot) {
		snap.MyAIRecipes = cloneSlice(res.Data)
		snap.AIRecipesPage = res.Pagination
	})
	return res, nil
}

// GetIngredients searches the ingredient catalog into AllIngredients.
func (s *Store) GetIngredients(ctx context.Context, q endpoint.ListQuery) (aromai.ListEnvelope[aromai.Ingredient], error) {
	g := s.begin(familyIngredients)
	res, err := s.api.GetIngredients(ctx, q)
	if err != nil {
		s.fail(familyIngredients, g, err)
		return res, err
	}
	s.apply(familyIngredients, g, func(snap *Snapshot) { snap.AllIngredients = cloneSlice(res.Data) })
	return res, nil
}

// GetHealths searches the dietary restriction catalog into AllHealths.
func (s *Store) GetHealths(ctx context.Context, q endpoint.ListQuery) (aromai.ListEnvelope[aromai.Health], error) {
	g := s.begin(familyHealths)
	res, err := s.api.GetHealths(ctx, q)
	if err != nil {
		s.fail(familyHealths, g, err)
		return res, err
	}
	s.apply(familyHealths, g, func(snap *Snapshot) { snap.AllHealths = cloneSlice(res.Data) })
	return res, nil
}

// GetCuisines searches the cuisine catalog into AllCuisines.
func (s *Store) GetCuisines(ctx context.Context, q endpoint.ListQuery) (aromai.ListEnvelope[aromai.Cuisine], error) {
	g := s.begin(familyCuisines)
	res, err := s.api.GetCuisines(ctx, q)
	if err != nil {
		s.fail(familyCuisines, g, err)
		return res, err
	}
	s.apply(familyCuisines, g, func(snap *Snapshot) { snap.AllCuisines = cloneSlice(res.Data) })
	return res, nil
}

// GetPersonalInfo loads the saved preferences into Ingredients, Diseases
// and Cuisines.
func (s *Store) GetPersonalInfo(ctx context.Context) (aromai.PersonalInfo, error) {
	g := s.begin(familyPersonalInfo)
	info, err := s.api.GetPersonalInfo(ctx)
	if err != nil {
		s.fail(familyPersonalInfo, g, err)
		return info, err
	}
	s.apply(familyPersonalInfo, g, func(snap *Snapshot) {
		snap.Ingredients = cloneSlice(info.Ingredients)
		snap.Diseases = cloneSlice(info.Healths)
		snap.Cuisines = cloneSlice(info.Cuisines)
	})
	return info, nil
}

// AddPersonalInfo stores preference ids on the server. The cached lists are
// not touched; use SavePreferences to update both.
func (s *Store) AddPersonalInfo(ctx context.Context, req aromai.PersonalInfoRequest) error {
	if err := s.api.AddPersonalInfo(ctx, req); err != nil {
		s.recordError(err)
		return err
	}
	return nil
}

// SavePreferences sends the ids of the given lists and, once the server
// accepts them, makes them the cached preferences.
func (s *Store) SavePreferences(ctx context.Context, allergies []aromai.Ingredient, diseases []aromai.Health, cuisines []aromai.Cuisine) error {
	req := aromai.PersonalInfoRequest{
		Ingredients: make([]string, 0, len(allergies)),
		Healths:     make([]string, 0, len(diseases)),
		Cuisines:    make([]string, 0, len(cuisines)),
	}
	for _, item := range allergies {
		req.Ingredients = append(req.Ingredients, item.ID)
	}
	for _, item := range diseases {
		req.Healths = append(req.Healths, item.ID)
	}
	for _, item := range cuisines {
		req.Cuisines = append(req.Cuisines, item.ID)
	}

	g := s.begin(familyPersonalInfo)
	if err := s.api.AddPersonalInfo(ctx, req); err != nil {
		s.fail(familyPersonalInfo, g, err)
		return err
	}
	s.apply(familyPersonalInfo, g, func(snap *Snapshot) {
		snap.Ingredients = cloneSlice(allergies)
		snap.Diseases = cloneSlice(diseases)
		snap.Cuisines = cloneSlice(cuisines)
	})
	return nil
}

// CreateRecipe publishes a community recipe.
func (s *Store) CreateRecipe(ctx context.Context, req aromai.RecipeCreationRequest) error {
	if err := s.api.CreateRecipe(ctx, req); err != nil {
		s.recordError(err)
		return err
	}
	return nil
}

// CreateAIRecipe generates a recipe and then refreshes MyAIRecipes. With
// UseMyInfo on, fields the caller left nil are filled from the cached
// preferences: excludedIngredients from the allergies, health from the
// diseases and cuisine from the first liked cuisine. With it off they stay
// as given.
//
// When generation succeeds but the refresh fails, the created recipe is
// returned together with the refresh error.
func (s *Store) CreateAIRecipe(ctx context.Context, req aromai.AIRecipeCreationRequest) (aromai.AIRecipe, error) {
	req = s.prepareAIRequest(req)
	recipe, err := s.api.CreateAIRecipe(ctx, req)
	if err != nil {
		s.recordError(err)
		return aromai.AIRecipe{}, err
	}
	if _, err := s.GetAIRecipes(ctx, endpoint.DefaultAIPage, s.aiSize); err != nil {
		return recipe, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return recipe, nil
}

func (s *Store) prepareAIRequest(req aromai.AIRecipeCreationRequest) aromai.AIRecipeCreationRequest {
	if strings.TrimSpace(req.Language) == "" {
		req.Language = s.language
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.snap.UseMyInfo {
		return req
	}
	if req.ExcludedIngredients == nil {
		req.ExcludedIngredients = names(s.snap.Ingredients, func(i aromai.Ingredient) string { return i.Name })
	}
	if req.Health == nil {
		req.Health = names(s.snap.Diseases, func(h aromai.Health) string { return h.Name })
	}
	if req.Cuisine == nil && len(s.snap.Cuisines) > 0 {
		name := s.snap.Cuisines[0].Name
		req.Cuisine = &name
	}
	return req
}

// UploadMedia uploads an image. The returned ID is a recipe's coverPhotoId.
func (s *Store) UploadMedia(ctx context.Context, req aromai.MediaRequest) (aromai.MediaFile, error) {
	file, err := s.api.UploadMedia(ctx, req)
	if err != nil {
		s.recordError(err)
		return file, err
	}
	return file, nil
}

// FilterAIRecipes filters the cached AI recipes by name.
func (s *Store) FilterAIRecipes(query string) []aromai.AIRecipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(aromai.FilterAIRecipes(s.snap.MyAIRecipes, query))
}

// begin starts a request of family f and returns its generation.
func (s *Store) begin(f family) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[f]++
	return s.gen[f]
}

// apply runs fn if g is still the latest generation of f. A newer request
// or a logout supersedes g.
func (s *Store) apply(f family, g uint64, fn func(*Snapshot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[f] != g {
		s.logger.Debug("discarding superseded response", "family", familyNames[f], "generation", g, "current", s.gen[f])
		return false
	}
	fn(&s.snap)
	s.snap.LastError = nil
	s.touch()
	return true
}

// fail records err as LastError if g is still the latest generation of f.
func (s *Store) fail(f family, g uint64, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[f] != g {
		s.logger.Debug("discarding superseded error", "family", familyNames[f], "generation", g, "error", err)
		return
	}
	s.snap.LastError = err
	s.touch()
}

func (s *Store) invalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.gen {
		s.gen[i]++
	}
}

func (s *Store) mutate(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.snap)
	s.touch()
}

func (s *Store) recordError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.mutate(func(snap *Snapshot) { snap.LastError = err })
}

// touch must be called with mu held.
func (s *Store) touch() {
	s.snap.Version++
	s.snap.LastUpdated = s.now()
}

func (s *Store) persist(fn func(*prefs.Prefs)) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Update(fn); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, name(item))
	}
	return out
}
