package endpoint

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func mustBase(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("https://apposite.live/api")
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}
	return u
}

func TestResolve_PathsAndMethods(t *testing.T) {
	base := mustBase(t)

	tests := []struct {
		name       string
		ep         Endpoint
		wantMethod string
		wantURL    string
	}{
		{"login", Login(), http.MethodPost, "https://apposite.live/api/Auth/login"},
		{"register", Register(), http.MethodPost, "https://apposite.live/api/Auth/register"},
		{"create recipe", CreateRecipe(), http.MethodPost, "https://apposite.live/api/Recipe/create"},
		{"recipes", GetRecipes(ListQuery{}), http.MethodGet, "https://apposite.live/api/Recipe/get"},
		{"my recipes", GetMyRecipes(ListQuery{}), http.MethodGet, "https://apposite.live/api/Recipe/getMyRecipes"},
		{"personal info", GetPersonalInfo(), http.MethodGet, "https://apposite.live/api/User/getPersonalInfo"},
		{"add personal info", AddPersonalInfo(), http.MethodPost, "https://apposite.live/api/User/addPersonalInfo"},
		{"create ai recipe", CreateAIRecipe(), http.MethodPost, "https://apposite.live/api/Ai/createAiRecipe"},
		{"ai recipes", GetAIRecipes(DefaultAIPage, DefaultAIPageSize), http.MethodGet, "https://apposite.live/api/Ai/getAiRecipes?Page=0&PageSize=10"},
		{"ingredients", GetIngredient(ListQuery{}), http.MethodGet, "https://apposite.live/api/Ingredient/get"},
		{"create ingredient", CreateIngredient(), http.MethodPost, "https://apposite.live/api/Ingredient/create"},
		{"health", GetHealth(ListQuery{}), http.MethodGet, "https://apposite.live/api/Health/get"},
		{"create health", CreateHealth(), http.MethodPost, "https://apposite.live/api/Health/create"},
		{"cuisines", GetCuisine(ListQuery{}), http.MethodGet, "https://apposite.live/api/CuisinePreference/get"},
		{"create cuisine", CreateCuisine(), http.MethodPost, "https://apposite.live/api/CuisinePreference/create"},
		{"upload", Upload(), http.MethodPost, "https://apposite.live/api/MediaFile/upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, u, err := Resolve(base, tt.ep)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if method != tt.wantMethod {
				t.Fatalf("method = %q, want %q", method, tt.wantMethod)
			}
			if u.String() != tt.wantURL {
				t.Fatalf("url = %q, want %q", u.String(), tt.wantURL)
			}
		})
	}
}

func TestParams_OmitsNilAndKeepsOrder(t *testing.T) {
	tests := []struct {
		name  string
		query ListQuery
		want  string
	}{
		{"none", ListQuery{}, ""},
		{"search only", ListQuery{SearchText: strPtr("soup")}, "SearchText=soup"},
		{"page size only", ListQuery{PageSize: intPtr(22)}, "PageSize=22"},
		{"page and size", ListQuery{Page: intPtr(2), PageSize: intPtr(15)}, "Page=2&PageSize=15"},
		{"all", ListQuery{SearchText: strPtr("tavuk"), Page: intPtr(1), PageSize: intPtr(8)}, "SearchText=tavuk&Page=1&PageSize=8"},
		{"escaped", ListQuery{SearchText: strPtr("red lentil&co")}, "SearchText=red%20lentil%26co"},
		{"empty search kept", ListQuery{SearchText: strPtr("")}, "SearchText="},
	}

	constructors := map[string]func(ListQuery) Endpoint{
		"recipes":     GetRecipes,
		"my recipes":  GetMyRecipes,
		"ingredients": GetIngredient,
		"health":      GetHealth,
		"cuisines":    GetCuisine,
	}

	for family, build := range constructors {
		for _, tt := range tests {
			t.Run(family+"/"+tt.name, func(t *testing.T) {
				if got := build(tt.query).RawQuery(); got != tt.want {
					t.Fatalf("RawQuery = %q, want %q", got, tt.want)
				}
			})
		}
	}
}

func TestParams_OrderIsStableForAllCombinations(t *testing.T) {
	order := map[string]int{"SearchText": 0, "Page": 1, "PageSize": 2}
	for mask := 0; mask < 8; mask++ {
		var q ListQuery
		if mask&1 != 0 {
			q.SearchText = strPtr("x")
		}
		if mask&2 != 0 {
			q.Page = intPtr(3)
		}
		if mask&4 != 0 {
			q.PageSize = intPtr(4)
		}
		params := GetRecipes(q).Params()
		last := -1
		for _, p := range params {
			idx, ok := order[p.Name]
			if !ok {
				t.Fatalf("mask %d: unexpected param %q", mask, p.Name)
			}
			if idx <= last {
				t.Fatalf("mask %d: params out of order: %#v", mask, params)
			}
			last = idx
		}
		wantCount := 0
		for bit := 1; bit <= 4; bit <<= 1 {
			if mask&bit != 0 {
				wantCount++
			}
		}
		if len(params) != wantCount {
			t.Fatalf("mask %d: got %d params, want %d", mask, len(params), wantCount)
		}
	}
}

func TestResolve_UnknownKindFails(t *testing.T) {
	_, _, err := Resolve(mustBase(t), Endpoint{})
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("Resolve error = %v, want ErrUnresolved", err)
	}
}

func TestResolve_NilBaseFails(t *testing.T) {
	if _, _, err := Resolve(nil, Login()); err == nil {
		t.Fatalf("Resolve returned nil error, want error")
	}
}

func TestResolve_TrailingSlashBase(t *testing.T) {
	base, _ := url.Parse("http://127.0.0.1:9000/api/")
	_, u, err := Resolve(base, GetHealth(ListQuery{Page: intPtr(1)}))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if u.String() != "http://127.0.0.1:9000/api/Health/get?Page=1" {
		t.Fatalf("url = %q", u.String())
	}
	if base.Path != "/api/" {
		t.Fatalf("Resolve mutated base: %q", base.Path)
	}
}

func TestAuthenticated(t *testing.T) {
	if Login().Authenticated() || Register().Authenticated() {
		t.Fatalf("login/register should be unauthenticated")
	}
	for _, ep := range []Endpoint{GetRecipes(ListQuery{}), Upload(), CreateAIRecipe(), GetPersonalInfo()} {
		if !ep.Authenticated() {
			t.Fatalf("%s should be authenticated", ep.Kind())
		}
	}
}
