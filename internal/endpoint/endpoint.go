package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrUnresolved is returned when an endpoint has no path.
var ErrUnresolved = errors.New("endpoint has no path")

// Kind tags the operation an Endpoint describes.
type Kind int

const (
	KindUnknown Kind = iota
	KindLogin
	KindRegister
	KindCreateRecipe
	KindGetRecipes
	KindGetMyRecipes
	KindGetPersonalInfo
	KindAddPersonalInfo
	KindCreateAIRecipe
	KindGetAIRecipes
	KindGetIngredient
	KindCreateIngredient
	KindGetHealth
	KindCreateHealth
	KindGetCuisine
	KindCreateCuisine
	KindUpload
)

// Default paging for the AI recipe list.
const (
	DefaultAIPage     = 0
	DefaultAIPageSize = 10
)

// ListQuery holds the optional search and paging parameters shared by list
// endpoints. Nil fields are left out of the query string.
type ListQuery struct {
	SearchText *string
	Page       *int
	PageSize   *int
}

// Param is one query key/value pair.
type Param struct {
	Name  string
	Value string
}

// Endpoint is a closed variant over the API operations. Build one with the
// constructor functions; the zero value resolves to no path.
type Endpoint struct {
	kind     Kind
	query    ListQuery
	page     int
	pageSize int
}

func Login() Endpoint            { return Endpoint{kind: KindLogin} }
func Register() Endpoint         { return Endpoint{kind: KindRegister} }
func CreateRecipe() Endpoint     { return Endpoint{kind: KindCreateRecipe} }
func GetPersonalInfo() Endpoint  { return Endpoint{kind: KindGetPersonalInfo} }
func AddPersonalInfo() Endpoint  { return Endpoint{kind: KindAddPersonalInfo} }
func CreateAIRecipe() Endpoint   { return Endpoint{kind: KindCreateAIRecipe} }
func CreateIngredient() Endpoint { return Endpoint{kind: KindCreateIngredient} }
func CreateHealth() Endpoint     { return Endpoint{kind: KindCreateHealth} }
func CreateCuisine() Endpoint    { return Endpoint{kind: KindCreateCuisine} }
func Upload() Endpoint           { return Endpoint{kind: KindUpload} }

func GetRecipes(q ListQuery) Endpoint    { return Endpoint{kind: KindGetRecipes, query: q} }
func GetMyRecipes(q ListQuery) Endpoint  { return Endpoint{kind: KindGetMyRecipes, query: q} }
func GetIngredient(q ListQuery) Endpoint { return Endpoint{kind: KindGetIngredient, query: q} }
func GetHealth(q ListQuery) Endpoint     { return Endpoint{kind: KindGetHealth, query: q} }
func GetCuisine(q ListQuery) Endpoint    { return Endpoint{kind: KindGetCuisine, query: q} }

// GetAIRecipes always sends both paging parameters.
func GetAIRecipes(page, pageSize int) Endpoint {
	return Endpoint{kind: KindGetAIRecipes, page: page, pageSize: pageSize}
}

// Kind reports the variant tag.
func (e Endpoint) Kind() Kind { return e.kind }

// Method returns the HTTP method for the variant.
func (e Endpoint) Method() string {
	switch e.kind {
	case KindLogin, KindRegister, KindCreateAIRecipe, KindCreateHealth, KindCreateCuisine,
		KindCreateIngredient, KindCreateRecipe, KindAddPersonalInfo, KindUpload:
		return http.MethodPost
	default:
		return http.MethodGet
	}
}

// Path returns the path relative to the API base, or "" for unknown kinds.
func (e Endpoint) Path() string {
	switch e.kind {
	case KindLogin:
		return "/Auth/login"
	case KindRegister:
		return "/Auth/register"
	case KindGetRecipes:
		return "/Recipe/get"
	case KindGetMyRecipes:
		return "/Recipe/getMyRecipes"
	case KindCreateRecipe:
		return "/Recipe/create"
	case KindAddPersonalInfo:
		return "/User/addPersonalInfo"
	case KindGetPersonalInfo:
		return "/User/getPersonalInfo"
	case KindCreateAIRecipe:
		return "/Ai/createAiRecipe"
	case KindGetAIRecipes:
		return "/Ai/getAiRecipes"
	case KindGetIngredient:
		return "/Ingredient/get"
	case KindCreateIngredient:
		return "/Ingredient/create"
	case KindGetHealth:
		return "/Health/get"
	case KindCreateHealth:
		return "/Health/create"
	case KindGetCuisine:
		return "/CuisinePreference/get"
	case KindCreateCuisine:
		return "/CuisinePreference/create"
	case KindUpload:
		return "/MediaFile/upload"
	default:
		return ""
	}
}

// Authenticated reports whether the request carries the bearer token.
func (e Endpoint) Authenticated() bool {
	switch e.kind {
	case KindLogin, KindRegister:
		return false
	default:
		return true
	}
}

// Params returns the query parameters in their fixed order: SearchText,
// Page, PageSize.
func (e Endpoint) Params() []Param {
	switch e.kind {
	case KindGetAIRecipes:
		return []Param{
			{Name: "Page", Value: strconv.Itoa(e.page)},
			{Name: "PageSize", Value: strconv.Itoa(e.pageSize)},
		}
	case KindGetIngredient, KindGetHealth, KindGetCuisine, KindGetRecipes, KindGetMyRecipes:
		var params []Param
		if e.query.SearchText != nil {
			params = append(params, Param{Name: "SearchText", Value: *e.query.SearchText})
		}
		if e.query.Page != nil {
			params = append(params, Param{Name: "Page", Value: strconv.Itoa(*e.query.Page)})
		}
		if e.query.PageSize != nil {
			params = append(params, Param{Name: "PageSize", Value: strconv.Itoa(*e.query.PageSize)})
		}
		return params
	default:
		return nil
	}
}

// RawQuery encodes Params in order. url.Values.Encode sorts keys, which would
// lose the fixed ordering.
func (e Endpoint) RawQuery() string {
	params := e.Params()
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, escape(p.Name)+"="+escape(p.Value))
	}
	return strings.Join(parts, "&")
}

// Resolve joins the endpoint onto base and returns the method and full URL.
func Resolve(base *url.URL, e Endpoint) (string, *url.URL, error) {
	if base == nil {
		return "", nil, fmt.Errorf("resolve %s: base url is nil", e.kind)
	}
	path := e.Path()
	if path == "" {
		return "", nil, fmt.Errorf("resolve %s: %w", e.kind, ErrUnresolved)
	}
	u := *base
	u.Path = strings.TrimRight(base.Path, "/") + path
	u.RawPath = ""
	u.RawQuery = e.RawQuery()
	u.Fragment = ""
	return e.Method(), &u, nil
}

func (k Kind) String() string {
	switch k {
	case KindLogin:
		return "login"
	case KindRegister:
		return "register"
	case KindCreateRecipe:
		return "createRecipe"
	case KindGetRecipes:
		return "getRecipes"
	case KindGetMyRecipes:
		return "getMyRecipes"
	case KindGetPersonalInfo:
		return "getPersonalInfo"
	case KindAddPersonalInfo:
		return "addPersonalInfo"
	case KindCreateAIRecipe:
		return "createAiRecipe"
	case KindGetAIRecipes:
		return "getAiRecipes"
	case KindGetIngredient:
		return "getIngredient"
	case KindCreateIngredient:
		return "createIngredient"
	case KindGetHealth:
		return "getHealth"
	case KindCreateHealth:
		return "createHealth"
	case KindGetCuisine:
		return "getCuisine"
	case KindCreateCuisine:
		return "createCuisine"
	case KindUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// escape percent-encodes spaces as %20 rather than "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
