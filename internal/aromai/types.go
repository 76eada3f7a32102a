package aromai

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var errMissingData = errors.New("envelope has no data")

// Pagination mirrors the paging block returned by list endpoints.
type Pagination struct {
	PageNumber   int `json:"pageNumber"`
	PageSize     int `json:"pageSize"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
}

// ListEnvelope wraps list responses: {"data": [...], "pagination": {...}}.
type ListEnvelope[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// UnmarshalJSON rejects bodies without a data array.
func (e *ListEnvelope[T]) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data       json.RawMessage `json:"data"`
		Pagination *Pagination     `json:"pagination"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if isNull(raw.Data) {
		return errMissingData
	}
	var items []T
	if err := json.Unmarshal(raw.Data, &items); err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	e.Data = items
	if raw.Pagination != nil {
		e.Pagination = *raw.Pagination
	}
	return nil
}

// Envelope wraps single-record responses: {"data": {...}}.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// UnmarshalJSON rejects bodies without a data value.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if isNull(raw.Data) {
		return errMissingData
	}
	return json.Unmarshal(raw.Data, &e.Data)
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// Ingredient is a catalog ingredient; the user's allergy list uses the same shape.
type Ingredient struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// Cuisine is a cuisine preference entry.
type Cuisine struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Health is a dietary restriction entry.
type Health struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Recipe is a community recipe.
type Recipe struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	PreparationTime   int                `json:"preparationTime"`
	Calories          int                `json:"calories"`
	ImageURL          *string            `json:"imageUrl,omitempty"`
	User              RecipeUser         `json:"user"`
	CuisinePreference Cuisine            `json:"cuisinePreference"`
	RecipeSteps       []RecipeStep       `json:"recipeSteps"`
	RecipeIngredients []RecipeIngredient `json:"recipeIngredients"`
}

// RecipeUser is the author block embedded in a recipe.
type RecipeUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// RecipeStep is one numbered step. Steps arrive in no particular order.
type RecipeStep struct {
	StepNumber  int    `json:"stepNumber"`
	Description string `json:"description"`
}

// RecipeIngredient is an ingredient line of a recipe, with its quantity.
type RecipeIngredient struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	QuantityType string  `json:"quantityType"`
	Quantity     float64 `json:"quantity"`
	ImageURL     string  `json:"imageUrl"`
}

// SortedSteps returns the steps ordered by StepNumber without touching r.
func (r Recipe) SortedSteps() []RecipeStep {
	steps := make([]RecipeStep, len(r.RecipeSteps))
	copy(steps, r.RecipeSteps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepNumber < steps[j].StepNumber })
	return steps
}

// AuthorName joins the author's name and surname.
func (r Recipe) AuthorName() string {
	return strings.TrimSpace(r.User.Name + " " + r.User.Surname)
}

// AIRecipe is a generated recipe owned by the current user.
type AIRecipe struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	CreatedAt       string          `json:"createdAt"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	AIInstructions  []AIInstruction `json:"aiInstructions"`
	PreparationTime float64         `json:"preparationTime"`
	Servings        float64         `json:"servings"`
	Calories        float64         `json:"calories"`
	Protein         float64         `json:"protein"`
	Fat             float64         `json:"fat"`
	Carbohydrates   float64         `json:"carbohydrates"`
	AIIngredients   []AIIngredient  `json:"aiIngredients"`
}

// AIInstruction is one numbered step of a generated recipe.
type AIInstruction struct {
	StepNumber  int    `json:"stepNumber"`
	Description string `json:"description"`
}

// AIIngredient is an ingredient line of a generated recipe.
type AIIngredient struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
	QuantityType  string  `json:"quantityType"`
	Quantity      float64 `json:"quantity"`
}

// SortedInstructions returns the instructions ordered by StepNumber.
func (r AIRecipe) SortedInstructions() []AIInstruction {
	steps := make([]AIInstruction, len(r.AIInstructions))
	copy(steps, r.AIInstructions)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepNumber < steps[j].StepNumber })
	return steps
}

// FilterAIRecipes keeps recipes whose name contains query, ignoring case.
// Casing follows Turkish rules so "ı"/"I" and "i"/"İ" pair up. An empty query
// returns the input unchanged.
func FilterAIRecipes(recipes []AIRecipe, query string) []AIRecipe {
	query = strings.TrimSpace(query)
	if query == "" {
		return recipes
	}
	lower := cases.Lower(language.Turkish)
	needle := lower.String(query)
	var out []AIRecipe
	for _, r := range recipes {
		if strings.Contains(lower.String(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

// PersonalInfo is the user's saved preference set.
type PersonalInfo struct {
	Ingredients []Ingredient `json:"ingredients"`
	Healths     []Health     `json:"healths"`
	Cuisines    []Cuisine    `json:"cuisines"`
}

// LoginTokens is the data block of a successful login.
type LoginTokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// LoginRequest is the body of /Auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of /Auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// RecipeCreationRequest is the body of /Recipe/create.
type RecipeCreationRequest struct {
	CoverPhotoID        *string                   `json:"coverPhotoId,omitempty"`
	Title               string                    `json:"title"`
	Description         string                    `json:"description"`
	PreparationTime     float64                   `json:"preparationTime"`
	Calories            float64                   `json:"calories"`
	CuisinePreferenceID string                    `json:"cuisinePreferenceId"`
	RecipeSteps         []RecipeStep              `json:"recipeSteps"`
	RecipeIngredients   []RecipeIngredientRequest `json:"recipeIngredients"`
}

// RecipeIngredientRequest references a catalog ingredient by id.
type RecipeIngredientRequest struct {
	IngredientID string  `json:"ingredientId"`
	QuantityType string  `json:"quantityType"`
	Quantity     float64 `json:"quantity"`
}

// PersonalInfoRequest is the body of /User/addPersonalInfo. All lists hold ids.
type PersonalInfoRequest struct {
	Ingredients []string `json:"ingredients"`
	Cuisines    []string `json:"cuisines"`
	Healths     []string `json:"healths"`
}

// DefaultAILanguage is the language requested for generated recipes.
const DefaultAILanguage = "Turkish"

// AIRecipeCreationRequest is the body of /Ai/createAiRecipe. Nil fields are
// sent as null; the server treats them as unset.
type AIRecipeCreationRequest struct {
	Cuisine             *string  `json:"cuisine"`
	MealType            *string  `json:"mealType"`
	IncludedIngredients []string `json:"includedIngredients"`
	ExcludedIngredients []string `json:"excludedIngredients"`
	Health              []string `json:"health"`
	Language            string   `json:"language"`
}

// FileType labels an uploaded media file.
type FileType string

const FileTypeRecipeImage FileType = "RecipeImage"

// MediaRequest is an image upload.
type MediaRequest struct {
	JPEGData  []byte
	MediaName string
	FileType  FileType
}

// MediaFile is the stored record returned by /MediaFile/upload. ID is what
// RecipeCreationRequest.CoverPhotoID expects.
type MediaFile struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}
