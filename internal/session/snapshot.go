package session

import (
	"fmt"
	"time"

	"github.com/five82/aromai/internal/aromai"
)

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	BearerToken string
	IsValidated bool
	Name        string
	Email       string
	UseMyInfo   bool

	AllRecipes  []aromai.Recipe
	MyRecipes   []aromai.Recipe
	MyAIRecipes []aromai.AIRecipe

	// Saved preferences.
	Ingredients []aromai.Ingredient // allergies
	Diseases    []aromai.Health
	Cuisines    []aromai.Cuisine // liked

	// Catalogs.
	AllIngredients []aromai.Ingredient
	AllHealths     []aromai.Health
	AllCuisines    []aromai.Cuisine

	RecipesPage   aromai.Pagination
	MyRecipesPage aromai.Pagination
	AIRecipesPage aromai.Pagination

	Version     uint64 // increases on every change
	LastUpdated time.Time
	LastError   error
}

// Authenticated reports whether requests will carry a usable token.
func (s Snapshot) Authenticated() bool {
	return s.IsValidated && s.BearerToken != ""
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.AllRecipes = cloneSlice(s.AllRecipes)
	out.MyRecipes = cloneSlice(s.MyRecipes)
	out.MyAIRecipes = cloneSlice(s.MyAIRecipes)
	out.Ingredients = cloneSlice(s.Ingredients)
	out.Diseases = cloneSlice(s.Diseases)
	out.Cuisines = cloneSlice(s.Cuisines)
	out.AllIngredients = cloneSlice(s.AllIngredients)
	out.AllHealths = cloneSlice(s.AllHealths)
	out.AllCuisines = cloneSlice(s.AllCuisines)
	if s.LastError != nil {
		out.LastError = fmt.Errorf("%w", s.LastError)
	}
	return out
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
