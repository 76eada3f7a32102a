package aromai

import (
	"encoding/json"
	"testing"
)

func TestListEnvelope_EmptyDataIsNonNil(t *testing.T) {
	var env ListEnvelope[Cuisine]
	if err := json.Unmarshal([]byte(`{"data":[]}`), &env); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if env.Data == nil || len(env.Data) != 0 {
		t.Fatalf("data = %#v, want empty slice", env.Data)
	}
}

func TestEnvelope_RejectsMissingOrNullData(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":null}`} {
		var env Envelope[PersonalInfo]
		if err := json.Unmarshal([]byte(body), &env); err == nil {
			t.Fatalf("Unmarshal(%s) succeeded, want error", body)
		}
		var list ListEnvelope[Recipe]
		if err := json.Unmarshal([]byte(body), &list); err == nil {
			t.Fatalf("list Unmarshal(%s) succeeded, want error", body)
		}
	}
}

func TestRecipe_SortedStepsLeavesInputAlone(t *testing.T) {
	r := Recipe{RecipeSteps: []RecipeStep{{StepNumber: 3}, {StepNumber: 1}, {StepNumber: 2}}}
	got := r.SortedSteps()
	for i, s := range got {
		if s.StepNumber != i+1 {
			t.Fatalf("sorted = %#v", got)
		}
	}
	if r.RecipeSteps[0].StepNumber != 3 {
		t.Fatalf("input mutated: %#v", r.RecipeSteps)
	}
}

func TestRecipe_AuthorName(t *testing.T) {
	r := Recipe{User: RecipeUser{Name: "Ada", Surname: "Lovelace"}}
	if got := r.AuthorName(); got != "Ada Lovelace" {
		t.Fatalf("AuthorName = %q", got)
	}
	if got := (Recipe{User: RecipeUser{Name: "Ada"}}).AuthorName(); got != "Ada" {
		t.Fatalf("AuthorName without surname = %q", got)
	}
}

func TestFilterAIRecipes(t *testing.T) {
	recipes := []AIRecipe{{Name: "Tomato Soup"}, {Name: "Irmik Helvası"}, {Name: "Pilav"}}

	cases := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"Tomato Soup", "Irmik Helvası", "Pilav"}},
		{query: "SOUP", want: []string{"Tomato Soup"}},
		{query: "ırmik", want: []string{"Irmik Helvası"}},
		{query: "zzz", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := FilterAIRecipes(recipes, tc.query)
			if len(got) != len(tc.want) {
				t.Fatalf("FilterAIRecipes(%q) = %d recipes, want %d", tc.query, len(got), len(tc.want))
			}
			for i := range got {
				if got[i].Name != tc.want[i] {
					t.Fatalf("FilterAIRecipes(%q)[%d] = %q, want %q", tc.query, i, got[i].Name, tc.want[i])
				}
			}
		})
	}
}

func TestRecipeCreationRequest_OmitsNilCoverPhoto(t *testing.T) {
	b, err := json.Marshal(RecipeCreationRequest{Title: "Soup"})
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if _, ok := raw["coverPhotoId"]; ok {
		t.Fatalf("coverPhotoId present: %s", b)
	}
	if raw["title"] != "Soup" {
		t.Fatalf("title = %v", raw["title"])
	}
}
