package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/debounce"
	"github.com/five82/aromai/internal/prefs"
	"github.com/five82/aromai/internal/session"
)

type fixedSource struct {
	snap session.Snapshot
}

func (f fixedSource) Snapshot() session.Snapshot { return f.snap }

type recordingPrefs struct {
	p   prefs.Prefs
	err error
}

func (r *recordingPrefs) Update(fn func(*prefs.Prefs)) error {
	if r.err != nil {
		return r.err
	}
	fn(&r.p)
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, runes(string(r)))
	}
	return m
}

func testSnapshot() session.Snapshot {
	return session.Snapshot{
		BearerToken: "tok",
		IsValidated: true,
		Name:        "Ada",
		Version:     3,
		LastUpdated: time.Now(),
		AllRecipes: []aromai.Recipe{
			{ID: "1", Title: "Tomato Soup", User: aromai.RecipeUser{Name: "Ada", Surname: "L"}},
			{ID: "2", Title: "Lentil Stew", RecipeSteps: []aromai.RecipeStep{
				{StepNumber: 2, Description: "Simmer"},
				{StepNumber: 1, Description: "Chop onions"},
			}},
		},
		MyAIRecipes: []aromai.AIRecipe{
			{ID: "a", Name: "Irmik Helvası"},
			{ID: "b", Name: "Mercimek Çorbası"},
		},
	}
}

func newTestModel(t *testing.T) (Model, *debounce.Value[string], *debounce.Value[string]) {
	t.Helper()
	recipes := debounce.New("", time.Hour)
	mine := debounce.New("", time.Hour)
	t.Cleanup(recipes.Close)
	t.Cleanup(mine.Close)
	m := New(Options{
		Store:        fixedSource{snap: testSnapshot()},
		RecipeSearch: recipes,
		MySearch:     mine,
	})
	m = press(m, tea.WindowSizeMsg{Width: 110, Height: 30}, snapshotMsg(testSnapshot()))
	return m, recipes, mine
}

func TestSearchFeedsDebouncerForCurrentView(t *testing.T) {
	m, recipes, mine := newTestModel(t)

	m = press(m, runes("/"))
	if !m.searching {
		t.Fatalf("expected search mode after /")
	}
	m = typeText(m, "tom")
	if got := recipes.Current(); got != "tom" {
		t.Fatalf("recipe search = %q, want tom", got)
	}
	if got := mine.Current(); got != "" {
		t.Fatalf("my search = %q, want untouched", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyTab}, runes("/"))
	m = typeText(m, "x")
	if got := mine.Current(); got != "x" {
		t.Fatalf("my search = %q, want x", got)
	}
	if got := recipes.Current(); got != "tom" {
		t.Fatalf("recipe search changed to %q", got)
	}
}

func TestAIViewFiltersLocally(t *testing.T) {
	m, recipes, _ := newTestModel(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.currentView != ViewAIRecipes {
		t.Fatalf("view = %v, want AI Recipes", m.currentView)
	}
	m = press(m, runes("/"))
	m = typeText(m, "ırmik")
	if n := m.itemCount(); n != 1 {
		t.Fatalf("filtered count = %d, want 1", n)
	}
	if recipes.Pending() {
		t.Fatalf("AI filter must not trigger a recipe search")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeyEsc})
	if n := m.itemCount(); n != 2 {
		t.Fatalf("count after clearing = %d, want 2", n)
	}
}

func TestSelectionClampsToSnapshot(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(m, runes("j"), runes("j"), runes("j"))
	if got := m.selected[ViewRecipes]; got != 1 {
		t.Fatalf("selected = %d, want 1", got)
	}

	smaller := testSnapshot()
	smaller.Version = 4
	smaller.AllRecipes = smaller.AllRecipes[:1]
	m = press(m, snapshotMsg(smaller))
	if got := m.selected[ViewRecipes]; got != 0 {
		t.Fatalf("selected after shrink = %d, want 0", got)
	}
}

func TestOpenDetailShowsSortedSteps(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail {
		t.Fatalf("expected detail view")
	}
	view := m.View()
	first := strings.Index(view, "Chop onions")
	second := strings.Index(view, "Simmer")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("steps not rendered in order:\n%s", view)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showDetail {
		t.Fatalf("esc should close detail")
	}
}

func TestCycleThemePersists(t *testing.T) {
	store := &recordingPrefs{}
	m := New(Options{Prefs: store})
	m = press(m, runes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	if store.p.Theme != "Kanagawa" {
		t.Fatalf("persisted theme = %q", store.p.Theme)
	}

	failing := &recordingPrefs{err: errors.New("disk full")}
	m = New(Options{Prefs: failing})
	m = press(m, runes("T"))
	if !strings.Contains(m.status, "disk full") {
		t.Fatalf("status = %q, want save error", m.status)
	}
}

func TestRenderMain(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"AromAI", "Tomato Soup", "Ada L", "Ada", "2 items"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	errSnap := testSnapshot()
	errSnap.Version = 9
	errSnap.LastError = errors.New("server said no")
	m = press(m, snapshotMsg(errSnap))
	if !strings.Contains(m.View(), "server said no") {
		t.Fatalf("footer should show last error")
	}
}

func TestEmptyMessageWhenSignedOut(t *testing.T) {
	m := New(Options{Store: fixedSource{}})
	m = press(m, tea.WindowSizeMsg{Width: 100, Height: 20}, snapshotMsg(session.Snapshot{}), tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.View(), "Sign in") {
		t.Fatalf("expected sign-in hint:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m := New(Options{})
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
