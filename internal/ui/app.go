package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/debounce"
	"github.com/five82/aromai/internal/prefs"
	"github.com/five82/aromai/internal/session"
)

// View represents the current active view.
type View int

const (
	ViewRecipes View = iota
	ViewMyRecipes
	ViewAIRecipes

	viewCount
)

func (v View) String() string {
	switch v {
	case ViewRecipes:
		return "Recipes"
	case ViewMyRecipes:
		return "My Recipes"
	case ViewAIRecipes:
		return "AI Recipes"
	default:
		return "Unknown"
	}
}

// Source provides session snapshots. *session.Store satisfies it.
type Source interface {
	Snapshot() session.Snapshot
}

// PrefsUpdater persists preference changes. prefs.File satisfies it.
type PrefsUpdater interface {
	Update(fn func(*prefs.Prefs)) error
}

// Options configures the UI.
type Options struct {
	Store        Source
	RecipeSearch *debounce.Value[string] // community recipe search terms
	MySearch     *debounce.Value[string] // own recipe search terms
	Tick         time.Duration
	ThemeName    string
	Prefs        PrefsUpdater
}

// Model is the root application state for Bubble Tea.
type Model struct {
	store        Source
	recipeSearch *debounce.Value[string]
	mySearch     *debounce.Value[string]
	prefs        PrefsUpdater
	tick         time.Duration
	keys         keyMap

	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	status      string

	snapshot    session.Snapshot
	lastUpdated time.Time

	selected [viewCount]int
	terms    [viewCount]string

	searching bool
	search    textinput.Model

	showDetail bool
	detail     viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	tick := opts.Tick
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 120

	m := Model{
		store:        opts.Store,
		recipeSearch: opts.RecipeSearch,
		mySearch:     opts.MySearch,
		prefs:        opts.Prefs,
		tick:         tick,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(themeName),
		currentView:  ViewRecipes,
		search:       search,
		detail:       viewport.New(0, 0),
	}
	if m.recipeSearch != nil {
		m.terms[ViewRecipes] = m.recipeSearch.Current()
	}
	if m.mySearch != nil {
		m.terms[ViewMyRecipes] = m.mySearch.Current()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeDetail()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(session.Snapshot(msg))
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDetail {
		return m.renderDetail()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.showDetail {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Tab):
		m.currentView = (m.currentView + 1) % viewCount
	case key.Matches(msg, m.keys.ShiftTab):
		m.currentView = (m.currentView + viewCount - 1) % viewCount
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.terms[m.currentView])
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Escape):
		if m.terms[m.currentView] != "" {
			m.setTerm("")
		}
	case key.Matches(msg, m.keys.Refresh):
		m.reload()
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
	case key.Matches(msg, m.keys.Open):
		m.openDetail()
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Top):
		m.selected[m.currentView] = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected[m.currentView] = max(0, m.itemCount()-1)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.setTerm(m.search.Value())
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape), msg.String() == "q":
		m.showDetail = false
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// setTerm records the search term for the current view. Recipe views hand
// it to their debounced search; the AI view filters locally.
func (m *Model) setTerm(term string) {
	v := m.currentView
	if m.terms[v] == term {
		return
	}
	m.terms[v] = term
	m.selected[v] = 0
	if d := m.debouncer(v); d != nil {
		d.Set(term)
	}
}

// reload re-submits the current term so the search driver fetches again.
func (m *Model) reload() {
	if d := m.debouncer(m.currentView); d != nil {
		d.Set(m.terms[m.currentView])
		m.status = "Reloading " + m.currentView.String()
	}
}

func (m *Model) debouncer(v View) *debounce.Value[string] {
	switch v {
	case ViewRecipes:
		return m.recipeSearch
	case ViewMyRecipes:
		return m.mySearch
	default:
		return nil
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefs == nil {
		return
	}
	name := m.theme.Name
	if err := m.prefs.Update(func(p *prefs.Prefs) { p.Theme = name }); err != nil {
		m.status = fmt.Sprintf("Theme not saved: %v", err)
		return
	}
	m.status = "Theme " + name
}

func (m *Model) moveSelection(delta int) {
	n := m.itemCount()
	if n == 0 {
		m.selected[m.currentView] = 0
		return
	}
	sel := m.selected[m.currentView] + delta
	m.selected[m.currentView] = min(max(sel, 0), n-1)
}

func (m *Model) applySnapshot(snap session.Snapshot) {
	if m.lastUpdated.IsZero() || snap.Version != m.snapshot.Version {
		m.snapshot = snap
		m.lastUpdated = time.Now()
	}
	for v := View(0); v < viewCount; v++ {
		n := m.countFor(v)
		if m.selected[v] >= n {
			m.selected[v] = max(0, n-1)
		}
	}
}

func (m *Model) openDetail() {
	content, ok := m.detailContent()
	if !ok {
		return
	}
	m.resizeDetail()
	m.detail.SetContent(content)
	m.detail.GotoTop()
	m.showDetail = true
}

func (m *Model) resizeDetail() {
	m.detail.Width = max(m.width-4, 10)
	m.detail.Height = max(m.height-4, 3)
}

func (m Model) recipes(v View) []aromai.Recipe {
	if v == ViewMyRecipes {
		return m.snapshot.MyRecipes
	}
	return m.snapshot.AllRecipes
}

func (m Model) aiRecipes() []aromai.AIRecipe {
	return aromai.FilterAIRecipes(m.snapshot.MyAIRecipes, m.terms[ViewAIRecipes])
}

func (m Model) countFor(v View) int {
	if v == ViewAIRecipes {
		return len(m.aiRecipes())
	}
	return len(m.recipes(v))
}

func (m Model) itemCount() int {
	return m.countFor(m.currentView)
}

func (m Model) detailContent() (string, bool) {
	sel := m.selected[m.currentView]
	if m.currentView == ViewAIRecipes {
		items := m.aiRecipes()
		if sel >= len(items) {
			return "", false
		}
		return m.aiRecipeDetail(items[sel]), true
	}
	items := m.recipes(m.currentView)
	if sel >= len(items) {
		return "", false
	}
	return m.recipeDetail(items[sel]), true
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg session.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store Source) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a session store")
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) userLabel() string {
	if !m.snapshot.Authenticated() {
		return "signed out"
	}
	if name := strings.TrimSpace(m.snapshot.Name); name != "" {
		return name
	}
	return m.snapshot.Email
}
