package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/aromai/internal/aromai"
)

const (
	authorWidth  = 18
	cuisineWidth = 14
	metricWidth  = 9
	minTitle     = 12
)

func (m Model) renderMain() string {
	parts := []string{
		m.renderHeader(),
		m.renderSearchLine(),
		m.renderList(),
		m.renderFooter(),
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	tabs := make([]string, 0, int(viewCount))
	for v := View(0); v < viewCount; v++ {
		if v == m.currentView {
			tabs = append(tabs, styles.ActiveTab.Render(v.String()))
		} else {
			tabs = append(tabs, styles.Tab.Render(v.String()))
		}
	}
	left := styles.Logo.Render("AromAI") + "  " + strings.Join(tabs, "")
	right := styles.MutedText.Render(m.userLabel())

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderSearchLine() string {
	styles := m.theme.Styles()
	if m.searching {
		return " " + m.search.View()
	}
	if term := m.terms[m.currentView]; term != "" {
		return " " + styles.AccentText.Render("/ "+term) + styles.FaintText.Render("  (esc clears)")
	}
	return " " + styles.FaintText.Render("/ to search")
}

// bodyHeight is the number of list rows, excluding the column header.
func (m Model) bodyHeight() int {
	return max(m.height-4, 1)
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	height := m.bodyHeight()

	var header string
	var rows []string
	if m.currentView == ViewAIRecipes {
		header, rows = m.aiRows()
	} else {
		header, rows = m.recipeRows()
	}

	lines := []string{styles.Section.Render(header)}
	if len(rows) == 0 {
		lines = append(lines, " "+styles.MutedText.Render(m.emptyMessage()))
		return padLines(lines, height+1)
	}

	sel := m.selected[m.currentView]
	start := 0
	if sel >= height {
		start = sel - height + 1
	}
	end := min(start+height, len(rows))
	for i := start; i < end; i++ {
		if i == sel {
			lines = append(lines, styles.Selected.Width(m.width).Render(rows[i]))
		} else {
			lines = append(lines, styles.Text.Render(rows[i]))
		}
	}
	return padLines(lines, height+1)
}

func (m Model) titleWidth(fixed int) int {
	return max(m.width-2-fixed, minTitle)
}

func (m Model) recipeRows() (string, []string) {
	tw := m.titleWidth(authorWidth + cuisineWidth + 2*metricWidth + 4)
	row := func(title, author, cuisine, prep, kcal string) string {
		return " " + padRight(title, tw) + " " + padRight(author, authorWidth) + " " +
			padRight(cuisine, cuisineWidth) + " " + padRight(prep, metricWidth) + " " + padRight(kcal, metricWidth)
	}
	header := row("Title", "Author", "Cuisine", "Prep", "Energy")
	items := m.recipes(m.currentView)
	rows := make([]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, row(r.Title, r.AuthorName(), r.CuisinePreference.Name,
			formatMinutes(float64(r.PreparationTime)), formatCalories(float64(r.Calories))))
	}
	return header, rows
}

func (m Model) aiRows() (string, []string) {
	tw := m.titleWidth(4*metricWidth + 4)
	row := func(name, servings, prep, kcal, created string) string {
		return " " + padRight(name, tw) + " " + padRight(servings, metricWidth) + " " +
			padRight(prep, metricWidth) + " " + padRight(kcal, metricWidth) + " " + padRight(created, metricWidth)
	}
	header := row("Name", "Serves", "Prep", "Energy", "Created")
	items := m.aiRecipes()
	rows := make([]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, row(r.Name, formatQuantity(r.Servings), formatMinutes(r.PreparationTime),
			formatCalories(r.Calories), createdDate(r.CreatedAt)))
	}
	return header, rows
}

func (m Model) emptyMessage() string {
	if m.currentView != ViewRecipes && !m.snapshot.Authenticated() {
		return "Sign in with `aromai login` to see your recipes."
	}
	if m.terms[m.currentView] != "" {
		return "No matches."
	}
	return "No recipes yet."
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	var left string
	switch {
	case m.snapshot.LastError != nil:
		left = styles.DangerText.Render(truncate(m.snapshot.LastError.Error(), m.width/2))
	case m.status != "":
		left = styles.WarningText.Render(m.status)
	case !m.snapshot.LastUpdated.IsZero():
		left = updatedLabel(time.Since(m.snapshot.LastUpdated))
	default:
		left = "Waiting for data"
	}

	count := fmt.Sprintf("%d items", m.itemCount())
	right := count + "  " + m.theme.Name + "  ? help"
	gap := max(m.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return styles.Footer.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	return styles.Panel.Width(m.width - 2).Render(m.detail.View())
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Section.Render("Keys"))
	b.WriteString("\n\n")
	for _, binding := range m.keys.helpBindings() {
		h := binding.Help()
		b.WriteString(styles.AccentText.Render(padRight(h.Key, 12)))
		b.WriteString(styles.Text.Render(h.Desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.Panel.Render(b.String()))
}

func (m Model) recipeDetail(r aromai.Recipe) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Section.Render(r.Title))
	b.WriteString("\n")
	if r.Description != "" {
		b.WriteString(wrap(r.Description, m.detail.Width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	writeField(&b, styles, "Author", r.AuthorName())
	writeField(&b, styles, "Cuisine", r.CuisinePreference.Name)
	writeField(&b, styles, "Prep", formatMinutes(float64(r.PreparationTime)))
	writeField(&b, styles, "Energy", formatCalories(float64(r.Calories)))

	if len(r.RecipeIngredients) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Section.Render("Ingredients"))
		b.WriteString("\n")
		for _, ing := range r.RecipeIngredients {
			fmt.Fprintf(&b, "  • %s %s %s\n", formatQuantity(ing.Quantity), ing.QuantityType, ing.Name)
		}
	}
	if steps := r.SortedSteps(); len(steps) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Section.Render("Steps"))
		b.WriteString("\n")
		for _, st := range steps {
			fmt.Fprintf(&b, "%3d. %s\n", st.StepNumber, wrap(st.Description, m.detail.Width-6))
		}
	}
	return b.String()
}

func (m Model) aiRecipeDetail(r aromai.AIRecipe) string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Section.Render(r.Name))
	b.WriteString("\n")
	if r.Description != "" {
		b.WriteString(wrap(r.Description, m.detail.Width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	writeField(&b, styles, "Serves", formatQuantity(r.Servings))
	writeField(&b, styles, "Prep", formatMinutes(r.PreparationTime))
	writeField(&b, styles, "Energy", formatCalories(r.Calories))
	writeField(&b, styles, "Macros", fmt.Sprintf("protein %sg, fat %sg, carbs %sg",
		formatQuantity(r.Protein), formatQuantity(r.Fat), formatQuantity(r.Carbohydrates)))
	writeField(&b, styles, "Created", createdDate(r.CreatedAt))

	if len(r.AIIngredients) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Section.Render("Ingredients"))
		b.WriteString("\n")
		for _, ing := range r.AIIngredients {
			fmt.Fprintf(&b, "  • %s %s %s\n", formatQuantity(ing.Quantity), ing.QuantityType, ing.Name)
		}
	}
	if steps := r.SortedInstructions(); len(steps) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Section.Render("Instructions"))
		b.WriteString("\n")
		for _, st := range steps {
			fmt.Fprintf(&b, "%3d. %s\n", st.StepNumber, wrap(st.Description, m.detail.Width-6))
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, styles Styles, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	b.WriteString(styles.MutedText.Render(padRight(label, 9)))
	b.WriteString(value)
	b.WriteString("\n")
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

func updatedLabel(age time.Duration) string {
	h := humanizeDuration(age)
	if h == "now" {
		return "Updated just now"
	}
	return "Updated " + h + " ago"
}

// createdDate keeps the date part of an ISO timestamp.
func createdDate(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format("2006-01-02")
	}
	if len(ts) >= 10 {
		return ts[:10]
	}
	if ts == "" {
		return "-"
	}
	return ts
}

func padLines(lines []string, n int) string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
