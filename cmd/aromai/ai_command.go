package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/app"
	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/endpoint"
	"github.com/five82/aromai/internal/session"
)

func newAICommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Generate and list AI recipes",
	}
	cmd.AddCommand(newAIListCommand(ctx))
	cmd.AddCommand(newAICreateCommand(ctx))
	return cmd
}

func newAIListCommand(ctx *commandContext) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your generated recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(a *app.App) error {
				page, size := endpoint.DefaultAIPage, endpoint.DefaultAIPageSize
				if cmd.Flags().Changed("page") {
					page = flags.page
				}
				if cmd.Flags().Changed("page-size") {
					size = flags.pageSize
				}
				res, err := a.Store.GetAIRecipes(cmd.Context(), page, size)
				if err != nil {
					return fmt.Errorf("list ai recipes: %w", err)
				}
				// Search filters the fetched page by name.
				recipes := a.Store.FilterAIRecipes(flags.search)
				if flags.json {
					return writeJSON(cmd, recipes)
				}
				writeAIRecipeTable(cmd, recipes)
				writePagination(cmd.OutOrStdout(), res.Pagination, len(recipes))
				return nil
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newAICreateCommand(ctx *commandContext) *cobra.Command {
	var (
		cuisine, mealType, language string
		include, exclude, health    []string
		asJSON                      bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a recipe",
		Long: "Generate a recipe. With \"use my info\" on (aromai prefs set --use-my-info),\n" +
			"unset --exclude, --health and --cuisine are filled from your saved preferences.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(a *app.App) error {
				req := aromai.AIRecipeCreationRequest{
					Cuisine:  optional(cmd, "cuisine", cuisine),
					MealType: optional(cmd, "meal-type", mealType),
					Language: language,
				}
				if cmd.Flags().Changed("include") {
					req.IncludedIngredients = include
				}
				if cmd.Flags().Changed("exclude") {
					req.ExcludedIngredients = exclude
				}
				if cmd.Flags().Changed("health") {
					req.Health = health
				}

				if a.Store.Snapshot().UseMyInfo {
					if _, err := a.Store.GetPersonalInfo(cmd.Context()); err != nil {
						return fmt.Errorf("load preferences: %w", err)
					}
				}

				recipe, err := a.Store.CreateAIRecipe(cmd.Context(), req)
				if err != nil {
					if !errors.Is(err, session.ErrRefreshFailed) {
						return fmt.Errorf("create ai recipe: %w", err)
					}
					a.Logger.Warn("recipe created but list refresh failed", "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				}
				if asJSON {
					return writeJSON(cmd, recipe)
				}
				writeAIRecipeDetail(cmd, recipe)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&cuisine, "cuisine", "", "Cuisine name")
	f.StringVar(&mealType, "meal-type", "", "Meal type (breakfast, lunch, dinner, ...)")
	f.StringVar(&language, "language", "", "Response language (defaults to ai_language)")
	f.StringSliceVar(&include, "include", nil, "Ingredients to include")
	f.StringSliceVar(&exclude, "exclude", nil, "Ingredients to exclude")
	f.StringSliceVar(&health, "health", nil, "Health conditions to respect")
	f.BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// optional returns nil for flags the user did not set, so they encode as null.
func optional(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func writeAIRecipeTable(cmd *cobra.Command, recipes []aromai.AIRecipe) {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{
			r.Name,
			formatNumber(r.Servings),
			formatNumber(r.PreparationTime),
			formatNumber(r.Calories),
			r.CreatedAt,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Name", "Serves", "Prep (min)", "kcal", "Created"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
		shouldColorize(out),
	))
}

func writeAIRecipeDetail(cmd *cobra.Command, r aromai.AIRecipe) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Name)
	if r.Description != "" {
		fmt.Fprintln(out, r.Description)
	}
	fmt.Fprintf(out, "\nServes:  %s\n", formatNumber(r.Servings))
	fmt.Fprintf(out, "Prep:    %s min\n", formatNumber(r.PreparationTime))
	fmt.Fprintf(out, "Energy:  %s kcal\n", formatNumber(r.Calories))
	fmt.Fprintf(out, "Macros:  protein %sg, fat %sg, carbs %sg\n",
		formatNumber(r.Protein), formatNumber(r.Fat), formatNumber(r.Carbohydrates))

	if len(r.AIIngredients) > 0 {
		rows := make([][]string, 0, len(r.AIIngredients))
		for _, ing := range r.AIIngredients {
			rows = append(rows, []string{ing.Name, formatNumber(ing.Quantity), ing.QuantityType})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Ingredient", "Qty", "Unit"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft}, shouldColorize(out)))
	}
	if steps := r.SortedInstructions(); len(steps) > 0 {
		fmt.Fprintln(out)
		for _, st := range steps {
			fmt.Fprintf(out, "%2d. %s\n", st.StepNumber, st.Description)
		}
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
