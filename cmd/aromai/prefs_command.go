package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"

	"github.com/five82/aromai/internal/app"
	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/prefs"
	"github.com/five82/aromai/internal/session"
	"github.com/five82/aromai/internal/ui"
)

func newPrefsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show and change saved preferences",
	}
	cmd.AddCommand(newPrefsShowCommand(ctx))
	cmd.AddCommand(newPrefsSetCommand(ctx))
	cmd.AddCommand(newPrefsSaveCommand(ctx))
	return cmd
}

func newPrefsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show allergies, health conditions and liked cuisines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(a *app.App) error {
				info, err := a.Store.GetPersonalInfo(cmd.Context())
				if err != nil {
					return fmt.Errorf("load preferences: %w", err)
				}
				if asJSON {
					return writeJSON(cmd, info)
				}
				local, _ := a.Prefs.Load()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Allergies:   %s\n", joinNames(info.Ingredients, func(i aromai.Ingredient) string { return i.Name }))
				fmt.Fprintf(out, "Health:      %s\n", joinNames(info.Healths, func(h aromai.Health) string { return h.Name }))
				fmt.Fprintf(out, "Cuisines:    %s\n", joinNames(info.Cuisines, func(c aromai.Cuisine) string { return c.Name }))
				fmt.Fprintf(out, "Use my info: %s\n", yesNo(a.Store.Snapshot().UseMyInfo))
				fmt.Fprintf(out, "Theme:       %s\n", local.Theme)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newPrefsSetCommand(ctx *commandContext) *cobra.Command {
	var useMyInfo bool
	var theme string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change local preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			changedInfo := cmd.Flags().Changed("use-my-info")
			changedTheme := cmd.Flags().Changed("theme")
			if !changedInfo && !changedTheme {
				return fmt.Errorf("nothing to set; pass --use-my-info or --theme")
			}
			if changedTheme && !slices.Contains(ui.ThemeNames(), theme) {
				return fmt.Errorf("unknown theme %q (available: %s)", theme, strings.Join(ui.ThemeNames(), ", "))
			}
			return ctx.withApp(func(a *app.App) error {
				out := cmd.OutOrStdout()
				if changedInfo {
					if err := a.Store.SetUseMyInfo(useMyInfo); err != nil {
						return fmt.Errorf("save use-my-info: %w", err)
					}
					fmt.Fprintf(out, "Use my info: %s\n", yesNo(useMyInfo))
				}
				if changedTheme {
					if err := a.Prefs.Update(func(p *prefs.Prefs) { p.Theme = theme }); err != nil {
						return fmt.Errorf("save theme: %w", err)
					}
					fmt.Fprintf(out, "Theme: %s\n", theme)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&useMyInfo, "use-my-info", false, "Fill AI recipe requests from saved preferences")
	cmd.Flags().StringVar(&theme, "theme", "", "Browser theme")
	return cmd
}

func newPrefsSaveCommand(ctx *commandContext) *cobra.Command {
	var allergies, diseases, cuisines []string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Replace allergies, health conditions and liked cuisines on the server",
		Long:  "Replace the saved preference set. Names are looked up in the catalogs;\nomitted lists are saved empty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(a *app.App) error {
				reqCtx := cmd.Context()
				ing, err := lookupByName(reqCtx, a.Store, (*session.Store).GetIngredients,
					func(i aromai.Ingredient) string { return i.Name }, "ingredient", allergies)
				if err != nil {
					return err
				}
				hs, err := lookupByName(reqCtx, a.Store, (*session.Store).GetHealths,
					func(h aromai.Health) string { return h.Name }, "health condition", diseases)
				if err != nil {
					return err
				}
				cs, err := lookupByName(reqCtx, a.Store, (*session.Store).GetCuisines,
					func(c aromai.Cuisine) string { return c.Name }, "cuisine", cuisines)
				if err != nil {
					return err
				}
				if err := a.Store.SavePreferences(reqCtx, ing, hs, cs); err != nil {
					return fmt.Errorf("save preferences: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %d allergies, %d health conditions, %d cuisines\n", len(ing), len(hs), len(cs))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&allergies, "allergy", nil, "Ingredient to avoid (repeatable)")
	cmd.Flags().StringSliceVar(&diseases, "health", nil, "Health condition (repeatable)")
	cmd.Flags().StringSliceVar(&cuisines, "cuisine", nil, "Liked cuisine (repeatable)")
	return cmd
}

func joinNames[T any](items []T, name func(T) string) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, name(item))
	}
	return strings.Join(parts, ", ")
}

func foldEqual(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}
