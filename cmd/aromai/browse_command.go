package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/app"
	"github.com/five82/aromai/internal/debounce"
	"github.com/five82/aromai/internal/ui"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the terminal recipe browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to log_file while the screen is taken over.
			return ctx.run(true, func(a *app.App) error {
				return browse(cmd.Context(), a)
			})
		},
	}
}

func browse(parent context.Context, a *app.App) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if err := a.Bootstrap(ctx); err != nil {
		a.Logger.Warn("initial load incomplete", "error", err)
	}

	recipes := debounce.New("", a.Config.SearchDebounce)
	mine := debounce.New("", a.Config.SearchDebounce)
	recipesDone := app.StartSearch(ctx, recipes.C(), app.RecipeSearch(a.Store, a.Config.PageSize, false), a.Logger)
	mineDone := app.StartSearch(ctx, mine.C(), app.RecipeSearch(a.Store, a.Config.PageSize, true), a.Logger)
	defer func() {
		recipes.Close()
		mine.Close()
		cancel()
		<-recipesDone
		<-mineDone
	}()

	local, _ := a.Prefs.Load()
	return ui.Run(ctx, ui.Options{
		Store:        a.Store,
		RecipeSearch: recipes,
		MySearch:     mine,
		ThemeName:    local.Theme,
		Prefs:        a.Prefs,
	})
}
