package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/app"
	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/endpoint"
	"github.com/five82/aromai/internal/session"
)

// catalog describes one of the server's lookup lists.
type catalog[T any] struct {
	use     string
	short   string
	fetch   func(*session.Store, context.Context, endpoint.ListQuery) (aromai.ListEnvelope[T], error)
	headers []string
	aligns  []columnAlignment
	row     func(T) []string
}

func newCatalogCommand[T any](ctx *commandContext, c catalog[T]) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   c.use,
		Short: c.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app.App) error {
				res, err := c.fetch(a.Store, cmd.Context(), flags.query(cmd, 0))
				if err != nil {
					return fmt.Errorf("list %s: %w", c.use, err)
				}
				if flags.json {
					return writeJSON(cmd, res)
				}
				rows := make([][]string, 0, len(res.Data))
				for _, item := range res.Data {
					rows = append(rows, c.row(item))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(c.headers, rows, c.aligns, shouldColorize(out)))
				writePagination(out, res.Pagination, len(res.Data))
				return nil
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newIngredientsCommand(ctx *commandContext) *cobra.Command {
	return newCatalogCommand(ctx, catalog[aromai.Ingredient]{
		use:     "ingredients",
		short:   "List ingredients",
		fetch:   (*session.Store).GetIngredients,
		headers: []string{"Name", "kcal", "Protein", "Fat", "ID"},
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
		row: func(i aromai.Ingredient) []string {
			return []string{i.Name, formatNumber(i.Calories), formatNumber(i.Protein), formatNumber(i.Fat), i.ID}
		},
	})
}

func newCuisinesCommand(ctx *commandContext) *cobra.Command {
	return newCatalogCommand(ctx, catalog[aromai.Cuisine]{
		use:     "cuisines",
		short:   "List cuisines",
		fetch:   (*session.Store).GetCuisines,
		headers: []string{"Name", "Description", "ID"},
		row: func(c aromai.Cuisine) []string {
			return []string{c.Name, c.Description, c.ID}
		},
	})
}

func newHealthsCommand(ctx *commandContext) *cobra.Command {
	return newCatalogCommand(ctx, catalog[aromai.Health]{
		use:     "healths",
		short:   "List health conditions",
		fetch:   (*session.Store).GetHealths,
		headers: []string{"Name", "Description", "ID"},
		row: func(h aromai.Health) []string {
			return []string{h.Name, h.Description, h.ID}
		},
	})
}

// lookupByName resolves each name through a catalog search and keeps the
// entry whose name matches, ignoring case.
func lookupByName[T any](
	ctx context.Context,
	store *session.Store,
	fetch func(*session.Store, context.Context, endpoint.ListQuery) (aromai.ListEnvelope[T], error),
	nameOf func(T) string,
	kind string,
	names []string,
) ([]T, error) {
	out := make([]T, 0, len(names))
	for _, name := range names {
		search := name
		res, err := fetch(store, ctx, endpoint.ListQuery{SearchText: &search})
		if err != nil {
			return nil, fmt.Errorf("look up %s %q: %w", kind, name, err)
		}
		found := false
		for _, item := range res.Data {
			if foldEqual(nameOf(item), name) {
				out = append(out, item)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown %s %q", kind, name)
		}
	}
	return out, nil
}
