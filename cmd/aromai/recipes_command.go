package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/app"
	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/endpoint"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	var flags listFlags
	var mine bool

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "List community recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			run := ctx.withApp
			if mine {
				run = ctx.withSession
			}
			return run(func(a *app.App) error {
				q := flags.query(cmd, a.Config.PageSize)
				var (
					res aromai.ListEnvelope[aromai.Recipe]
					err error
				)
				if mine {
					res, err = a.Store.GetMyRecipes(cmd.Context(), q)
				} else {
					res, err = a.Store.GetRecipes(cmd.Context(), q)
				}
				if err != nil {
					return fmt.Errorf("list recipes: %w", err)
				}
				if flags.json {
					return writeJSON(cmd, res)
				}
				writeRecipeTable(cmd, res.Data)
				writePagination(cmd.OutOrStdout(), res.Pagination, len(res.Data))
				return nil
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&mine, "mine", false, "List your own recipes")

	cmd.AddCommand(newRecipeShowCommand(ctx))
	cmd.AddCommand(newRecipeCreateCommand(ctx))
	return cmd
}

func newRecipeShowCommand(ctx *commandContext) *cobra.Command {
	var mine bool
	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Show a recipe with its ingredients and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run := ctx.withApp
			if mine {
				run = ctx.withSession
			}
			return run(func(a *app.App) error {
				title := args[0]
				size := a.Config.PageSize
				query := endpoint.ListQuery{SearchText: &title, PageSize: &size}
				var (
					res aromai.ListEnvelope[aromai.Recipe]
					err error
				)
				if mine {
					res, err = a.Store.GetMyRecipes(cmd.Context(), query)
				} else {
					res, err = a.Store.GetRecipes(cmd.Context(), query)
				}
				if err != nil {
					return fmt.Errorf("find recipe: %w", err)
				}
				recipe, ok := pickRecipe(res.Data, title)
				if !ok {
					return fmt.Errorf("no recipe matches %q", title)
				}
				writeRecipeDetail(cmd, recipe)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "Search your own recipes")
	return cmd
}

func newRecipeCreateCommand(ctx *commandContext) *cobra.Command {
	var file, cover string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a recipe from a JSON file",
		Long: "Publish a recipe. The file holds a recipe creation request:\n" +
			"title, description, preparationTime, calories, cuisinePreferenceId,\n" +
			"recipeSteps and recipeIngredients. --cover uploads a JPEG first and\n" +
			"sets it as the cover photo.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read recipe: %w", err)
			}
			var req aromai.RecipeCreationRequest
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("parse recipe %s: %w", file, err)
			}
			return ctx.withSession(func(a *app.App) error {
				if cover != "" {
					media, err := uploadImage(cmd, a, cover, "")
					if err != nil {
						return err
					}
					req.CoverPhotoID = &media.ID
				}
				if err := a.Store.CreateRecipe(cmd.Context(), req); err != nil {
					return fmt.Errorf("create recipe: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Published %q\n", req.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Recipe JSON file")
	cmd.Flags().StringVar(&cover, "cover", "", "JPEG cover photo to upload")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func uploadImage(cmd *cobra.Command, a *app.App, path, name string) (aromai.MediaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return aromai.MediaFile{}, fmt.Errorf("read image: %w", err)
	}
	if name == "" {
		name = filepath.Base(path)
	}
	media, err := a.Store.UploadMedia(cmd.Context(), aromai.MediaRequest{
		JPEGData:  data,
		MediaName: name,
		FileType:  aromai.FileTypeRecipeImage,
	})
	if err != nil {
		return media, fmt.Errorf("upload image: %w", err)
	}
	return media, nil
}

func pickRecipe(recipes []aromai.Recipe, title string) (aromai.Recipe, bool) {
	for _, r := range recipes {
		if foldEqual(r.Title, title) {
			return r, true
		}
	}
	if len(recipes) > 0 {
		return recipes[0], true
	}
	return aromai.Recipe{}, false
}

func writeRecipeTable(cmd *cobra.Command, recipes []aromai.Recipe) {
	rows := make([][]string, 0, len(recipes))
	for _, r := range recipes {
		rows = append(rows, []string{
			r.Title,
			r.AuthorName(),
			r.CuisinePreference.Name,
			strconv.Itoa(r.PreparationTime),
			strconv.Itoa(r.Calories),
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Author", "Cuisine", "Prep (min)", "kcal"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
		shouldColorize(out),
	))
}

func writeRecipeDetail(cmd *cobra.Command, r aromai.Recipe) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Title)
	if r.Description != "" {
		fmt.Fprintln(out, r.Description)
	}
	fmt.Fprintf(out, "\nAuthor:  %s\n", r.AuthorName())
	fmt.Fprintf(out, "Cuisine: %s\n", r.CuisinePreference.Name)
	fmt.Fprintf(out, "Prep:    %d min\n", r.PreparationTime)
	fmt.Fprintf(out, "Energy:  %d kcal\n", r.Calories)

	if len(r.RecipeIngredients) > 0 {
		rows := make([][]string, 0, len(r.RecipeIngredients))
		for _, ing := range r.RecipeIngredients {
			rows = append(rows, []string{ing.Name, strconv.FormatFloat(ing.Quantity, 'f', -1, 64), ing.QuantityType})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Ingredient", "Qty", "Unit"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft}, shouldColorize(out)))
	}
	if steps := r.SortedSteps(); len(steps) > 0 {
		fmt.Fprintln(out)
		for _, st := range steps {
			fmt.Fprintf(out, "%2d. %s\n", st.StepNumber, st.Description)
		}
	}
}
