package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/app"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var file, name string
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a JPEG recipe photo and print its media ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(a *app.App) error {
				media, err := uploadImage(cmd, a, file, name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), media.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JPEG file")
	cmd.Flags().StringVar(&name, "name", "", "Media name (defaults to the file name)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
