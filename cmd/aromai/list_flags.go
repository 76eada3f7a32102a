package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/aromai/internal/aromai"
	"github.com/five82/aromai/internal/endpoint"
)

type listFlags struct {
	search   string
	page     int
	pageSize int
	json     bool
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Search text")
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Results per page")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print JSON instead of a table")
}

// query leaves unset flags out of the request so the server defaults apply.
func (f *listFlags) query(cmd *cobra.Command, defaultPageSize int) endpoint.ListQuery {
	var q endpoint.ListQuery
	if s := strings.TrimSpace(f.search); s != "" {
		q.SearchText = &s
	}
	if cmd.Flags().Changed("page") {
		page := f.page
		q.Page = &page
	}
	size := defaultPageSize
	if cmd.Flags().Changed("page-size") {
		size = f.pageSize
	}
	if size > 0 {
		q.PageSize = &size
	}
	return q
}

func writePagination(out io.Writer, p aromai.Pagination, shown int) {
	if p.TotalRecords == 0 && p.TotalPages == 0 {
		fmt.Fprintf(out, "%d results\n", shown)
		return
	}
	fmt.Fprintf(out, "Page %d of %d (%d total)\n", p.PageNumber, p.TotalPages, p.TotalRecords)
}
