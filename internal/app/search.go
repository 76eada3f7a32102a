package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/aromai/internal/endpoint"
	"github.com/five82/aromai/internal/session"
)

// SearchFunc runs one search for term.
type SearchFunc func(ctx context.Context, term string) error

// RecipeSearch searches community recipes, or the user's own when mine is
// set. An empty term lists the first page.
func RecipeSearch(store *session.Store, pageSize int, mine bool) SearchFunc {
	return func(ctx context.Context, term string) error {
		q := endpoint.ListQuery{}
		if pageSize > 0 {
			q.PageSize = &pageSize
		}
		if t := strings.TrimSpace(term); t != "" {
			q.SearchText = &t
		}
		var err error
		if mine {
			_, err = store.GetMyRecipes(ctx, q)
		} else {
			_, err = store.GetRecipes(ctx, q)
		}
		return err
	}
}

// StartSearch launches a goroutine that runs search for every settled value
// read from terms. A new value cancels the search still running for the
// previous one. It returns immediately; the goroutine exits when terms is
// closed or ctx is done, after the last search has returned.
func StartSearch(ctx context.Context, terms <-chan string, search SearchFunc, logger *slog.Logger) <-chan struct{} {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		cancel := context.CancelFunc(func() {})
		defer func() {
			cancel()
			wg.Wait()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case term, ok := <-terms:
				if !ok {
					return
				}
				cancel()
				var runCtx context.Context
				runCtx, cancel = context.WithCancel(ctx)
				wg.Add(1)
				go func(runCtx context.Context, term string) {
					defer wg.Done()
					if err := search(runCtx, term); err != nil && runCtx.Err() == nil {
						logger.Warn("search failed", "term", term, "error", err)
					}
				}(runCtx, term)
			}
		}
	}()
	return done
}
