// Package app provides the orchestration layer for the AromAI client.
//
// # Overview
//
// This package is the composition root. New wires configuration, logging,
// the HTTP client and the session store, then restores the persisted
// session. The CLI commands and the terminal browser receive the resulting
// *App and never construct these pieces themselves.
//
// # Initialization
//
//  1. Load .env into the environment (missing file is fine)
//  2. Load ~/.config/aromai/config.toml with AROMAI_* overrides
//  3. Build the slog logger
//  4. Create a shared aromai.Credentials holder
//  5. Build the aromai.Client reading tokens from it
//  6. Build the session.Store writing tokens to it
//  7. Restore the token, identity and flags from the session file
//
// The credentials holder is the only link between client and store. The
// store writes it on login and logout; the client reads it per request.
//
// # Bootstrap
//
// Bootstrap mirrors the home screen load: the first page of community
// recipes (page_size), then the AI recipes, then the saved preferences. It is
// a no-op without a session.
//
// # Search
//
// StartSearch consumes settled search terms, typically from a debounce.Value,
// and runs a SearchFunc for each. A new term cancels the request still in
// flight for the previous one; the store's generation counters guarantee the
// cache ends up holding the newest result even if cancellation loses the
// race.
//
//	keystrokes ─→ debounce.Value.Set ─→ C() ─→ StartSearch ─→ store.GetRecipes
package app
