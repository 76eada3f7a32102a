// Package session holds the signed-in user's state and the most recently
// fetched server collections.
//
// # Overview
//
// Store wraps every aromai.RecipeAPI call the application makes. Each method
// issues the request, and only when the response decoded completely does it
// overwrite the matching cached field. Failures are returned unchanged and
// leave the cached collections as they were; the error is also recorded in
// Snapshot.LastError for consumers that render state rather than handle
// return values.
//
//	UI action ─→ Store.GetRecipes ─→ aromai.Client ─→ HTTP
//	                   │
//	                   └─→ Snapshot.AllRecipes (on success)
//
// # Superseded responses
//
// Every list family (recipes, my recipes, AI recipes, each catalog and the
// personal info) carries a generation counter. Starting a request bumps the
// counter; a response is applied only if its generation is still current.
// Two overlapping searches therefore always leave the cache holding the
// result of the one started last, regardless of completion order. The late
// caller still receives its own result.
//
// Login and Logout bump every counter so responses issued under a previous
// identity are never applied.
//
// # Tokens
//
// The bearer token lives in an *aromai.Credentials value shared with the API
// client. The Store is its only writer. The refresh token is kept in memory
// only; the bearer token, display name and email are persisted through the
// Persister.
//
// # Preferences
//
// With UseMyInfo on, CreateAIRecipe fills excludedIngredients, health and
// cuisine from the cached allergies, diseases and first liked cuisine unless
// the caller already set them. With it off they are sent as the caller left
// them, normally null.
//
// # Concurrency
//
// Store methods may be called from any goroutine. A sync.RWMutex guards the
// state; it is never held across a network call. Snapshot returns copies of
// every slice so readers never observe later updates.
package session
