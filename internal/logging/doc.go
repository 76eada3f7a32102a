// Package logging builds the slog logger shared by the CLI, the session
// store and the API client.
package logging
