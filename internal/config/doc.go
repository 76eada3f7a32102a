// Package config loads AromAI client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/aromai/config.toml (default)
//  3. If the config file doesn't exist, start from Default()
//  4. AROMAI_<KEY> environment variables replace file values
//
// LoadDotenv, called by the CLI before Load, copies a .env file from the
// working directory into the environment without replacing variables that
// are already set. Blank environment values are ignored.
//
// # Configuration Fields
//
//	base_url             API origin (https://apposite.live/api)
//	request_timeout      per-request timeout, Go duration (unset: no client timeout)
//	requests_per_second  client-side pacing, 0 disables (0)
//	search_debounce      quiet period before a search is sent (300ms)
//	page_size            recipes per page (22)
//	ai_language          language requested for AI recipes (Turkish)
//	anonymous_auth       empty-bearer or omit (empty-bearer)
//	session_path         persisted session file (~/.config/aromai/session.toml)
//	log_level            debug, info, warn, error (info)
//	log_format           console or json (console)
//	log_file             log destination while the TUI owns the terminal
//
// Invalid values are reported as errors rather than silently replaced.
package config
