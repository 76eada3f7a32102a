// Package logtail reads the end of the AromAI log file.
//
// Tail keeps a ring of the last N lines so large files are read in one pass
// with bounded memory. Level and AtLeast understand the records written by
// both slog handlers the logging package configures.
package logtail
