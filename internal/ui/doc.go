// Package ui provides the Bubble Tea browser for AromAI.
//
// The model never calls the API directly. Search input is written to
// debounced values that the caller drains (see app.StartSearch); the model
// only re-reads session snapshots on a tick and renders whatever the store
// holds. The AI view filters the cached collection locally.
package ui
