// Command aromai is the AromAI command-line client.
//
// Subcommands sign in, list community, personal and AI-generated recipes,
// browse the ingredient, cuisine and health catalogs, manage saved
// preferences and upload recipe photos. `aromai browse` opens the terminal
// browser with debounced live search.
package main
