// Package main provides the entry point for the notiontree CLI.
//
// notiontree mirrors a local Markdown directory tree into a hierarchical
// page structure on Notion. Directories become parent pages, Markdown files
// become child pages, and relative links are rewritten to remote page URLs.
//
// Usage:
//
//	notiontree export --dir ./docs --root-parent-url <page-url>
//	notiontree check --dir ./docs
//
// See --help for all available options.
package main

// main is the entry point for notiontree.
func main() {
	Execute()
}
