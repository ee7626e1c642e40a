// Command docsearch is the CLI entrypoint for the doctree retrieval
// engine: index/search/context/similar subcommands over a local
// directory of Markdown and text trees.
package main

import "github.com/doctree-search/doctree/internal/clicmd"

func main() {
	clicmd.Execute()
}
