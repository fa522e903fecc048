// Command kdd builds and queries a knowledge graph over a tree of spec
// documents. See internal/cliapp for the command surface.
package main

import "github.com/knowledge-driven-dev/kdd-index/internal/cliapp"

func main() {
	cliapp.Execute()
}
