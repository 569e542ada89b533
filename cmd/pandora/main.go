// Command pandora inspects and edits annotated scientific datasets.
package main

import "github.com/G-Node/pandora/internal/cli"

func main() {
	cli.Execute()
}
