// Command docreader compiles a single source document into a
// retrieval-pack artifact directory and serves deterministic queries
// over it.
package main

import (
	"fmt"
	"os"

	"github.com/sercha-labs/docreader/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
