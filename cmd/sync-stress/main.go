// Command sync-stress drives the transform sync pipeline with churning
// entities and prints a markdown report.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sync-stress:", err)
		os.Exit(1)
	}
}
