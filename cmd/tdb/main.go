// Command tdb tags files in place with extended attributes and keeps a
// SQLite index of those tags in sync for fast querying.
package main

import (
	"fmt"
	"os"

	"github.com/jra3/tdb/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
