// cpainsight cleans long-format clinical performance assessment exports and
// scores per-student competency trends.
//
// Usage:
//
//	cpainsight clean   -i <export.csv> [-o <cleaned.csv>] [--schema <schema.yaml>]
//	cpainsight analyze -i <cleaned.csv> --student <id> [--temporal] [--competency <name>]
//	cpainsight serve
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
