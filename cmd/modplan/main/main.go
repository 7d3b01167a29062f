package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modplan/cmd/modplan"
	"github.com/arthur-debert/modplan/pkg/errors"
	"github.com/arthur-debert/modplan/pkg/ui/styles"
)

func main() {
	rootCmd := modplan.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))

		// configuration errors exit with 2
		if errors.IsConfiguration(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
