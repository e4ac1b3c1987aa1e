package main

import (
	"fmt"
	"os"

	"github.com/courseloop/coursegw/internal/cli"
	"github.com/courseloop/coursegw/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "coursegw",
		Short: "Course gateway CLI - grounded search and answers over course documents",
		Long: `Course gateway CLI provides commands to search course documents and ask
citation-grounded questions through a running gateway.

Environment variables:
  COURSEGW_API_URL      Gateway base URL (default: http://localhost:8080)
  COURSEGW_AUTH_TOKEN   Bearer token forwarded to the search backend (optional)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.AskCmd())

	cli.CheckHelpJSON(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
