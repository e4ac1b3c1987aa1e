package main

import (
	"fmt"
	"os"

	"github.com/courseloop/coursegw/internal/cli"
	"github.com/courseloop/coursegw/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coursegwd",
		Short: "Course gateway daemon",
		Long:  "Gateway daemon fronting the course document search and answer generation backends",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	cli.CheckHelpJSON(rootCmd)

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
