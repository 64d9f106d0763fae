package main

import (
	"fmt"
	"os"

	"github.com/divy-03/DocAI/internal/client"
	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

var serverURL string

var newAPIClient = func() *client.Client {
	return client.New(serverURL)
}

var rootCmd = &cobra.Command{
	Use:           "docctl",
	Short:         "Generate, refine and version document sections",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	server := os.Getenv("DOCAI_SERVER")
	if server == "" {
		server = defaultServer
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", server, "DocAI server URL (env DOCAI_SERVER)")

	rootCmd.AddCommand(
		projectsCmd,
		showCmd,
		createCmd,
		outlineCmd,
		generateCmd,
		editCmd,
		refineCmd,
		historyCmd,
		restoreCmd,
		feedbackCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
