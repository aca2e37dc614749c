package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/szahir/taskboard/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "A kanban board in your terminal",
	Long: `taskboard is an interactive kanban board for the taskboard server.
Log in, drag tasks between columns, search and sort — all from the terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(serverURL)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultServer := os.Getenv("TASKBOARD_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "base URL of the taskboard server")

	rootCmd.AddCommand(versionCmd)
}
