package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd is the base command; each subcommand runs one service deployment.
var rootCmd = &cobra.Command{
	Use:   "userstore",
	Short: "User record microservices backed by MongoDB",
	Long: "Runs one of the user record services. Each deployment binds to its own " +
		"database and collection and exposes create, read, update and delete over HTTP.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to the YAML config file (default $USERSTORE_CONFIG_FILE or userstore.yaml)")

	rootCmd.AddCommand(newServeCommand("account", "Run the account service"))
	rootCmd.AddCommand(newServeCommand("api", "Run the api service"))
}

func newServeCommand(deployment, short string) *cobra.Command {
	return &cobra.Command{
		Use:   deployment,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(deployment, configFile)
		},
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
