package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "planmark",
	Short: "floor plan marker management tool",
	Example: `planmark plan list -p <project-id>
planmark plan create -p <project-id> -n <name> -f <file-path>
planmark plan rename -d <plan-id> -n <name>
planmark plan delete -d <plan-id>
planmark page list -d <plan-id>
planmark page rename -d <plan-id> -g <page> -n <name>
planmark marker place -d <plan-id> -g <page> -k rfi -i <item-id> -x 50 -y 90
planmark marker move -m <marker-id> -x 10 -y 20
planmark marker remove -m <marker-id>
planmark marker list -d <plan-id>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dbCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
