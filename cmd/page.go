package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "page commands",
}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	pageCmd.AddCommand(listPagesCmd())
	pageCmd.AddCommand(renamePageCmd())
}

func listPagesCmd() *cobra.Command {
	var planID string

	command := &cobra.Command{
		Use:   "list",
		Short: "list pages of a floor plan",
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" || planID == "" {
				color.Red("missing: --project and --plan")
				return
			}

			e, err := newEngine(projectID)
			if err != nil {
				color.Red("error loading project: %v", err)
				return
			}

			names, err := e.PageNames(planID)
			if err != nil {
				color.Red("floor plan not found: %v", err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Page", "Name"})
			for i, name := range names {
				table.Append([]string{strconv.Itoa(i + 1), name})
			}
			table.Render()
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&planID, "plan", "d", "", "plan id")

	return command
}

func renamePageCmd() *cobra.Command {
	var planID string
	var page int
	var name string

	command := &cobra.Command{
		Use:   "rename",
		Short: "rename a floor plan page",
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" || planID == "" || name == "" {
				color.Red("missing: --project, --plan and --name")
				return
			}

			e, err := newEngine(projectID)
			if err != nil {
				color.Red("error loading project: %v", err)
				return
			}

			if err := e.RenamePage(context.Background(), planID, page, name); err != nil {
				color.Red("error renaming page: %v", err)
				return
			}

			fmt.Println("renamed page", page, "of plan", planID)
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&planID, "plan", "d", "", "plan id")
	command.Flags().IntVarP(&page, "page", "g", 1, "page number")
	command.Flags().StringVarP(&name, "name", "n", "", "new name")

	return command
}
