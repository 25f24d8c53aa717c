package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/emrgen/planmark/internal/config"
	"github.com/emrgen/planmark/internal/engine"
	"github.com/emrgen/planmark/internal/model"
	"github.com/emrgen/planmark/internal/store"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "floor plan commands",
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	planCmd.AddCommand(listPlansCmd())
	planCmd.AddCommand(createPlanCmd())
	planCmd.AddCommand(renamePlanCmd())
	planCmd.AddCommand(deletePlanCmd())
	planCmd.AddCommand(reorderPlansCmd())
}

// newEngine builds a loaded engine for the current project context.
func newEngine(projectID string) (*engine.Engine, error) {
	gateway := store.NewGormStore(config.GetDb(config.LoadConfig()))
	e := engine.New(projectID, gateway)
	if err := e.Load(context.Background()); err != nil {
		return nil, err
	}

	return e, nil
}

func listPlansCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list floor plans",
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" {
				color.Red("missing: --project")
				return
			}

			e, err := newEngine(projectID)
			if err != nil {
				color.Red("error loading project: %v", err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Type", "Pages", "Markers", "Order"})
			for _, plan := range e.Mirror().Plans() {
				table.Append([]string{
					plan.ID,
					plan.Name,
					plan.FileType,
					strconv.Itoa(plan.PageCount),
					strconv.Itoa(len(plan.Markers)),
					strconv.Itoa(plan.SortOrder),
				})
			}
			table.Render()
		},
	}

	bindProjectFlag(command)

	return command
}

func createPlanCmd() *cobra.Command {
	var name string
	var filePath string
	var fileType string
	var pageCount int

	command := &cobra.Command{
		Use:   "create",
		Short: "create a floor plan",
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" || name == "" || filePath == "" {
				color.Red("missing: --project, --name and --file")
				return
			}
			if pageCount < 1 {
				color.Red("page count must be at least 1")
				return
			}

			gateway := store.NewGormStore(config.GetDb(config.LoadConfig()))
			plan := &model.FloorPlan{
				ID:        uuid.New().String(),
				ProjectID: projectID,
				Name:      name,
				FilePath:  filePath,
				FileType:  fileType,
				PageCount: pageCount,
				IsActive:  true,
			}
			if err := gateway.CreateFloorPlan(context.Background(), plan); err != nil {
				color.Red("error creating floor plan: %v", err)
				return
			}

			fmt.Println("created floor plan:", plan.ID)
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&name, "name", "n", "", "plan name")
	command.Flags().StringVarP(&filePath, "file", "f", "", "source file path")
	command.Flags().StringVarP(&fileType, "type", "t", model.FileTypeImage, "file type (image|pdf)")
	command.Flags().IntVarP(&pageCount, "pages", "c", 1, "page count")

	return command
}

func renamePlanCmd() *cobra.Command {
	var planID string
	var name string

	command := &cobra.Command{
		Use:   "rename",
		Short: "rename a floor plan",
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

			if err := e.RenameFloorPlan(context.Background(), planID, name); err != nil {
				color.Red("error renaming floor plan: %v", err)
				return
			}

			fmt.Println("renamed floor plan:", planID)
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&planID, "plan", "d", "", "plan id")
	command.Flags().StringVarP(&name, "name", "n", "", "new name")

	return command
}

func deletePlanCmd() *cobra.Command {
	var planID string

	command := &cobra.Command{
		Use:   "delete",
		Short: "delete a floor plan",
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

			if err := e.DeleteFloorPlan(context.Background(), planID); err != nil {
				color.Red("error deleting floor plan: %v", err)
				return
			}

			fmt.Println("deleted floor plan:", planID)
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&planID, "plan", "d", "", "plan id")

	return command
}

func reorderPlansCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "reorder id [id...]",
		Short: "reorder floor plans",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" {
				color.Red("missing: --project")
				return
			}

			e, err := newEngine(projectID)
			if err != nil {
				color.Red("error loading project: %v", err)
				return
			}

			if err := e.ReorderFloorPlans(context.Background(), args); err != nil {
				color.Red("error reordering floor plans: %v", err)
				return
			}

			fmt.Println("reordered floor plans")
		},
	}

	bindProjectFlag(command)

	return command
}
