package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/emrgen/planmark/internal/engine"
	"github.com/emrgen/planmark/internal/geometry"
	"github.com/emrgen/planmark/internal/item"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "marker commands",
}

func init() {
	rootCmd.AddCommand(markerCmd)
	markerCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	markerCmd.AddCommand(placeMarkerCmd())
	markerCmd.AddCommand(moveMarkerCmd())
	markerCmd.AddCommand(removeMarkerCmd())
	markerCmd.AddCommand(listMarkersCmd())
}

func placeMarkerCmd() *cobra.Command {
	var planID string
	var page int
	var kind string
	var itemID string
	var x, y float64

	command := &cobra.Command{
		Use:   "place",
		Short: "place a marker on a floor plan page",
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" || planID == "" || itemID == "" {
				color.Red("missing: --project, --plan and --item")
				return
			}

			e, err := newEngine(projectID)
			if err != nil {
				color.Red("error loading project: %v", err)
				return
			}

			marker, err := e.CreateMarker(context.Background(), engine.CreateMarkerInput{
				FloorPlanID: planID,
				PageNumber:  page,
				ItemKind:    item.Kind(kind),
				ItemID:      itemID,
				Position:    geometry.Position{X: x, Y: y},
			})
			if err != nil {
				color.Red("error placing marker: %v", err)
				return
			}

			fmt.Println("placed marker:", marker.ID)
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&planID, "plan", "d", "", "plan id")
	command.Flags().IntVarP(&page, "page", "g", 1, "page number")
	command.Flags().StringVarP(&kind, "kind", "k", "", "item kind (rfi|submittal|task)")
	command.Flags().StringVarP(&itemID, "item", "i", "", "item id")
	command.Flags().Float64VarP(&x, "x", "x", 0, "x percent")
	command.Flags().Float64VarP(&y, "y", "y", 0, "y percent")

	return command
}

func moveMarkerCmd() *cobra.Command {
	var markerID string
	var x, y float64

	command := &cobra.Command{
		Use:   "move",
		Short: "move a marker",
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" || markerID == "" {
				color.Red("missing: --project and --marker")
				return
			}

			e, err := newEngine(projectID)
			if err != nil {
				color.Red("error loading project: %v", err)
				return
			}

			err = e.RepositionMarker(context.Background(), markerID, geometry.Position{X: x, Y: y})
			if err != nil {
				color.Red("error moving marker: %v", err)
				return
			}

			fmt.Println("moved marker:", markerID)
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&markerID, "marker", "m", "", "marker id")
	command.Flags().Float64VarP(&x, "x", "x", 0, "x percent")
	command.Flags().Float64VarP(&y, "y", "y", 0, "y percent")

	return command
}

func removeMarkerCmd() *cobra.Command {
	var markerID string

	command := &cobra.Command{
		Use:   "remove",
		Short: "remove a marker",
		Run: func(cmd *cobra.Command, args []string) {
			projectID := projectContext()
			if projectID == "" || markerID == "" {
				color.Red("missing: --project and --marker")
				return
			}

			e, err := newEngine(projectID)
			if err != nil {
				color.Red("error loading project: %v", err)
				return
			}

			if err := e.DeleteMarker(context.Background(), markerID); err != nil {
				color.Red("error removing marker: %v", err)
				return
			}

			fmt.Println("removed marker:", markerID)
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&markerID, "marker", "m", "", "marker id")

	return command
}

func listMarkersCmd() *cobra.Command {
	var planID string

	command := &cobra.Command{
		Use:   "list",
		Short: "list markers of a floor plan",
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

			plan, err := e.Mirror().Plan(planID)
			if err != nil {
				color.Red("floor plan not found: %v", err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Page", "Kind", "Item", "X%", "Y%"})
			for _, marker := range plan.Markers {
				table.Append([]string{
					marker.ID,
					strconv.Itoa(marker.PageNumber),
					marker.ItemKind,
					marker.ItemID,
					strconv.FormatFloat(marker.XPercent, 'f', 1, 64),
					strconv.FormatFloat(marker.YPercent, 'f', 1, 64),
				})
			}
			table.Render()
		},
	}

	bindProjectFlag(command)
	command.Flags().StringVarP(&planID, "plan", "d", "", "plan id")

	return command
}
