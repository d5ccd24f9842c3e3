package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
)

func EstimateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "estimate [duration...]",
		Short: "Show how durations like \"2-3 weeks\" convert to days",
		Example: `  do estimate "2 weeks" "1 month 3 days"
  do estimate --file export.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return estimateExport(file)
			}
			if len(args) == 0 {
				return fmt.Errorf("pass at least one duration or --file")
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, d := range args {
				fmt.Fprintf(w, "%q\t%d days\n", d, roadmap.EstimateDuration(d))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "roadmap export (JSON) to estimate")
	return cmd
}

// estimateExport prints the remaining work of an exported roadmap per phase.
func estimateExport(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var export struct {
		Phases []model.RoadmapPhase `json:"phases"`
	}
	err = json.Unmarshal(data, &export)
	if err != nil {
		return fmt.Errorf("failed to parse export: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tDONE\tREMAINING DAYS")
	for _, p := range export.Phases {
		done := 0
		for _, item := range p.Items {
			if item.IsCompleted() {
				done++
			}
		}
		remaining := 0
		if done < len(p.Items) {
			remaining = roadmap.EstimateRemainingDays([]model.RoadmapPhase{p})
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%d\n", p.PhaseName, done, len(p.Items), remaining)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	today := calendar.Today(time.Local)
	fmt.Printf("\nfinishing from today at this estimate: %s\n", roadmap.FinishQuicker(export.Phases, today))
	return nil
}
