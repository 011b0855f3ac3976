package main

import (
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/automation"
	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/inputs"
	"github.com/san-kum/algoviz/internal/storage"
)

var (
	sweepMin    int
	sweepMax    int
	sweepTrials int
	saveRuns    bool
)

func analysisCommands() []*cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare [sort1] [sort2] ...",
		Short: "run sorting algorithms side by side on the same array",
		RunE:  compareSorts,
	}
	compareCmd.Flags().StringVar(&arrayFlag, "array", "", "comma separated values (default random)")
	compareCmd.Flags().IntVar(&size, "size", 10, "generated array size")
	compareCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default time based)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [sort]",
		Short: "average step and comparison counts over growing random arrays",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepSort,
	}
	sweepCmd.Flags().IntVar(&sweepMin, "min", 2, "smallest array size")
	sweepCmd.Flags().IntVar(&sweepMax, "max", 16, "largest array size")
	sweepCmd.Flags().IntVar(&sweepTrials, "trials", 5, "random arrays per size")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRuns, "save", false, "store steps that set save_as")

	return []*cobra.Command{compareCmd, sweepCmd, scenarioCmd}
}

func compareSorts(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	sorts := args
	if len(sorts) == 0 {
		sorts = reg.ListSorts()
	}

	var array []float64
	if cmd.Flags().Changed("array") {
		a, err := inputs.ParseArray(arrayFlag)
		if err != nil {
			return err
		}
		array = a
	} else {
		s := time.Now().UnixNano()
		if cmd.Flags().Changed("seed") {
			s = seed
		}
		array = inputs.RandomArray(rand.New(rand.NewSource(s)), max(size, 2))
	}

	fmt.Printf("input: %s\n\n", algo.FormatAll(array))
	results, err := automation.Compare(cmd.Context(), reg, sorts, array)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSTEPS\tCOMPARISONS\tSWAPS\tSTATUS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", r.Algorithm, r.Steps, r.Comparisons, r.Swaps, r.Status)
	}
	return w.Flush()
}

func sweepSort(cmd *cobra.Command, args []string) error {
	results, err := automation.RunSweep(cmd.Context(), &automation.Sweep{
		Algorithm: args[0],
		MinSize:   sweepMin,
		MaxSize:   sweepMax,
		Trials:    sweepTrials,
		Seed:      seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	steps := make([]float64, len(results))
	comps := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tSTEPS\tCOMPARISONS\tSWAPS")
	for i, r := range results {
		steps[i] = r.Steps
		comps[i] = r.Comparisons
		fmt.Fprintf(w, "%d\t%.1f\t%.1f\t%.1f\n", r.Size, r.Steps, r.Comparisons, r.Swaps)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany([][]float64{steps, comps},
			asciigraph.Height(12),
			asciigraph.Width(60),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Green),
			asciigraph.Caption(fmt.Sprintf("%s: steps (cyan) and comparisons (green) for n=%d..%d", args[0], sweepMin, sweepMax)),
		))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario %s: %s\n\n", scenario.Name, scenario.Description)

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry())
	for i, r := range results {
		fmt.Printf("%2d  %-15s %-10s %4d steps  %s\n", i+1, r.Algorithm, r.Status, r.Steps, r.Annotation)
	}
	if err != nil {
		return err
	}

	if !saveRuns {
		return nil
	}
	return withStore(func(st *storage.Store) error {
		for i, r := range results {
			name := scenario.Steps[i].SaveAs
			if name == "" {
				continue
			}
			id, err := st.Save(cmd.Context(), &r, 0)
			if err != nil {
				return err
			}
			fmt.Printf("saved %s as %s\n", name, id)
		}
		return nil
	})
}
