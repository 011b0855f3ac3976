package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/algo"
	"github.com/san-kum/algoviz/internal/export"
	"github.com/san-kum/algoviz/internal/storage"
)

var (
	outFile  string
	plotStep int
)

func runsCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the annotated steps of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *storage.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("deleted %s\n", args[0])
				return nil
			})
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's array and its counters",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotStep, "step", -1, "frame to plot (default last)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: exportWith(func(w io.Writer, meta *storage.RunMetadata, frames []storage.FrameRecord) error {
			return export.JSON(w, meta, frames)
		}),
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: exportWith(func(w io.Writer, _ *storage.RunMetadata, frames []storage.FrameRecord) error {
			return export.CSV(w, frames)
		}),
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one frame of a run as an SVG bar chart",
		Args:  cobra.ExactArgs(1),
		RunE: exportWith(func(w io.Writer, _ *storage.RunMetadata, frames []storage.FrameRecord) error {
			f, err := pickFrame(frames, plotStep)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, export.BarsSVG(f.Values, highlighted(f)...))
			return err
		}),
	}
	exportSVGCmd.Flags().IntVar(&plotStep, "step", -1, "frame to draw (default last)")

	for _, c := range []*cobra.Command{exportJSONCmd, exportCSVCmd, exportSVGCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	}

	return []*cobra.Command{listCmd, showCmd, deleteCmd, plotCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd}
}

func withStore(fn func(st *storage.Store) error) error {
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func listRuns(cmd *cobra.Command, args []string) error {
	return withStore(func(st *storage.Store) error {
		runs, err := st.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tSTATUS\tSTEPS\tDELAY\tINPUT")
		for _, run := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%dms\t%s\n",
				run.ID,
				run.Algorithm,
				run.Timestamp.Local().Format("2006-01-02 15:04:05"),
				run.Status,
				run.Steps,
				run.DelayMs,
				algo.FormatAll(run.Input),
			)
		}
		return w.Flush()
	})
}

func showRun(cmd *cobra.Command, args []string) error {
	return withStore(func(st *storage.Store) error {
		meta, err := st.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		frames, err := st.LoadFrames(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("run %s: %s (%s)\n", meta.ID, meta.Algorithm, meta.Status)
		if len(meta.Input) > 0 {
			fmt.Printf("input: %s\n", algo.FormatAll(meta.Input))
		}
		fmt.Println()

		last := 0
		for _, f := range frames {
			if f.Step <= last || f.Annotation == "" {
				continue
			}
			last = f.Step
			fmt.Printf("%4d  %s\n", f.Step, f.Annotation)
		}
		fmt.Println()
		printMetrics(os.Stdout, meta.Metrics)
		return nil
	})
}

// counters are the progress fields every counting algorithm state carries.
type counters struct {
	Comparisons int `json:"comparisons"`
	Swaps       int `json:"swaps"`
}

func plotRun(cmd *cobra.Command, args []string) error {
	return withStore(func(st *storage.Store) error {
		meta, err := st.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		frames, err := st.LoadFrames(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		f, err := pickFrame(frames, plotStep)
		if err != nil {
			return err
		}

		fmt.Printf("run %s: %s\n\n", meta.ID, meta.Algorithm)
		if len(f.Values) > 0 {
			fmt.Println(asciigraph.Plot(f.Values,
				asciigraph.Height(10),
				asciigraph.Width(max(len(f.Values)*4, 20)),
				asciigraph.Caption(fmt.Sprintf("array at step %d", f.Step)),
			))
			fmt.Println()
		}

		var comps, swaps []float64
		for _, fr := range frames {
			var c counters
			if err := json.Unmarshal(fr.State, &c); err != nil {
				continue
			}
			comps = append(comps, float64(c.Comparisons))
			swaps = append(swaps, float64(c.Swaps))
		}
		if len(comps) > 1 {
			fmt.Println(asciigraph.PlotMany([][]float64{comps, swaps},
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.SeriesColors(asciigraph.Green, asciigraph.Yellow),
				asciigraph.Caption("comparisons (green) and swaps (yellow) per frame"),
			))
		}
		return nil
	})
}

func pickFrame(frames []storage.FrameRecord, step int) (storage.FrameRecord, error) {
	if len(frames) == 0 {
		return storage.FrameRecord{}, fmt.Errorf("no frames recorded")
	}
	if step < 0 {
		return frames[len(frames)-1], nil
	}
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Step == step {
			return frames[i], nil
		}
	}
	return storage.FrameRecord{}, fmt.Errorf("no frame for step %d", step)
}

// highlighted extracts the indices a frame was pointing at.
func highlighted(f storage.FrameRecord) []int {
	var st struct {
		Current    *int  `json:"current"`
		Mid        *int  `json:"mid"`
		FoundIndex *int  `json:"found_index"`
		Active     []int `json:"active"`
		MinIndex   *int  `json:"min_index"`
	}
	if err := json.Unmarshal(f.State, &st); err != nil {
		return nil
	}
	var out []int
	for _, p := range []*int{st.Current, st.Mid, st.FoundIndex, st.MinIndex} {
		if p != nil && *p >= 0 {
			out = append(out, *p)
		}
	}
	for _, i := range st.Active {
		if i >= 0 {
			out = append(out, i)
		}
	}
	return out
}

func exportWith(fn func(w io.Writer, meta *storage.RunMetadata, frames []storage.FrameRecord) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withStore(func(st *storage.Store) error {
			meta, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			frames, err := st.LoadFrames(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if outFile != "" {
				file, err := os.Create(outFile)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if err := fn(w, meta, frames); err != nil {
				return err
			}
			if outFile != "" {
				fmt.Fprintf(os.Stderr, "exported %s to %s\n", meta.ID, outFile)
			}
			return nil
		})
	}
}
