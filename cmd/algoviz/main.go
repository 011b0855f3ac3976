package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/ds"
	"github.com/san-kum/algoviz/internal/experiment"
	"github.com/san-kum/algoviz/internal/inputs"
	"github.com/san-kum/algoviz/internal/logging"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/seq"
	"github.com/san-kum/algoviz/internal/server"
	"github.com/san-kum/algoviz/internal/storage"
	"github.com/san-kum/algoviz/internal/tui"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	arrayFlag  string
	targetFlag string
	size       int
	delayMs    int
	speed      string
	seed       int64
	capacity   int
	opsFlag    string
	configFile string
	preset     string

	live      bool
	trace     bool
	noSave    bool
	frameRate int

	addr string
)

// main registers every command and runs the interactive menu when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:           "algoviz",
		Short:         "step-by-step algorithm visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Configure(os.Stderr, logLevel, logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			quietLogs()
			reg := experiment.NewRegistry()
			return tui.Run(tui.NewInteractiveApp(reg, rand.New(rand.NewSource(time.Now().UnixNano()))))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".algoviz", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "run an algorithm to completion and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAlgorithm,
	}
	inputFlags(runCmd)
	runCmd.Flags().BoolVar(&live, "live", false, "redraw every step in the terminal at the configured speed")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print every step annotation")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "max redraws per second with --live")

	playCmd := &cobra.Command{
		Use:   "play [algorithm]",
		Short: "open an interactive player for one algorithm",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playAlgorithm,
	}
	inputFlags(playCmd)

	stackCmd := &cobra.Command{
		Use:   "stack [ops...]",
		Short: "replay stack operations, e.g. push 3 push 4 pop peek",
		RunE:  containerScript(string(ds.KindStackScript)),
	}
	queueCmd := &cobra.Command{
		Use:   "queue [ops...]",
		Short: "replay queue operations, e.g. enqueue a dequeue front",
		RunE:  containerScript(string(ds.KindQueueScript)),
	}
	linkedCmd := &cobra.Command{
		Use:   "linked [ops...]",
		Short: "replay linked list operations, e.g. insert_head 3 find 3 delete 3",
		RunE:  containerScript(string(ds.KindListScript)),
	}
	linkedCmd.Flags().StringVar(&arrayFlag, "array", "", "initial nodes, e.g. 5,8,13")
	for _, c := range []*cobra.Command{stackCmd, queueCmd, linkedCmd} {
		c.Flags().IntVar(&capacity, "capacity", ds.DefaultCapacity, "max size")
		c.Flags().IntVar(&delayMs, "delay-ms", 0, "delay between steps in milliseconds")
		c.Flags().BoolVar(&live, "live", false, "redraw every step in the terminal")
		c.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
		c.Flags().IntVar(&frameRate, "fps", 30, "max redraws per second with --live")
	}

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list available algorithms",
		RunE:  listAlgorithms,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [algorithm]",
		Short: "list available presets for an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for algorithm: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve sessions over http and websockets",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().Int64Var(&seed, "seed", 0, "seed for generated arrays (0 = time based)")

	rootCmd.AddCommand(runCmd, playCmd, stackCmd, queueCmd, linkedCmd, algorithmsCmd, presetsCmd, serveCmd)
	rootCmd.AddCommand(runsCommands()...)
	rootCmd.AddCommand(analysisCommands()...)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", seq.Message(err))
		os.Exit(1)
	}
}

func inputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&arrayFlag, "array", "", "comma separated values, e.g. 10,22,35")
	cmd.Flags().StringVar(&targetFlag, "target", "", "value to search for")
	cmd.Flags().IntVar(&size, "size", 0, "generated array size")
	cmd.Flags().IntVar(&delayMs, "delay-ms", 0, "delay between steps in milliseconds")
	cmd.Flags().StringVar(&speed, "speed", "", "speed tier (slow, medium, fast)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&capacity, "capacity", ds.DefaultCapacity, "max size of stack and queue")
	cmd.Flags().StringVar(&opsFlag, "ops", "", "stack/queue operations, e.g. \"push 3 pop\"")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig layers preset, config file and flags, in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	algorithm := ""
	if len(args) > 0 {
		algorithm = args[0]
		cfg.Algorithm = algorithm
	}

	if preset != "" {
		p, err := config.FromPreset(cfg.Algorithm, preset)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, config.ListPresets(cfg.Algorithm))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg.Merge(fileCfg)
		if algorithm != "" {
			cfg.Algorithm = algorithm
		}
	}

	f := cmd.Flags()
	if f.Changed("array") {
		a, err := inputs.ParseArray(arrayFlag)
		if err != nil {
			return nil, err
		}
		cfg.Array = a
	}
	if f.Changed("target") {
		t, err := inputs.ParseTarget(targetFlag)
		if err != nil {
			return nil, err
		}
		cfg.Target = &t
	}
	if f.Changed("size") {
		cfg.Size = size
	}
	if f.Changed("delay-ms") {
		cfg.DelayMs = delayMs
	}
	if f.Changed("speed") {
		cfg.Speed = speed
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if f.Changed("capacity") {
		cfg.MaxCapacity = capacity
	}
	if f.Changed("ops") {
		ops, err := ds.ParseOps(strings.Fields(opsFlag))
		if err != nil {
			return nil, err
		}
		cfg.Ops = ops
	}
	return cfg, cfg.Validate()
}

func runAlgorithm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	return execute(cmd.Context(), cfg)
}

func containerScript(kind string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ops, err := ds.ParseOps(args)
		if err != nil {
			return err
		}
		cfg := config.DefaultConfig()
		cfg.Algorithm = kind
		cfg.Ops = ops
		cfg.MaxCapacity = capacity
		cfg.DelayMs = delayMs
		if f := cmd.Flags().Lookup("array"); f != nil && f.Changed {
			a, err := inputs.ParseArray(arrayFlag)
			if err != nil {
				return err
			}
			cfg.Array = a
		}
		trace = !live
		return execute(cmd.Context(), cfg)
	}
}

// execute runs cfg once, headless unless --live, prints a summary and
// stores the run.
func execute(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ecfg, err := experiment.FromConfig(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	ecfg.Headless = !live

	var observers []seq.Observer
	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(os.Stdout, frameRate, true)
		observers = append(observers, renderer)
	}
	if trace {
		observers = append(observers, seq.ObserverFunc(func(f seq.Frame) {
			if f.Annotation != "" && f.Status != seq.Cancelled {
				fmt.Printf("%4d  %s\n", f.Step, f.Annotation)
			}
		}))
	}

	exp := experiment.New(ecfg)
	if err := exp.Setup(experiment.NewRegistry(), metrics.Defaults(), observers...); err != nil {
		return err
	}

	if renderer != nil {
		renderer.Start()
		defer renderer.Stop()
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %s in %v (%d steps)\n", result.Algorithm, result.Status, result.Elapsed.Round(time.Microsecond), result.Steps)
	if result.Annotation != "" {
		fmt.Printf("  %s\n", result.Annotation)
	}
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)

	if noSave {
		return nil
	}
	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.Save(context.Background(), result, ecfg.Delay)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printMetrics(w io.Writer, ms map[string]float64) {
	for _, name := range []string{"steps", "comparisons", "swaps", "pauses"} {
		if v, ok := ms[name]; ok {
			fmt.Fprintf(w, "  %s: %.0f\n", name, v)
		}
	}
}

func playAlgorithm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	ecfg, err := experiment.FromConfig(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	quietLogs()
	m, err := tui.NewPlayer(experiment.NewRegistry(), ecfg)
	if err != nil {
		return err
	}
	return tui.Run(m)
}

// quietLogs keeps log output from tearing the full-screen views.
func quietLogs() {
	_ = logging.Configure(io.Discard, logLevel, logFormat)
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDELAY\tTARGET\tDESCRIPTION")
	for _, name := range reg.ListAlgorithms() {
		needs := "-"
		if reg.NeedsTarget(name) {
			needs = "yes"
		}
		fmt.Fprintf(w, "%s\t%dms\t%s\t%s\n", name, config.AlgorithmDelay(name), needs, reg.Describe(name))
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := storage.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	var opts server.Options
	opts.Store = st
	if cmd.Flags().Changed("seed") {
		opts.Seed = seed
	}
	srv := server.New(experiment.NewRegistry(), opts)
	return srv.Run(ctx, addr)
}
