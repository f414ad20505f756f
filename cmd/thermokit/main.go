package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/thermokit/internal/calc"
	"github.com/san-kum/thermokit/internal/config"
	"github.com/san-kum/thermokit/internal/eos"
	"github.com/san-kum/thermokit/internal/storage"
	"github.com/san-kum/thermokit/internal/thermo"
	"github.com/san-kum/thermokit/internal/tui"
	"github.com/san-kum/thermokit/internal/viz"
)

var (
	dataDir   string
	verbosity int
	logFile   string

	inputFile       string
	libraryPath     string
	workers         int
	preset          string
	calculationType string
	outputFile      string

	plotColumns []string
	plotWidth   int
	plotHeight  int

	presetOut string
)

// logger is set up by the root command's PersistentPreRunE.
var logger = slog.New(slog.DiscardHandler)

// DefaultLogFile is the file --log writes to when given without a value.
const DefaultLogFile = "thermokit.log"

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(env).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(env config.Env) *cobra.Command {
	var closeLog func() error
	rootCmd := &cobra.Command{
		Use:           "thermokit",
		Short:         "thermodynamic calculations on cubic equations of state",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, closeLog, err = setupLogger(env.LogLevel, verbosity, logFile)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.DataDir, "run data directory")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "also write log output to this file (--log alone uses "+DefaultLogFile+")")
	rootCmd.PersistentFlags().Lookup("log").NoOptDefVal = DefaultLogFile

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the calculations in an input file",
		Args:  cobra.NoArgs,
		RunE:  runCalculation,
	}
	runCmd.Flags().StringVarP(&inputFile, "input", "i", "input.yaml", "input file (yaml or json)")
	runCmd.Flags().StringVarP(&libraryPath, "path", "p", env.Path, "directory for eos files named in the input")
	runCmd.Flags().IntVarP(&workers, "workers", "n", env.Workers, "calculations to run at once in a batch")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a preset input instead of --input (needs --calculation-type)")
	runCmd.Flags().StringVarP(&calculationType, "calculation-type", "t", "", "override calculation_type for every request in the input")
	runCmd.Flags().StringVarP(&outputFile, "output", "o", "", "override the input's output_file")

	calcsCmd := &cobra.Command{
		Use:   "calcs",
		Short: "list calculation types and their inputs",
		Args:  cobra.NoArgs,
		RunE:  listCalculations,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVarP(&plotColumns, "column", "c", nil, "columns to plot (default: all)")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "browse stored runs interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Browse(storage.New(dataDir))
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [calculation_type]",
		Short: "list available presets for a calculation type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for calculation type: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	writePresetCmd := &cobra.Command{
		Use:   "write-preset [calculation_type] [preset]",
		Short: "write a preset as an input file to start from",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lookupPreset(args[0], args[1])
			if err != nil {
				return err
			}
			if err := config.Save(presetOut, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", presetOut)
			return nil
		},
	}
	writePresetCmd.Flags().StringVarP(&presetOut, "out", "o", "input.yaml", "file to write")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list equation-of-state types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range eos.Types() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, calcsCmd, runsCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, browseCmd, presetsCmd, writePresetCmd, modelsCmd)
	return rootCmd
}

// setupLogger builds the process logger. Output goes to stderr and, when
// path is set, to that file as well.
func setupLogger(levelName string, count int, path string) (*slog.Logger, func() error, error) {
	base, err := config.Level(levelName)
	if err != nil {
		return nil, nil, err
	}
	level := config.VerbosityLevel(base, count)

	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closeFn = f.Close
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closeFn, nil
}

func lookupPreset(calculation, name string) (*config.Config, error) {
	cfg := config.GetPreset(calculation, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", name, calculation, config.ListPresets(calculation))
	}
	return cfg, nil
}

func loadInput() (*config.Config, error) {
	if preset != "" {
		if calculationType == "" {
			return nil, errors.New("--preset needs --calculation-type")
		}
		return lookupPreset(calculationType, preset)
	}

	logger.Info("processing input file", "file", inputFile)
	cfg, err := config.Load(inputFile, libraryPath)
	if err != nil {
		return nil, err
	}
	if calculationType != "" {
		cfg.SetCalculationType(calculationType)
	}
	return cfg, nil
}

func runCalculation(cmd *cobra.Command, args []string) error {
	cfg, err := loadInput()
	if err != nil {
		return err
	}
	if outputFile != "" {
		cfg.OutputFile = outputFile
	}

	model, err := cfg.NewModel()
	if err != nil {
		return err
	}
	logger.Debug("eos ready", "type", model.Name(), "components", model.ComponentNames())

	d := thermo.NewDispatcher(calc.NewRegistry(), thermo.WithLogger(logger))

	requests := cfg.Requests()
	if len(requests) > 1 {
		logger.Info("running batch", "requests", len(requests), "workers", workers)
	}
	results, batchErr := d.RunBatch(cmd.Context(), model, requests, workers)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	entries := make([]storage.Entry, 0, len(results))
	failed := 0
	for _, r := range results {
		// never started
		if r.Params == nil {
			continue
		}
		name := requestName(r.Params)
		meta := storage.RunMetadata{
			Calculation: name,
			EOS:         model.Name(),
			Components:  model.ComponentNames(),
			Params:      r.Params,
		}
		if r.Err != nil {
			failed++
			meta.Error = r.Err.Error()
		}

		runID, err := st.Save(meta, r.Result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		entries = append(entries, storage.Entry{Calculation: name, Components: meta.Components, Result: r.Result, Err: r.Err})
		fmt.Fprintf(out, "%s  %s\n", runID, viz.Status(meta.Error))
	}

	if err := storage.WriteOutputFile(cfg.OutputFile, entries); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("wrote output", "file", cfg.OutputFile)

	if batchErr != nil {
		return fmt.Errorf("interrupted after %d of %d calculations: %w", len(entries), len(requests), batchErr)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d calculations failed; see %s", failed, len(results), cfg.OutputFile)
	}
	return nil
}

func requestName(p thermo.Params) string {
	v, ok := p[thermo.CalculationTypeKey]
	if !ok {
		return "unspecified"
	}
	return fmt.Sprint(v)
}

func listCalculations(cmd *cobra.Command, args []string) error {
	for _, c := range calc.NewRegistry().Calculations() {
		fmt.Println(viz.Title.Render(c.Name) + "  " + viz.Subtle.Render(c.Description))
		for _, k := range c.Keys {
			opt := ""
			if k.Optional {
				opt = " (optional)"
			}
			fmt.Printf("  %-10s %s%s\n", k.Name, k.Help, opt)
		}
		fmt.Println()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCALCULATION\tEOS\tCOMPONENTS\tTIME\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID,
			run.Calculation,
			run.EOS,
			strings.Join(run.Components, ","),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			status,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, thermo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	if meta.Error != "" {
		return meta, nil, fmt.Errorf("run %s failed: %s", runID, meta.Error)
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, result, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.Header.Render(meta.ID))
	fmt.Println(viz.Field("calculation", meta.Calculation))
	fmt.Println(viz.Field("eos", meta.EOS))
	fmt.Println(viz.Field("components", strings.Join(meta.Components, ", ")))
	fmt.Println(viz.Field("time", meta.Timestamp.Format("2006-01-02 15:04:05")))
	fmt.Println(viz.Field("status", viz.Status(meta.Error)))
	fmt.Println()

	if meta.Error != "" {
		fmt.Println(viz.Failed.Render(meta.Error))
		return nil
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}
	return storage.WriteText(os.Stdout, "", storage.NewTable(result, meta.Components))
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	table := storage.NewTable(result, meta.Components)
	graphs, err := viz.Plot(table, plotColumns, plotWidth, plotHeight)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("calculation: %s\n", meta.Calculation)
	fmt.Printf("points: %d\n\n", table.Rows)

	for _, g := range graphs {
		fmt.Println(g)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	table := storage.NewTable(result, meta.Components)
	if table.Rows == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, table)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, result)
}
