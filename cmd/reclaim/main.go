package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/reclaim/internal/config"
	"github.com/fenilsonani/reclaim/internal/log"
	"github.com/fenilsonani/reclaim/internal/oplock"
	"github.com/fenilsonani/reclaim/internal/platform"
	"github.com/fenilsonani/reclaim/internal/quarantine"
	"github.com/fenilsonani/reclaim/internal/reporter"
	"github.com/fenilsonani/reclaim/internal/scanner"
	"github.com/fenilsonani/reclaim/internal/ui"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath  string
	verbose     bool
	interactive bool
	force       bool
	outputFmt   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Find and reclaim disk space, reversibly",
	Long: `Reclaim scans the well-known cache, build-artifact and container
locations on your Mac or Linux system, reports how much space each candidate
folder holds, and moves the ones you pick into the trash so they can be
restored if anything breaks.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for reclaimable folders",
	Long: `Scans the platform's well-known locations plus any configured extra
roots and reports candidate folders, largest first. The result is cached so
a later quarantine invocation knows what was offered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, plat, err := setup()
		if err != nil {
			return err
		}

		var lock oplock.Lock
		if interactive {
			return ui.Run(cfg, plat, &lock)
		}

		if !reporter.ValidFormat(outputFmt) {
			return fmt.Errorf("unsupported output format: %s", outputFmt)
		}

		scnr := scanner.New(cfg, plat, &lock)

		fmt.Fprintln(os.Stderr, "Scanning...")
		result, err := scnr.SmartScan(signalContext())
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if err := saveReport(result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not cache scan report: %v\n", err)
		}

		return reporter.New(os.Stdout, reporter.OutputFormat(outputFmt)).Report(result)
	},
}

var quarantineCmd = &cobra.Command{
	Use:   "quarantine [paths...]",
	Short: "Move scanned candidate folders to the trash",
	Long: `Moves the given candidate folders into the trash. Only paths that
the most recent scan reported as reclaimable are accepted; everything else is
refused. Folders stay recoverable with "reclaim restore".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, plat, err := setup()
		if err != nil {
			return err
		}

		report, err := loadReport()
		if err != nil {
			return fmt.Errorf("no cached scan report, run \"reclaim scan\" first: %w", err)
		}

		var lock oplock.Lock
		engine, err := quarantine.NewEngine(cfg, plat, &lock, report)
		if err != nil {
			return err
		}

		if !force {
			fmt.Printf("Move %d folder(s) to the trash? (y/N): ", len(args))
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Cancelled")
				return nil
			}
		}

		result, err := engine.Quarantine(signalContext(), args)
		if err != nil {
			return fmt.Errorf("quarantine failed: %w", err)
		}

		fmt.Printf("\nMoved to trash: %d folder(s), %s reclaimed\n",
			result.Trashed, humanize.IBytes(result.FreedBytes))
		for _, path := range args {
			outcome := result.Outcomes[filepath.Clean(path)]
			if outcome.Failure != nil {
				fmt.Println(outcome.Failure.UserMessage())
			}
		}
		if result.Failed > 0 {
			return fmt.Errorf("%d folder(s) could not be quarantined", result.Failed)
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <path>",
	Short: "Restore a quarantined folder from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, plat, err := setup()
		if err != nil {
			return err
		}

		var lock oplock.Lock
		engine, err := quarantine.NewEngine(cfg, plat, &lock, nil)
		if err != nil {
			return err
		}

		entry, err := engine.Restore(signalContext(), args[0])
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Printf("Restored %s (trashed %s)\n",
			entry.OriginalPath, humanize.Time(entry.DeletedAt))
		return nil
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Inspect quarantined folders",
}

var trashListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders currently in quarantine",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, plat, err := setup()
		if err != nil {
			return err
		}

		var lock oplock.Lock
		engine, err := quarantine.NewEngine(cfg, plat, &lock, nil)
		if err != nil {
			return err
		}

		entries, err := engine.Trash().List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Trash is empty")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%-50s  %s\n",
				entry.OriginalPath, humanize.Time(entry.DeletedAt))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath := configPath
		if cfgPath == "" {
			cfgPath = config.GetConfigPath()
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("\nTo create one with the defaults:")
			fmt.Println("  reclaim config init")
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.EnsureConfigExists()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	scanCmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")
	scanCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive scan and quarantine session")

	quarantineCmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")

	trashCmd.AddCommand(trashListCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(quarantineCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads configuration, resolves the platform and installs the
// process-wide logger.
func setup() (*config.Config, *platform.Info, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	log.SetDefault(log.NewLogger(os.Stderr, cfg.Verbose))

	plat, err := platform.GetInfo()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get platform info: %w", err)
	}
	return cfg, plat, nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

// saveReport caches the scan result so a later quarantine invocation can
// rebuild its scope from what was actually offered.
func saveReport(result *scanner.ScanResult) error {
	path := config.GetReportCachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func loadReport() (*scanner.ScanResult, error) {
	data, err := os.ReadFile(config.GetReportCachePath())
	if err != nil {
		return nil, err
	}
	var result scanner.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
