package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/vtcheck/internal/adapters/console"
	"github.com/bft-labs/vtcheck/internal/adapters/fs"
	logAdapter "github.com/bft-labs/vtcheck/internal/adapters/log"
	"github.com/bft-labs/vtcheck/internal/adapters/serial"
	"github.com/bft-labs/vtcheck/internal/app"
	"github.com/bft-labs/vtcheck/internal/catalog"
	"github.com/bft-labs/vtcheck/internal/cliconfig"
	"github.com/bft-labs/vtcheck/internal/configwatch"
	"github.com/bft-labs/vtcheck/internal/ports"
)

const helpDescription = `
Drive a serial-attached VT220-class terminal through a fixed set of escape
sequence test vectors and confirm each result by eye.

Each vector is written to the device with pacing delays so a slow terminal
(for example an ESP32 VGA terminal at 115200 baud) keeps up. After each
step the harness waits for ENTER before moving on.

Configuration comes from flags, VTCHECK_* environment variables and
$HOME/.vtcheck/config.toml, in that order of precedence.
`

var exampleUsage = strings.TrimSpace(`
  vtcheck
  vtcheck --port /dev/ttyACM0 --baud 9600 --line-delay 100ms
  vtcheck --capture run.bin --watch-config
  vtcheck list
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// loadConfig layers the config file and environment under the flags that were
// set explicitly. It returns the flag-only baseline used for live reloads.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) (string, cliconfig.Config, map[string]bool, error) {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	base := *cfg

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return "", base, changed, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return "", base, changed, err
		}
	} else if cfgPath != "" {
		return "", base, changed, fmt.Errorf("load config: %s does not exist", cfgPath)
	} else {
		cfgFile = ""
	}

	// Environment overrides the file; flags still win via changed.
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return "", base, changed, err
	}

	if err := cfg.Validate(); err != nil {
		return "", base, changed, err
	}
	return cfgFile, base, changed, nil
}

func printCatalog(w io.Writer, registry *catalog.Registry) {
	for _, tc := range registry.Entries() {
		fmt.Fprintf(w, "  %s  %s\n", tc.ID, tc.Label)
	}
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "vtcheck",
		Short:         "Interactive escape-sequence test harness for serial VT220 terminals",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, base, changed, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}

			zl, err := cliconfig.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			logger := logAdapter.NewZerologAdapter(zl)
			logger.Debug("configuration",
				ports.String("line", cfg.LineConfig().String()),
				ports.String("config_file", cfgFile),
				ports.String("capture", cfg.CapturePath),
				ports.Bool("watch_config", cfg.WatchConfig),
			)

			var dialer ports.Dialer = serial.NewDialer()
			if cfg.CapturePath != "" {
				dialer = fs.NewCaptureDialer(dialer, cfg.CapturePath)
			}

			term := console.NewTerminal()
			defer term.Close()

			harness := app.NewHarness(app.Config{
				Line:   cfg.LineConfig(),
				Policy: cfg.Policy(),
			}, catalog.Default(), dialer, term, app.WithLogger(logger))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			if cfg.WatchConfig {
				if cfgFile == "" {
					logger.Warn("watch-config set but no config file found, not watching")
				} else {
					watcher := configwatch.New(cfgFile, base, logger, harness.UpdatePolicy,
						configwatch.WithChangedFlags(changed))
					if err := watcher.Start(ctx); err != nil {
						logger.Warn("config watcher disabled", ports.Err(err))
					} else {
						defer watcher.Close()
					}
				}
			}

			return harness.Run()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the test catalog without opening the device",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printCatalog(cmd.OutOrStdout(), catalog.Default())
		},
	}
	root.AddCommand(list)

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.vtcheck/config.toml)")
	root.Flags().StringVar(&cfg.Port, "port", cfg.Port, "serial device of the terminal under test")
	root.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "line speed")

	root.Flags().DurationVar(&cfg.LineDelay, "line-delay", cfg.LineDelay, "pause after each emitted line")
	root.Flags().DurationVar(&cfg.CellDelay, "cell-delay", cfg.CellDelay, "pause after each colour cell")
	root.Flags().DurationVar(&cfg.ClearSettle, "clear-settle", cfg.ClearSettle, "pause after a full screen clear")
	root.Flags().DurationVar(&cfg.StepPause, "step-pause", cfg.StepPause, "pause between steps of a multi-step vector")
	root.Flags().DurationVar(&cfg.ObservePause, "observe-pause", cfg.ObservePause, "pause before asking for confirmation")

	root.Flags().StringVar(&cfg.CapturePath, "capture", cfg.CapturePath, "also record every transmitted byte to this file")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level written to stderr (debug, info, warn, error)")
	root.Flags().BoolVar(&cfg.WatchConfig, "watch-config", cfg.WatchConfig, "reload pacing values when the config file changes")

	if err := root.Execute(); err != nil {
		log, _ := cliconfig.NewLogger("error")
		log.Error().Err(err).Msg("vtcheck")
		os.Exit(1)
	}
}
