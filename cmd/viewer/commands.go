package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rgscene/viewer/internal/app"
	"github.com/rgscene/viewer/internal/config"
	"github.com/rgscene/viewer/internal/logging"
)

// envPrefix scopes environment overrides: VIEWER_CONFIG, VIEWER_LOG_LEVEL,
// VIEWER_MAX_FRAMES.
const envPrefix = "VIEWER"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCmd() *cobra.Command {
	v := newViper()

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the scene and run the frame loop (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runViewer(cmd, v)
		},
	}

	root := &cobra.Command{
		Use:           "viewer",
		Short:         "Headless 3D scene viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runCmd.RunE,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "path to the TOML config (default "+config.DefaultPath+")")
	flags.String("log-level", "", "override logging.level (debug, info, warn, error)")
	flags.Uint64("max-frames", 0, "stop after this many frames (0 = until ESC)")
	for _, name := range []string{"config", "log-level", "max-frames"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	root.AddCommand(runCmd, newOrderCmd(v), newVersionCmd())
	return root
}

// loadConfig reads the config file and applies flag and environment
// overrides. Only an explicitly named config file has to exist.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	path := v.GetString("config")
	required := path != ""
	if !required {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	if lvl := v.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if n := v.GetUint64("max-frames"); n > 0 {
		cfg.Viewer.MaxFrames = n
	}
	return cfg, nil
}

func runViewer(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	out := cmd.OutOrStdout()
	printBanner(out, cfg.Viewer.Name, version)

	a := app.New(cfg, log)
	names, err := a.Order()
	if err != nil {
		return err
	}
	printSection(out, "Controllers")
	for i, name := range names {
		printStat(out, name, i)
	}
	fmt.Fprintln(out)
	printReady(out, "frame loop running, ESC to quit")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = a.Run(ctx)
	log.Info("viewer stopped",
		zap.Uint64("frames", a.Frames()),
		zap.Stringer("reason", a.StopReason()),
	)
	return err
}

func newOrderCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the resolved controller execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			names, err := app.New(cfg, nil).Order()
			if err != nil {
				return err
			}
			for i, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i, name)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "viewer %s (%s %s/%s)\n",
				version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
