// Package cli provides the command-line interface of the svchost sample
// service. Invoked bare it runs the auto-install orchestrator: under a
// supervisor it hosts the worker, on an elevated console it installs itself,
// otherwise it runs in the foreground.
package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ShiftyTR/svcmgr"
	"github.com/ShiftyTR/svcmgr/internal/worker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	cfgFile  string
	logLevel string
	logFile  string
	svcName  string

	logger = logrus.New()
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "svchost",
		Short: "Self-installing cross-platform sample service",
		Long: `svchost hosts a demo worker as an OS service on Windows (SCM),
Linux (systemd), or macOS (launchd).

Run without arguments it decides for itself: under a service supervisor it
hosts the worker, on an elevated console it installs itself as a service,
and otherwise it runs in the foreground.`,
		Version: svcmgr.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runOrchestrated(cmd)
			if err != nil {
				logger.WithError(err).Error("startup failed")
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (rotated); empty logs to stderr")
	rootCmd.PersistentFlags().StringVar(&svcName, "name", "", "service name")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("service.name", rootCmd.PersistentFlags().Lookup("name"))

	rootCmd.AddCommand(NewInstallCmd())
	rootCmd.AddCommand(NewUninstallCmd())
	rootCmd.AddCommand(NewStartCmd())
	rootCmd.AddCommand(NewStopCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewRunCmd())

	return rootCmd
}

// Execute runs the root command and reports the process exit code
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		logger.WithError(err).Error("command failed")
		return 2
	}
	return 0
}

// initConfig loads the viper config and wires up logging. Missing config
// files are fine; flags and defaults carry the host on their own.
func initConfig() error {
	viper.SetDefault("service.name", "svchost")
	viper.SetDefault("service.description", "svchost sample service")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("worker.interval", worker.DefaultInterval.String())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("svchost")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/svchost")
	}
	viper.SetEnvPrefix("SVCHOST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return err
		}
	}

	setupLogging()
	return nil
}

// setupLogging configures the shared logrus instance from the loaded config
func setupLogging() {
	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if file := viper.GetString("log.file"); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o750); err == nil {
			logger.SetOutput(&lumberjack.Logger{
				Filename:   file,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		} else {
			logger.WithError(err).Warn("cannot create log directory; logging to stderr")
		}
	}
}

// serviceSpec assembles the installation spec from config and the current
// binary location.
func serviceSpec() (svcmgr.Spec, error) {
	execPath, err := os.Executable()
	if err != nil {
		return svcmgr.Spec{}, err
	}
	execPath, err = filepath.Abs(execPath)
	if err != nil {
		return svcmgr.Spec{}, err
	}

	return svcmgr.Spec{
		Name:        viper.GetString("service.name"),
		ExecPath:    execPath,
		Description: viper.GetString("service.description"),
		WorkingDir:  viper.GetString("service.working_dir"),
		Env:         viper.GetStringMapString("service.env"),
		Args:        viper.GetStringSlice("service.args"),
		AutoStart:   true,
	}, nil
}

// newManager builds the platform backend
func newManager() (svcmgr.Manager, error) {
	m, err := svcmgr.New()
	if err != nil {
		return nil, err
	}
	switch b := m.(type) {
	case *svcmgr.ManagerSCM:
		b.WithLogger(logger)
	case *svcmgr.ManagerSystemd:
		b.WithLogger(logger)
	case *svcmgr.ManagerLaunchd:
		b.WithLogger(logger)
	}
	return m, nil
}

// newWorker builds the demo workload from config
func newWorker() *worker.Heartbeat {
	interval, err := time.ParseDuration(viper.GetString("worker.interval"))
	if err != nil || interval <= 0 {
		interval = worker.DefaultInterval
	}
	return worker.New().WithInterval(interval).WithLogger(logger)
}

// runOrchestrated is the bare-invocation path: one-shot startup decision
func runOrchestrated(cmd *cobra.Command) (int, error) {
	spec, err := serviceSpec()
	if err != nil {
		return 2, err
	}
	m, err := newManager()
	if err != nil {
		return 2, err
	}

	o := svcmgr.NewOrchestrator(m).WithLogger(logger)
	return o.Run(cmd.Context(), spec, newWorker().Run)
}
