package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/keepalive/bootstrap"
	"github.com/kbukum/keepalive/config"
	"github.com/kbukum/keepalive/errors"
	"github.com/kbukum/keepalive/server"
	"github.com/kbukum/keepalive/version"
)

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"command":       "supervisor.command",
	"dir":           "supervisor.dir",
	"env-file":      "supervisor.env_file",
	"inherit-env":   "supervisor.inherit_env",
	"restart-delay": "supervisor.restart_delay",
	"grace-period":  "supervisor.grace_period",
	"lock-file":     "lock_file",
	"log-level":     "logging.level",
	"log-format":    "logging.format",
}

type rootOptions struct {
	configFile string
	statusAddr string
	appOpts    []bootstrap.Option
}

// NewRootCommand builds the keepalive command. Extra options are passed to
// the application, after the ones derived from flags.
func NewRootCommand(appOpts ...bootstrap.Option) *cobra.Command {
	o := &rootOptions{appOpts: appOpts}

	cmd := &cobra.Command{
		Use:   "keepalive [flags] [-- command [args...]]",
		Short: "Keep one worker process running forever",
		Long: `keepalive launches a worker, waits for it to exit, pauses for the restart
delay and launches it again, until it receives SIGINT or SIGTERM.

The worker comes from --command, the config file, KEEPALIVE_SUPERVISOR_COMMAND
or the arguments after "--", which take precedence over all of them.`,
		Example: `  keepalive --restart-delay 2 -- ./worker --queue jobs
  keepalive --command "python3 -u bot.py" --env-file .env
  keepalive --config keepalive.yml --status-addr 127.0.0.1:9090`,
		Version:       version.Get().String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, o)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	// Everything after the first positional argument belongs to the worker.
	f.SetInterspersed(false)
	f.StringVar(&o.configFile, "config", "", "config file (default ./keepalive.yml or ./config/keepalive.yml)")
	f.String("command", "", "worker command line, split with shell quoting rules")
	f.String("dir", "", "worker working directory")
	f.String("env-file", "", "dotenv file read before every launch")
	f.Bool("inherit-env", true, "start the worker from keepalive's own environment")
	f.String("restart-delay", "", "pause before every relaunch, seconds or a duration (default 5s)")
	f.String("grace-period", "", "time a stopping worker gets before SIGKILL (default 10s)")
	f.StringVar(&o.statusAddr, "status-addr", "", "serve the status endpoint on host:port")
	f.String("lock-file", "", "refuse to start while another keepalive holds this file")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.String("log-format", "", "log format: json or console")

	return cmd
}

func run(cmd *cobra.Command, args []string, o *rootOptions) error {
	loadOpts := []config.LoaderOption{
		config.WithConfigFile(o.configFile),
		config.WithFlags(cmd.Flags(), flagKeys),
	}
	if len(args) > 0 {
		loadOpts = append(loadOpts, config.WithOverride("supervisor.command", args))
	}
	if o.statusAddr != "" {
		var sc server.Config
		if err := sc.ParseAddr(o.statusAddr); err != nil {
			return errors.InvalidConfig("status-addr", err.Error()).WithCause(err)
		}
		loadOpts = append(loadOpts,
			config.WithOverride("status.enabled", true),
			config.WithOverride("status.host", sc.Host),
			config.WithOverride("status.port", sc.Port),
		)
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

	app, err := bootstrap.NewApp(cfg, o.appOpts...)
	if err != nil {
		return err
	}
	return app.Run(cmd.Context())
}

// ExitCode maps the result of the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
