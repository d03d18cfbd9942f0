package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/format"
	"taskdeck/internal/prefs"
	"taskdeck/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type App struct {
	Server     string
	PrettyJSON bool
	Format     string

	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	initConfig()

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "Operator console for the task-queue service (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive console
  taskdeck

  # Scriptable commands
  taskdeck tasks list --queue q-1 --status queued

  # Direct task lookup (shortcut for: taskdeck tasks show <task-id>)
  taskdeck task-9f2c
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", viper.GetString("server"), "Backend base URL")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKDECK_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newSessionsCmd(app))
	cmd.AddCommand(newStreamsCmd(app))
	cmd.AddCommand(newQueuesCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newPromptsCmd(app))
	cmd.AddCommand(newRolesCmd(app))
	cmd.AddCommand(newStatusCmd(app))

	return cmd
}

// initConfig wires defaults, ~/.taskdeck/config.yaml and TASKDECK_* env vars.
func initConfig() {
	viper.SetDefault("server", "http://localhost:8080")
	viper.SetDefault("http_timeout", 15*time.Second)
	viper.SetDefault("poll.content_interval", 5*time.Second)
	viper.SetDefault("poll.status_interval", 10*time.Second)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if dir, err := prefs.Dir(); err == nil {
		viper.AddConfigPath(dir)
	}
	viper.SetEnvPrefix("TASKDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Missing config file is fine; defaults + env cover it.
	_ = viper.ReadInConfig()
}

func runTUI(app *App) error {
	client, err := clientFor(app)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Client:          client,
		Prefs:           prefs.Load(),
		Log:             app.logger(),
		ContentInterval: viper.GetDuration("poll.content_interval"),
		StatusInterval:  viper.GetDuration("poll.status_interval"),
	})
}

func clientFor(app *App) (*api.Client, error) {
	client, err := api.NewClient(app.Server, app.logger())
	if err != nil {
		return nil, err
	}
	client.SetTimeout(viper.GetDuration("http_timeout"))
	return client, nil
}

// logger writes JSON lines to ~/.taskdeck/taskdeck.log so the TUI's alternate
// screen stays clean; CLI commands share the same sink.
func (app *App) logger() *slog.Logger {
	if app.log != nil {
		return app.log
	}
	dir, err := prefs.Dir()
	if err != nil {
		app.log = slog.New(slog.DiscardHandler)
		return app.log
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		app.log = slog.New(slog.DiscardHandler)
		return app.log
	}
	f, err := os.OpenFile(filepath.Join(dir, "taskdeck.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		app.log = slog.New(slog.DiscardHandler)
		return app.log
	}
	app.log = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return app.log
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
