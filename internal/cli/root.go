package cli

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"task-tracker/internal/config"
	"task-tracker/internal/console"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

// app carries the loaded configuration to subcommands.
type app struct {
	cfg config.Config
}

// services bundles the services built on one opened store.
type services struct {
	tasks      *service.TaskService
	categories *service.CategoryService
	reminders  *service.ReminderService
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the tasktracker command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tasktracker",
		Short: "Track personal tasks in a local file.",
		Long: `tasktracker keeps a personal task list in a local file.
Run it without a command for the interactive shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			return configureLogging(cfg, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				shell := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), svc.tasks, svc.categories, svc.reminders)
				return shell.Run(cmd.Context())
			})
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./tasktracker.{toml,yaml,json})")
	flags.StringP("file", "f", "", "backing file for tasks (default tasks.json)")
	flags.String("driver", "", "store driver: json or sqlite (default json)")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")

	root.AddCommand(
		a.newAddCommand(),
		a.newListCommand(),
		a.newSearchCommand(),
		a.newDoneCommand(),
		a.newDeleteCommand(),
		a.newCategoriesCommand(),
		a.newReportCommand(),
		a.newRemindCommand(),
	)
	return root
}

func configureLogging(cfg config.Config, out io.Writer) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

func (a *app) openStore() (*repository.TaskStore, error) {
	store, err := repository.Open(a.cfg.Driver, a.cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

// withServices opens the configured store, runs fn and closes the store.
func (a *app) withServices(fn func(*services) error) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("close store")
		}
	}()

	return fn(&services{
		tasks:      service.NewTaskService(store),
		categories: service.NewCategoryService(store),
		reminders:  service.NewReminderService(store),
	})
}
