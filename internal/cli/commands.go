package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

func (a *app) newAddCommand() *cobra.Command {
	var input service.TaskInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				task, err := svc.tasks.CreateTask(input)
				if err != nil {
					return fmt.Errorf("add task: %w", err)
				}
				log.WithFields(log.Fields{"id": task.ID, "category": task.Category}).Info("task created")
				fmt.Fprintf(cmd.OutOrStdout(), "Saved #%d %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&input.Title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&input.Description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&input.Category, "category", "", "free-form category label")
	cmd.Flags().StringVar(&input.DueDate, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&input.Priority, "priority", "p", "", "low, medium or high")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"view", "ls"},
		Short:   "List all tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				writeTasks(cmd.OutOrStdout(), svc.tasks.ListTasks(), "No tasks yet.")
				return nil
			})
		},
	}
}

func (a *app) newSearchCommand() *cobra.Command {
	var filter repository.SearchFilter
	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search tasks by keyword, category and status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				filter.Keyword = args[0]
			}
			return a.withServices(func(svc *services) error {
				writeTasks(cmd.OutOrStdout(), svc.tasks.SearchTasks(filter), "Nothing found.")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "exact category, any case")
	cmd.Flags().StringVar(&filter.Status, "status", "", "pending or done")
	return cmd
}

func (a *app) newDoneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withServices(func(svc *services) error {
				found, err := svc.tasks.CompleteTask(id)
				if err != nil {
					return fmt.Errorf("complete task: %w", err)
				}
				if !found {
					fmt.Fprintf(cmd.OutOrStdout(), "No task with ID %d.\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d done.\n", id)
				return nil
			})
		},
	}
}

func (a *app) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withServices(func(svc *services) error {
				found, err := svc.tasks.DeleteTask(id)
				if err != nil {
					return fmt.Errorf("delete task: %w", err)
				}
				if !found {
					fmt.Fprintf(cmd.OutOrStdout(), "No task with ID %d.\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d deleted.\n", id)
				return nil
			})
		},
	}
}

func (a *app) newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show categories with pending counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				categories := svc.categories.List()
				if len(categories) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No categories yet.")
					return nil
				}
				for _, cat := range categories {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pending of %d\n", cat.Name, cat.Pending, cat.Total)
				}
				return nil
			})
		},
	}
}

func (a *app) newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show pending tasks ordered by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(func(svc *services) error {
				fmt.Fprintln(cmd.OutOrStdout(), svc.reminders.Summary(time.Now()))
				return nil
			})
		},
	}
}

func (a *app) newRemindCommand() *cobra.Command {
	var sched service.ReportSchedule
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print the task report on a schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("every") && !cmd.Flags().Changed("at") {
				sched = service.ReportSchedule{At: a.cfg.ReportAt, Every: a.cfg.ReportInterval}
			}
			return a.remind(cmd.Context(), cmd.OutOrStdout(), sched)
		},
	}
	cmd.Flags().DurationVar(&sched.Every, "every", 0, "report interval (default from config, 5h)")
	cmd.Flags().StringVar(&sched.At, "at", "", "daily report time, HH:MM (overrides --every)")
	return cmd
}

// remind schedules the report job and blocks until ctx is done. Each run
// loads the store from disk, so the job never shares a store with anyone.
func (a *app) remind(ctx context.Context, out io.Writer, sched service.ReportSchedule) error {
	scheduler := service.NewSchedulerService(time.Local)
	job := func() {
		if err := a.printReport(out); err != nil {
			log.WithError(err).Error("report")
		}
	}

	if _, err := scheduler.ScheduleReport(sched, job); err != nil {
		return fmt.Errorf("schedule reports: %w", err)
	}

	scheduler.Start()
	defer scheduler.Stop()
	log.WithFields(log.Fields{"schedule": sched.String(), "file": a.cfg.StorePath}).Info("reminders started")

	<-ctx.Done()
	log.Info("reminders stopped")
	return nil
}

func (a *app) printReport(out io.Writer) error {
	return a.withServices(func(svc *services) error {
		fmt.Fprintln(out, svc.reminders.Summary(time.Now()))
		return nil
	})
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("task id must be a number, got %q", raw)
	}
	return id, nil
}

func writeTasks(w io.Writer, tasks []model.Task, empty string) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, task := range tasks {
		fmt.Fprintf(w, "%d: %s - %s\n", task.ID, task.Title, task.Status)
	}
}
