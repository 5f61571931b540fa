package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
	"task-tracker/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageDescription
	stageCategory
	stageDueDate
	stagePriority
)

const (
	commandPrompt = "command (add, delete, done, view, search, categories, report, help, exit): "
	cancelInput   = "cancel"
)

type conversationState struct {
	stage conversationStage
	input service.TaskInput
}

type styles struct {
	heading lipgloss.Style
	done    lipgloss.Style
	pending lipgloss.Style
	errText lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		heading: r.NewStyle().Bold(true),
		done:    r.NewStyle().Foreground(lipgloss.Color("2")),
		pending: r.NewStyle().Foreground(lipgloss.Color("3")),
		errText: r.NewStyle().Foreground(lipgloss.Color("1")),
		faint:   r.NewStyle().Faint(true),
	}
}

// Shell is the interactive command loop over the task services.
type Shell struct {
	in          *bufio.Scanner
	out         io.Writer
	taskSvc     *service.TaskService
	categorySvc *service.CategoryService
	reminderSvc *service.ReminderService
	styles      styles
	now         func() time.Time
}

func New(in io.Reader, out io.Writer, taskSvc *service.TaskService, categorySvc *service.CategoryService, reminderSvc *service.ReminderService) *Shell {
	return &Shell{
		in:          bufio.NewScanner(in),
		out:         out,
		taskSvc:     taskSvc,
		categorySvc: categorySvc,
		reminderSvc: reminderSvc,
		styles:      newStyles(out),
		now:         time.Now,
	}
}

// Run reads commands until exit, end of input, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, ok := s.ask(commandPrompt)
		if !ok {
			return s.in.Err()
		}
		command := strings.ToLower(line)
		if command == "" {
			continue
		}
		if command == "exit" || command == "quit" {
			return nil
		}
		log.WithField("command", command).Debug("console command")
		if err := s.handleCommand(command); err != nil {
			return err
		}
	}
}

func (s *Shell) handleCommand(command string) error {
	switch command {
	case "add":
		return s.addTask()
	case "delete":
		return s.deleteTask()
	case "done":
		return s.completeTask()
	case "view":
		s.printTasks(s.taskSvc.ListTasks(), "No tasks yet. Add one with \"add\".")
		return nil
	case "search":
		return s.search()
	case "categories":
		s.printCategories()
		return nil
	case "report":
		s.println(s.reminderSvc.Summary(s.now()))
		return nil
	case "help":
		s.printHelp()
		return nil
	default:
		s.println("Unknown command. Type \"help\" for the list of commands.")
		return nil
	}
}

// ask prints a prompt and returns the trimmed next line. ok is false at end of input.
func (s *Shell) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) addTask() error {
	state := &conversationState{stage: stageTitle}
	s.println(s.styles.faint.Render("New task. Type \"cancel\" at any step to stop."))

	for state.stage != stageNone {
		text, ok := s.ask(stagePrompt(state.stage))
		if !ok {
			return s.in.Err()
		}
		if strings.EqualFold(text, cancelInput) {
			s.println("Task creation cancelled.")
			return nil
		}
		s.handleConversation(state, text)
	}

	task, err := s.taskSvc.CreateTask(state.input)
	if err != nil {
		return s.reportError("could not save task", err)
	}
	log.WithFields(log.Fields{"id": task.ID, "category": task.Category}).Info("task created")
	s.printf("%s #%d %s\n", s.styles.done.Render("Saved"), task.ID, task.Title)
	return nil
}

func stagePrompt(stage conversationStage) string {
	switch stage {
	case stageTitle:
		return "Title: "
	case stageDescription:
		return "Description: "
	case stageCategory:
		return "Category: "
	case stageDueDate:
		return "Due date (YYYY-MM-DD): "
	case stagePriority:
		return "Priority (low, medium, high): "
	default:
		return "> "
	}
}

func (s *Shell) handleConversation(state *conversationState, text string) {
	switch state.stage {
	case stageTitle:
		if text == "" {
			s.println("The title cannot be empty.")
			return
		}
		state.input.Title = text
		state.stage = stageDescription
	case stageDescription:
		state.input.Description = text
		state.stage = stageCategory
	case stageCategory:
		state.input.Category = text
		state.stage = stageDueDate
	case stageDueDate:
		if text != "" {
			if _, err := time.Parse(model.DueDateLayout, text); err != nil {
				s.println("Cannot read that date. Use the 2024-12-31 format or leave it empty.")
				return
			}
		}
		state.input.DueDate = text
		state.stage = stagePriority
	case stagePriority:
		switch strings.ToLower(text) {
		case "", model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
			state.input.Priority = text
			state.stage = stageNone
		default:
			s.println("Priority must be low, medium or high (or empty).")
		}
	default:
		state.stage = stageNone
	}
}

func (s *Shell) deleteTask() error {
	id, ok, err := s.askID("ID of the task to delete: ")
	if err != nil || !ok {
		return err
	}
	found, err := s.taskSvc.DeleteTask(id)
	if err != nil {
		return s.reportError("could not delete task", err)
	}
	if !found {
		s.printf("No task with ID %d.\n", id)
		return nil
	}
	log.WithField("id", id).Info("task deleted")
	s.printf("Task %d deleted.\n", id)
	return nil
}

func (s *Shell) completeTask() error {
	id, ok, err := s.askID("ID of the task to mark as done: ")
	if err != nil || !ok {
		return err
	}
	found, err := s.taskSvc.CompleteTask(id)
	if err != nil {
		return s.reportError("could not complete task", err)
	}
	if !found {
		s.printf("No task with ID %d.\n", id)
		return nil
	}
	log.WithField("id", id).Info("task completed")
	s.printf("%s task %d.\n", s.styles.done.Render("Done:"), id)
	return nil
}

// askID reads a task id. ok is false when the input is not a number or has ended.
func (s *Shell) askID(prompt string) (id int, ok bool, err error) {
	text, more := s.ask(prompt)
	if !more {
		return 0, false, s.in.Err()
	}
	id, convErr := strconv.Atoi(text)
	if convErr != nil {
		s.println("The task ID must be a number.")
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Shell) search() error {
	keyword, ok := s.ask("Keyword: ")
	if !ok {
		return s.in.Err()
	}
	results := s.taskSvc.SearchTasks(repository.SearchFilter{Keyword: keyword})
	s.printTasks(results, "Nothing found.")
	return nil
}

func (s *Shell) printTasks(tasks []model.Task, empty string) {
	if len(tasks) == 0 {
		s.println(empty)
		return
	}
	for _, task := range tasks {
		s.printf("%d: %s - %s\n", task.ID, task.Title, s.renderStatus(task.Status))
	}
}

func (s *Shell) renderStatus(status model.Status) string {
	if status == model.StatusDone {
		return s.styles.done.Render(string(status))
	}
	return s.styles.pending.Render(string(status))
}

func (s *Shell) printCategories() {
	categories := s.categorySvc.List()
	if len(categories) == 0 {
		s.println("No categories yet. Set one when adding a task.")
		return
	}
	s.println(s.styles.heading.Render("Categories"))
	for _, cat := range categories {
		s.printf("- %s: %d pending of %d\n", cat.Name, cat.Pending, cat.Total)
	}
}

func (s *Shell) printHelp() {
	s.println(s.styles.heading.Render("Commands"))
	s.println("- add: create a task step by step")
	s.println("- view: list all tasks")
	s.println("- done: mark a task as done by ID")
	s.println("- delete: remove a task by ID")
	s.println("- search: find tasks by keyword in title or description")
	s.println("- categories: show categories with pending counts")
	s.println("- report: show pending tasks ordered by due date")
	s.println("- exit: leave")
}

// reportError shows a store failure to the user and keeps the loop running.
func (s *Shell) reportError(action string, err error) error {
	log.WithError(err).Error(action)
	s.printf("%s: %v\n", s.styles.errText.Render(action), err)
	return nil
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}
