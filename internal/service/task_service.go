package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string `validate:"required"`
	Description string
	Category    string
	DueDate     string `validate:"omitempty,datetime=2006-01-02"`
	Priority    string `validate:"omitempty,oneof=low medium high"`
}

// TaskService wraps task-related business logic for front ends.
type TaskService struct {
	store    *repository.TaskStore
	validate *validator.Validate
}

func NewTaskService(store *repository.TaskStore) *TaskService {
	return &TaskService{store: store, validate: validator.New()}
}

// CreateTask normalizes and validates input before adding it to the store.
func (s *TaskService) CreateTask(input TaskInput) (model.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.DueDate = strings.TrimSpace(input.DueDate)
	input.Priority = strings.ToLower(strings.TrimSpace(input.Priority))

	if err := checkEncoding(input); err != nil {
		return model.Task{}, err
	}
	if err := s.validate.Struct(input); err != nil {
		return model.Task{}, describeInputError(err)
	}

	return s.store.Add(input.Title, input.Description, input.Category, input.DueDate, input.Priority)
}

func (s *TaskService) ListTasks() []model.Task {
	return s.store.List()
}

func (s *TaskService) SearchTasks(filter repository.SearchFilter) []model.Task {
	return s.store.Search(filter)
}

// CompleteTask marks a task as done. found is false when no task has the id.
func (s *TaskService) CompleteTask(id int) (found bool, err error) {
	if !s.exists(id) {
		return false, nil
	}
	return true, s.store.MarkDone(id)
}

// DeleteTask removes a task. found is false when no task had the id.
func (s *TaskService) DeleteTask(id int) (found bool, err error) {
	found = s.exists(id)
	return found, s.store.Delete(id)
}

func (s *TaskService) exists(id int) bool {
	for _, task := range s.store.List() {
		if task.ID == id {
			return true
		}
	}
	return false
}

func checkEncoding(input TaskInput) error {
	fields := []struct{ name, value string }{
		{"title", input.Title},
		{"description", input.Description},
		{"category", input.Category},
		{"due date", input.DueDate},
		{"priority", input.Priority},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%s is not valid UTF-8 text", f.name)
		}
	}
	return nil
}

func describeInputError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate task: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Title":
			msgs = append(msgs, "title is required")
		case "DueDate":
			msgs = append(msgs, fmt.Sprintf("due date %q must use the YYYY-MM-DD format", fe.Value()))
		case "Priority":
			msgs = append(msgs, fmt.Sprintf("priority %q must be one of low, medium, high", fe.Value()))
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
