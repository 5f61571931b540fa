package repository

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"

	"task-tracker/internal/model"
)

// Store drivers accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Backend reads and replaces the full task collection in one backing file.
// Load returns an empty collection when the file does not exist.
type Backend interface {
	Path() string
	Load() ([]model.Task, error)
	Save(tasks []model.Task) error
}

// SearchFilter narrows Search results. Empty fields are ignored.
type SearchFilter struct {
	Keyword  string
	Category string
	Status   string
}

// TaskStore owns an ordered task collection and writes it through to its
// backend after every mutation. It is not safe for concurrent use.
type TaskStore struct {
	backend Backend
	tasks   []model.Task
}

// Open builds a store for the given driver, loading the file at path.
func Open(driver, path string) (*TaskStore, error) {
	switch driver {
	case DriverJSON, "":
		return NewTaskStore(NewFileBackend(afero.NewOsFs(), path))
	case DriverSQLite:
		backend, err := NewSQLiteBackend(path)
		if err != nil {
			return nil, err
		}
		store, err := NewTaskStore(backend)
		if err != nil {
			_ = backend.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// NewTaskStore loads the backend's current contents into a new store.
func NewTaskStore(backend Backend) (*TaskStore, error) {
	s := &TaskStore{backend: backend}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file location.
func (s *TaskStore) Path() string {
	return s.backend.Path()
}

// Close releases backend resources, if any.
func (s *TaskStore) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *TaskStore) load() error {
	tasks, err := s.backend.Load()
	if err != nil {
		return err
	}
	s.tasks = tasks
	log.WithFields(log.Fields{"path": s.Path(), "tasks": len(tasks)}).Debug("task store loaded")
	return nil
}

func (s *TaskStore) persist() error {
	if err := s.backend.Save(s.tasks); err != nil {
		log.WithFields(log.Fields{"path": s.Path(), "error": err}).Error("persist tasks")
		return err
	}
	log.WithFields(log.Fields{"path": s.Path(), "tasks": len(s.tasks)}).Debug("task store saved")
	return nil
}

// Add appends a pending task and persists the collection. The id is the
// current task count plus one, so it can repeat an id after a delete.
// Invalid UTF-8 in any field is replaced with U+FFFD so the stored task
// matches what the backend writes.
func (s *TaskStore) Add(title, description, category, dueDate, priority string) (model.Task, error) {
	task := model.Task{
		ID:          len(s.tasks) + 1,
		Title:       validUTF8(title),
		Description: validUTF8(description),
		Category:    validUTF8(category),
		DueDate:     validUTF8(dueDate),
		Priority:    validUTF8(priority),
		Status:      model.StatusPending,
	}
	s.tasks = append(s.tasks, task)
	return task, s.persist()
}

// Delete removes every task with the given id and persists. Unknown ids are not an error.
func (s *TaskStore) Delete(id int) error {
	kept := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	s.tasks = kept
	return s.persist()
}

// MarkDone completes the first task with the given id and persists.
// Unknown ids are a no-op.
func (s *TaskStore) MarkDone(id int) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].MarkDone()
			return s.persist()
		}
	}
	return nil
}

// List returns a copy of all tasks in collection order.
func (s *TaskStore) List() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Search applies the keyword, category and status filters in that order.
func (s *TaskStore) Search(filter SearchFilter) []model.Task {
	fold := cases.Fold()
	results := s.List()

	if filter.Keyword != "" {
		keyword := fold.String(filter.Keyword)
		results = filterTasks(results, func(t model.Task) bool {
			return strings.Contains(fold.String(t.Title), keyword) ||
				strings.Contains(fold.String(t.Description), keyword)
		})
	}
	if filter.Category != "" {
		category := fold.String(filter.Category)
		results = filterTasks(results, func(t model.Task) bool {
			return fold.String(t.Category) == category
		})
	}
	if filter.Status != "" {
		status := fold.String(filter.Status)
		results = filterTasks(results, func(t model.Task) bool {
			return fold.String(string(t.Status)) == status
		})
	}
	return results
}

func validUTF8(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	return out
}
