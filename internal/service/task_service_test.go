package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

func TestCreateTask_NormalizesInput(t *testing.T) {
	svc := NewTaskService(newTestStore(t))

	task, err := svc.CreateTask(TaskInput{
		Title:       "  Pay rent ",
		Description: " monthly ",
		Category:    " Home ",
		DueDate:     " 2024-05-01 ",
		Priority:    " HIGH ",
	})
	require.NoError(t, err)

	assert.Equal(t, model.Task{
		ID:          1,
		Title:       "Pay rent",
		Description: "monthly",
		Category:    "Home",
		DueDate:     "2024-05-01",
		Priority:    model.PriorityHigh,
		Status:      model.StatusPending,
	}, task)
	assert.Len(t, svc.ListTasks(), 1)
}

func TestCreateTask_OptionalFieldsMayBeEmpty(t *testing.T) {
	svc := NewTaskService(newTestStore(t))

	task, err := svc.CreateTask(TaskInput{Title: "Call mom"})
	require.NoError(t, err)
	assert.Equal(t, "", task.DueDate)
	assert.Equal(t, "", task.Priority)
}

func TestCreateTask_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input TaskInput
		want  string
	}{
		{"missing title", TaskInput{Title: "   "}, "title is required"},
		{"bad due date", TaskInput{Title: "A", DueDate: "31.12.2024"}, `due date "31.12.2024" must use the YYYY-MM-DD format`},
		{"bad priority", TaskInput{Title: "A", Priority: "urgent"}, `priority "urgent" must be one of low, medium, high`},
		{"several problems", TaskInput{Priority: "urgent"}, "title is required; priority"},
		{"invalid utf-8 title", TaskInput{Title: "bad\xffbyte"}, "title is not valid UTF-8 text"},
		{"invalid utf-8 description", TaskInput{Title: "A", Description: "\xc3("}, "description is not valid UTF-8 text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTaskService(newTestStore(t))

			_, err := svc.CreateTask(tt.input)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, svc.ListTasks())
		})
	}
}

func TestCompleteTask(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "A", "B")
	svc := NewTaskService(store)

	found, err := svc.CompleteTask(2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, model.StatusDone, svc.ListTasks()[1].Status)

	found, err = svc.CompleteTask(9)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteTask(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "A", "B")
	svc := NewTaskService(store)

	found, err := svc.DeleteTask(1)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.DeleteTask(1)
	require.NoError(t, err)
	assert.False(t, found)

	require.Len(t, svc.ListTasks(), 1)
	assert.Equal(t, "B", svc.ListTasks()[0].Title)
}

func TestSearchTasks(t *testing.T) {
	store := newTestStore(t)
	seed(t, store, "Write docs", "Read book")
	svc := NewTaskService(store)

	results := svc.SearchTasks(repository.SearchFilter{Keyword: "WRITE"})
	require.Len(t, results, 1)
	assert.Equal(t, "Write docs", results[0].Title)
}
