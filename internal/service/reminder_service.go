package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

const (
	iconDefault = "🟢"
	iconDue     = "⏳"
	iconOverdue = "⚠️"
	iconUndated = "📌"
	dueSoon     = 48 * time.Hour
)

// ReminderService builds human-readable summaries of pending work.
type ReminderService struct {
	store *repository.TaskStore
}

func NewReminderService(store *repository.TaskStore) *ReminderService {
	return &ReminderService{store: store}
}

// Summary renders pending tasks ordered by due date, undated tasks last.
func (s *ReminderService) Summary(now time.Time) string {
	var pending []model.Task
	done := 0
	for _, task := range s.store.List() {
		if task.IsDone() {
			done++
			continue
		}
		pending = append(pending, task)
	}

	loc := now.Location()
	sort.SliceStable(pending, func(i, j int) bool {
		di, okI := pending[i].DueTime(loc)
		dj, okJ := pending[j].DueTime(loc)
		switch {
		case !okI && !okJ:
			return pending[i].ID < pending[j].ID
		case !okI:
			return false
		case !okJ:
			return true
		case di.Equal(dj):
			return pending[i].ID < pending[j].ID
		default:
			return di.Before(dj)
		}
	})

	var builder strings.Builder
	builder.WriteString("📋 Task report\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format(model.DueDateLayout)))

	builder.WriteString("🔥 Pending tasks\n")
	if len(pending) == 0 {
		builder.WriteString("- nothing pending\n")
	} else {
		for _, task := range pending {
			builder.WriteString(formatTask(task, now))
		}
	}

	builder.WriteString(fmt.Sprintf("\n✅ Done: %d, pending: %d\n", done, len(pending)))
	return strings.TrimSpace(builder.String())
}

func formatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	// Deadlines are whole days, so a task is overdue once its due day has ended.
	due, dated := task.DueTime(now.Location())
	end := due.AddDate(0, 0, 1)

	icon := iconUndated
	if dated {
		switch {
		case !now.Before(end):
			icon = iconOverdue
		case end.Sub(now) <= dueSoon:
			icon = iconDue
		default:
			icon = iconDefault
		}
	}

	sb.WriteString(fmt.Sprintf("%s #%d %s", icon, task.ID, strings.TrimSpace(task.Title)))
	if category := strings.TrimSpace(task.Category); category != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", category))
	}
	if task.Priority != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", task.Priority))
	}

	switch {
	case dated && !now.Before(end):
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, overdue", task.DueDate))
	case dated:
		daysLeft := int(end.Sub(now).Hours() / 24)
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, ≈%d days left", task.DueDate, daysLeft))
	case task.DueDate != "":
		sb.WriteString(fmt.Sprintf("\n   ⏰ due %s", task.DueDate))
	}

	if description := strings.TrimSpace(task.Description); description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", description))
	}

	sb.WriteByte('\n')
	return sb.String()
}
