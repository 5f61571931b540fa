package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderService_Summary(t *testing.T) {
	store := newTestStore(t)
	add := func(title, category, due, priority string) {
		_, err := store.Add(title, "notes for "+title, category, due, priority)
		require.NoError(t, err)
	}
	add("Later", "Work", "2024-04-01", "low")
	add("Overdue", "Home", "2024-03-09", "high")
	add("Soon", "", "2024-03-11", "medium")
	add("Undated", "", "", "")
	add("Finished", "", "2024-03-01", "")
	add("Fuzzy", "", "next week", "")
	require.NoError(t, store.MarkDone(5))

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	summary := NewReminderService(store).Summary(now)

	assert.True(t, strings.HasPrefix(summary, "📋 Task report\n🗓 2024-03-10"))
	assert.Contains(t, summary, "⚠️ #2 Overdue (Home) [high]\n   ⏰ due 2024-03-09, overdue\n   📝 notes for Overdue")
	assert.Contains(t, summary, "⏳ #3 Soon [medium]\n   ⏰ due 2024-03-11, ≈1 days left")
	assert.Contains(t, summary, "🟢 #1 Later (Work) [low]")
	assert.Contains(t, summary, "📌 #4 Undated\n")
	assert.Contains(t, summary, "📌 #6 Fuzzy\n   ⏰ due next week")
	assert.NotContains(t, summary, "Finished")
	assert.True(t, strings.HasSuffix(summary, "✅ Done: 1, pending: 5"))

	order := []string{"#2 Overdue", "#3 Soon", "#1 Later", "#4 Undated", "#6 Fuzzy"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(summary, marker)
		require.GreaterOrEqual(t, idx, 0, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestReminderService_SummaryEmpty(t *testing.T) {
	summary := NewReminderService(newTestStore(t)).Summary(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	assert.Contains(t, summary, "- nothing pending")
	assert.True(t, strings.HasSuffix(summary, "✅ Done: 0, pending: 0"))
}
