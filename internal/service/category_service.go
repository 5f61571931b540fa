package service

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

const uncategorized = "uncategorized"

// CategoryService provides helpers around categories.
type CategoryService struct {
	store *repository.TaskStore
}

func NewCategoryService(store *repository.TaskStore) *CategoryService {
	return &CategoryService{store: store}
}

// List groups tasks by category, ignoring case. The first spelling seen names the group.
func (s *CategoryService) List() []model.Category {
	fold := cases.Fold()
	byKey := make(map[string]*model.Category)
	var keys []string

	for _, task := range s.store.List() {
		name := strings.TrimSpace(task.Category)
		if name == "" {
			name = uncategorized
		}
		key := fold.String(name)
		cat, ok := byKey[key]
		if !ok {
			cat = &model.Category{Name: name}
			byKey[key] = cat
			keys = append(keys, key)
		}
		cat.Total++
		if !task.IsDone() {
			cat.Pending++
		}
	}

	sort.Strings(keys)
	categories := make([]model.Category, 0, len(keys))
	for _, key := range keys {
		categories = append(categories, *byKey[key])
	}
	return categories
}
