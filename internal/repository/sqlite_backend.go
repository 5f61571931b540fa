package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

// taskRecord is one row of the tasks table. Position keeps collection order
// and lets duplicate task ids coexist.
type taskRecord struct {
	Position    int `gorm:"primaryKey;autoIncrement:false"`
	TaskID      int `gorm:"index"`
	Title       string
	Description string
	Category    string
	DueDate     string
	Priority    string
	Status      string
}

func (taskRecord) TableName() string {
	return "tasks"
}

// SQLiteBackend keeps tasks in a SQLite database file. A missing file is
// created by the first Save, not by opening.
type SQLiteBackend struct {
	db   *gorm.DB
	path string
}

// NewSQLiteBackend opens the database at path if the file exists.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	b := &SQLiteBackend{path: path}
	if !isMemoryDSN(path) {
		if _, err := os.Stat(sqliteFilePath(path)); errors.Is(err, fs.ErrNotExist) {
			return b, nil
		}
	}

	db, err := NewDB(path)
	if err != nil {
		return nil, &CorruptStoreError{Path: path, Err: err}
	}
	b.db = db
	return b, nil
}

func (b *SQLiteBackend) Path() string {
	return b.path
}

func (b *SQLiteBackend) Load() ([]model.Task, error) {
	if b.db == nil {
		return []model.Task{}, nil
	}

	var records []taskRecord
	if err := b.db.Order("position ASC").Find(&records).Error; err != nil {
		return nil, &CorruptStoreError{Path: b.path, Err: fmt.Errorf("read tasks: %w", err)}
	}

	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		task := model.Task{
			ID:          rec.TaskID,
			Title:       rec.Title,
			Description: rec.Description,
			Category:    rec.Category,
			DueDate:     rec.DueDate,
			Priority:    rec.Priority,
			Status:      model.Status(rec.Status),
		}
		if err := task.Validate(); err != nil {
			return nil, &CorruptStoreError{Path: b.path, Err: err}
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Save replaces every row in a single transaction.
func (b *SQLiteBackend) Save(tasks []model.Task) error {
	records := make([]taskRecord, len(tasks))
	for i, task := range tasks {
		records[i] = taskRecord{
			Position:    i + 1,
			TaskID:      task.ID,
			Title:       task.Title,
			Description: task.Description,
			Category:    task.Category,
			DueDate:     task.DueDate,
			Priority:    task.Priority,
			Status:      string(task.Status),
		}
	}

	if b.db == nil {
		db, err := NewDB(b.path)
		if err != nil {
			return &StoreWriteError{Path: b.path, Err: err}
		}
		b.db = db
	}

	err := b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&taskRecord{}).Error; err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("insert tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return &StoreWriteError{Path: b.path, Err: err}
	}
	return nil
}

// Close closes the underlying database handle.
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}
