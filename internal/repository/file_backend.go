package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"

	"task-tracker/internal/model"
)

const taskFileSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "description", "category", "due_date", "priority", "status"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "integer"},
      "title": {"type": "string"},
      "description": {"type": "string"},
      "category": {"type": "string"},
      "due_date": {"type": "string"},
      "priority": {"type": "string"},
      "status": {"type": "string"}
    }
  }
}`

var taskFileValidator = jsonschema.MustCompileString("tasks.schema.json", taskFileSchema)

// FileBackend keeps tasks as a JSON array in a single file.
type FileBackend struct {
	fs   afero.Fs
	path string
}

// NewFileBackend creates a JSON backend on fs.
// Use afero.NewOsFs() for real files, or afero.NewMemMapFs() for testing.
func NewFileBackend(fs afero.Fs, path string) *FileBackend {
	return &FileBackend{fs: fs, path: path}
}

func (b *FileBackend) Path() string {
	return b.path
}

// Load reads and validates the task file. A missing file yields no tasks.
func (b *FileBackend) Load() ([]model.Task, error) {
	exists, err := afero.Exists(b.fs, b.path)
	if err != nil {
		return nil, fmt.Errorf("check tasks file: %w", err)
	}
	if !exists {
		return []model.Task{}, nil
	}

	data, err := afero.ReadFile(b.fs, b.path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, &CorruptStoreError{Path: b.path, Err: fmt.Errorf("parse tasks file: %w", err)}
	}
	if err := taskFileValidator.Validate(doc); err != nil {
		return nil, &CorruptStoreError{Path: b.path, Err: err}
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, &CorruptStoreError{Path: b.path, Err: fmt.Errorf("decode tasks: %w", err)}
	}
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return nil, &CorruptStoreError{Path: b.path, Err: err}
		}
	}
	return tasks, nil
}

// Save replaces the task file by writing a temporary file next to it and renaming it.
func (b *FileBackend) Save(tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return &StoreWriteError{Path: b.path, Err: fmt.Errorf("marshal tasks: %w", err)}
	}

	dir := filepath.Dir(b.path)
	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return &StoreWriteError{Path: b.path, Err: fmt.Errorf("create dir %q: %w", dir, err)}
	}

	tmp, err := afero.TempFile(b.fs, dir, ".tasks-*.tmp")
	if err != nil {
		return &StoreWriteError{Path: b.path, Err: fmt.Errorf("create temp file: %w", err)}
	}
	tmpName := tmp.Name()
	if err := writeAndClose(tmp, buf.Bytes()); err != nil {
		_ = b.fs.Remove(tmpName)
		return &StoreWriteError{Path: b.path, Err: err}
	}
	if err := b.fs.Chmod(tmpName, 0o644); err != nil {
		_ = b.fs.Remove(tmpName)
		return &StoreWriteError{Path: b.path, Err: fmt.Errorf("chmod temp file: %w", err)}
	}
	if err := b.fs.Rename(tmpName, b.path); err != nil {
		_ = b.fs.Remove(tmpName)
		return &StoreWriteError{Path: b.path, Err: fmt.Errorf("replace tasks file: %w", err)}
	}
	return nil
}

func writeAndClose(f afero.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}
