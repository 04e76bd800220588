package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todo/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; concurrent writers overwrite each other whole-file.

// DefaultFile is the storage location used when none is configured.
const DefaultFile = "todos.json"

var (
	// ErrIO marks failures to read or write the storage location.
	ErrIO = errors.New("storage i/o failure")
	// ErrFormat marks stored content that is not a valid task list.
	ErrFormat = errors.New("storage format failure")
)

// Error carries the operation, location and kind (ErrIO or ErrFormat) of a
// storage failure. errors.Is matches both the kind and the cause.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

// document is the on-disk shape of a task list.
type document struct {
	Tasks  []model.Task `json:"tasks"`
	NextID uint64       `json:"next_id"`
}

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("todos.schema.json", schemaJSON)

// Load reads the list stored at path. A missing file yields an empty list;
// an existing file must hold a complete, consistent document.
func Load(path string) (*model.List, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.New(), nil
		}
		return nil, &Error{Op: "load", Path: path, Kind: ErrIO, Err: fmt.Errorf("read file: %w", err)}
	}
	l, err := decode(b)
	if err != nil {
		return nil, &Error{Op: "load", Path: path, Kind: ErrFormat, Err: err}
	}
	return l, nil
}

func decode(b []byte) (*model.List, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	if dec.More() {
		return nil, errors.New("json decode: trailing data after document")
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	l, err := model.Restore(doc.Tasks, doc.NextID)
	if err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}
	return l, nil
}

// Save writes l to path, creating parent directories and replacing any
// previous content.
func Save(path string, l *model.List) error {
	b, err := encode(l)
	if err != nil {
		return &Error{Op: "save", Path: path, Kind: ErrIO, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Op: "save", Path: path, Kind: ErrIO, Err: fmt.Errorf("mkdir: %w", err)}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &Error{Op: "save", Path: path, Kind: ErrIO, Err: fmt.Errorf("write file: %w", err)}
	}
	return nil
}

func encode(l *model.List) ([]byte, error) {
	doc := document{Tasks: l.Tasks(), NextID: l.NextID()}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}
