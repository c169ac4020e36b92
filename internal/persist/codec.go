// Package persist serializes the task collection to the single JSON value
// kept in the key-value store, and loads it back with a fallback.
package persist

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Joseda-hg/taskminder/internal/model"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "tasks.schema.json"

//go:embed tasks.schema.json
var schemaJSON []byte

// ErrEmpty is returned by Decode for a blank stored value.
var ErrEmpty = errors.New("stored tasks value is empty")

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add tasks schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile tasks schema: %w", err)
	}
	return schema, nil
})

// Encode renders the whole collection as a JSON array.
func Encode(tasks []model.Task) ([]byte, error) {
	out := make([]model.Task, len(tasks))
	for i, task := range tasks {
		out[i] = task
		if out[i].Comments == nil {
			out[i].Comments = []model.Comment{}
		}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}

// Decode validates data against the embedded schema and parses it.
func Decode(data []byte) ([]model.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse stored tasks: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate stored tasks: %s", describeSchemaError(err))
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode stored tasks: %w", err)
	}

	seen := make(map[int64]struct{}, len(tasks))
	for _, task := range tasks {
		if _, ok := seen[task.ID]; ok {
			return nil, fmt.Errorf("decode stored tasks: duplicate task id %d", task.ID)
		}
		seen[task.ID] = struct{}{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func describeSchemaError(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	var messages []string
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := strings.TrimPrefix(e.InstanceLocation, "/")
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
			return
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(ve)
	return strings.Join(messages, "; ")
}
