// Package jsonstore encodes the todo collection for a store.Storage.
//
// The persisted value is a JSON array of {id, title, completed} records.
// Anything else is rejected as a whole; callers treat that as "no data".
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// DefaultKey is the storage key the collection lives under.
const DefaultKey = "TODOS"

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("malformed todo collection")

const schemaURL = "https://tada.local/todos.schema.json"

const collectionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": false,
    "required": ["id", "title", "completed"],
    "properties": {
      "id": {"type": "string"},
      "title": {"type": "string"},
      "completed": {"type": "boolean"}
    }
  }
}`

var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(collectionSchema)); err != nil {
		panic(fmt.Sprintf("jsonstore: add schema: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// Encode serializes items. A nil slice encodes as an empty array.
func Encode(items []model.Item) (string, error) {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses and validates a persisted collection.
func Decode(raw string) ([]model.Item, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformed, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Load reads the collection stored under key. An absent key yields an empty
// collection and no error.
func Load(s store.Storage, key string) ([]model.Item, error) {
	raw, ok, err := s.GetItem(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return []model.Item{}, nil
	}
	return Decode(raw)
}

// Save overwrites the collection stored under key.
func Save(s store.Storage, key string, items []model.Item) error {
	raw, err := Encode(items)
	if err != nil {
		return err
	}
	if err := s.SetItem(key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
