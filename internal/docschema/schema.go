// Package docschema imports itineraries written as JSON day lists. Input is
// normalized, checked against a JSON Schema, then rendered to itinerary text.
package docschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "itinerary-days.json"

// BuildDaysSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
func BuildDaysSchema() map[string]any {
	str := map[string]any{"type": "string"}
	activity := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"time":    map[string]any{"type": "string", "pattern": `^\d{1,2}:\d{2}$`},
			"content": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"content"},
	}
	day := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"date":          map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"dayNumber":     map[string]any{"type": "integer", "minimum": 1},
			"title":         str,
			"morning":       str,
			"afternoon":     str,
			"evening":       str,
			"lunch":         str,
			"dinner":        str,
			"accommodation": str,
			"activities":    map[string]any{"type": "array", "items": activity},
		},
		"required": []string{"date"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title": str,
			"days":  map[string]any{"type": "array", "minItems": 1, "items": day},
		},
		"required": []string{"days"},
	}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func daysSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(BuildDaysSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks data against the day-list schema.
func Validate(data []byte) error {
	schema, err := daysSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
