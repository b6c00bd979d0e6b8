package plan

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	shapeOnce   sync.Once
	shapeSchema gojsonschema.JSONLoader
)

// CheckShape проверяет по JSON Schema, что в сериализованном плане есть все поля нужного типа.
// Схема строится по json-тегам Plan, поэтому nil-список (null) считается ошибкой.
func CheckShape(p *Plan) error {
	if p == nil {
		return fmt.Errorf("plan is nil")
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	var document map[string]any
	if err := json.Unmarshal(payload, &document); err != nil {
		return fmt.Errorf("decode plan: %w", err)
	}

	shapeOnce.Do(func() {
		shapeSchema = gojsonschema.NewGoLoader(Schema())
	})

	result, err := gojsonschema.Validate(shapeSchema, gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("validate plan shape: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("plan shape is invalid: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Schema returns the JSON Schema of the canonical plan.
func Schema() map[string]any {
	return schemaFor(reflect.TypeOf(Plan{}))
}

func schemaFor(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.Struct:
		properties := make(map[string]any, t.NumField())
		required := make([]any, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			name := strings.Split(field.Tag.Get("json"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			properties[name] = schemaFor(field.Type)
			required = append(required, name)
		}
		return map[string]any{
			"type":                 "object",
			"properties":           properties,
			"required":             required,
			"additionalProperties": false,
		}
	case reflect.Slice:
		return map[string]any{
			"type":  "array",
			"items": schemaFor(t.Elem()),
		}
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return map[string]any{"type": "number"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	default:
		return map[string]any{"type": "string"}
	}
}
