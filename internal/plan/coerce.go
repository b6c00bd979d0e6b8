package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const maxRenderedBullets = 4

func section(doc map[string]any, key string) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	if value, ok := doc[key].(map[string]any); ok {
		return value
	}

	return map[string]any{}
}

// asString приводит произвольное значение к строке: nil и объекты без скаляров дают "".
func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if text := asString(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		parts := make([]string, 0, len(v))
		for _, key := range sortedKeys(v) {
			switch v[key].(type) {
			case map[string]any, []any:
				continue
			}
			if text := asString(v[key]); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, " ")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func asStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if text := asString(item); text != "" {
			out = append(out, text)
		}
	}

	return out
}

// asNumber принимает число или денежную/процентную строку.
func asNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case json.Number:
		parsed, _ := v.Float64()
		return parsed
	case string:
		parsed, _ := ParseAmount(v)
		return parsed
	default:
		return 0
	}
}

func asRows(value any) []map[string]any {
	items, ok := value.([]any)
	if !ok {
		return nil
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}

	return rows
}

// renderProduct приводит описание продукта к тексту: строка как есть, список и объект
// превращаются в маркированный список.
func renderProduct(value any) string {
	switch v := value.(type) {
	case []any:
		return bulletList(asStringList(v), maxRenderedBullets)
	case map[string]any:
		if bullets, ok := v["bullets"].([]any); ok {
			return bulletList(asStringList(bullets), len(bullets))
		}
		lines := make([]string, 0, len(v))
		for _, key := range sortedKeys(v) {
			text := asString(v[key])
			if text == "" {
				continue
			}
			lines = append(lines, key+": "+text)
		}
		return bulletList(lines, maxRenderedBullets)
	default:
		return asString(v)
	}
}

func bulletList(items []string, limit int) string {
	if len(items) > limit {
		items = items[:limit]
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+strings.TrimSpace(strings.TrimPrefix(item, "- ")))
	}

	return strings.Join(lines, "\n")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
