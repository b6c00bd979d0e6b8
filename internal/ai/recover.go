package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \t]*\r?\n?(.*?)```")

// Recover извлекает JSON-объект из сырого ответа модели.
// Стратегии применяются по очереди: прямой разбор, блок ```json```, срез от первой { до последней },
// ремонт всего текста. Возвращает nil, если ни одна стратегия не сработала.
func Recover(raw string) map[string]any {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	if doc, ok := parseObject(text); ok {
		return doc
	}

	if matches := fencedBlockPattern.FindStringSubmatch(text); len(matches) > 1 {
		if doc, ok := parseWithRepair(matches[1]); ok {
			return doc
		}
	}

	if start := strings.Index(text, "{"); start >= 0 {
		end := strings.LastIndex(text, "}")
		slice := text[start:]
		if end > start {
			slice = text[start : end+1]
		}
		if doc, ok := parseWithRepair(slice); ok {
			return doc
		}
	}

	if doc, ok := parseObject(repairJSON(text)); ok {
		return doc
	}

	return nil
}

func parseWithRepair(candidate string) (map[string]any, bool) {
	if doc, ok := parseObject(candidate); ok {
		return doc, true
	}

	return parseObject(repairJSON(candidate))
}

func parseObject(candidate string) (map[string]any, bool) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &doc); err != nil || doc == nil {
		return nil, false
	}

	return doc, true
}

// repairJSON fixes the usual LLM artifacts outside string literals: comments, trailing commas,
// unquoted keys, single-quoted strings and a truncated tail (unterminated string, unclosed brackets).
func repairJSON(input string) string {
	src := strings.TrimSpace(input)

	out := make([]byte, 0, len(src)+16)
	stack := make([]byte, 0, 16)
	inString := false
	escaped := false
	// кавычка, открывшая текущую строку: '"' или '\''
	var quote byte
	var lastSig byte

	for i := 0; i < len(src); i++ {
		ch := src[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				out = append(out, ch)
			case ch == '\\' && quote == '\'' && i+1 < len(src) && src[i+1] == '\'':
				out = append(out, '\'')
				i++
			case ch == '\\':
				escaped = true
				out = append(out, ch)
			case ch == quote:
				inString = false
				lastSig = '"'
				out = append(out, '"')
			case ch == '"':
				out = append(out, '\\', '"')
			default:
				out = append(out, ch)
			}
			continue
		}

		switch {
		case ch == '"' || ch == '\'':
			inString = true
			quote = ch
			out = append(out, '"')
		case ch == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				out = append(out, '\n')
			}
		case ch == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				i = len(src)
			} else {
				i += end + 3
			}
		case ch == '{' || ch == '[':
			stack = append(stack, ch)
			out = append(out, ch)
			lastSig = ch
		case ch == '}' || ch == ']':
			out = dropTrailingComma(out)
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			out = append(out, ch)
			lastSig = ch
		case isIdentStart(ch) && (lastSig == '{' || lastSig == ','):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			k := j
			for k < len(src) && (src[k] == ' ' || src[k] == '\t') {
				k++
			}
			if k < len(src) && src[k] == ':' {
				out = append(out, '"')
				out = append(out, src[i:j]...)
				out = append(out, '"')
			} else {
				out = append(out, src[i:j]...)
			}
			lastSig = src[j-1]
			i = j - 1
		default:
			out = append(out, ch)
			if !isSpace(ch) {
				lastSig = ch
			}
		}
	}

	if inString {
		if escaped {
			out = out[:len(out)-1]
		}
		out = append(out, '"')
	}

	if len(stack) > 0 {
		out = dropTrailingComma(out)
		trimmed := strings.TrimRight(string(out), " \t\r\n")
		if strings.HasSuffix(trimmed, ":") {
			trimmed += "null"
		}
		out = []byte(trimmed)
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i] == '{' {
				out = append(out, '}')
			} else {
				out = append(out, ']')
			}
		}
	}

	return string(out)
}

func dropTrailingComma(out []byte) []byte {
	end := len(out)
	for end > 0 && isSpace(out[end-1]) {
		end--
	}
	if end > 0 && out[end-1] == ',' {
		return append(out[:end-1], out[end:]...)
	}

	return out
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
