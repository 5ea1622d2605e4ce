package checklist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Tolerant JSON recovery from model output. Models wrap answers in markdown
// fences, prepend reasoning text, or emit slightly broken JSON; extraction
// strips fences, isolates the largest balanced JSON region, and falls back to
// mechanical repair before giving up.

// ExtractItems recovers the checklist item array from raw model output.
// Accepted shapes, in order: {"checklist": [...]}, {"items": [...]},
// {"documents": [...]}, a bare array, and a single bare item object.
func ExtractItems(raw string) ([]map[string]any, error) {
	value, err := extractJSONValue(raw)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case map[string]any:
		for _, key := range []string{"checklist", "items", "documents"} {
			if arr, ok := v[key].([]any); ok {
				return coerceItemArray(arr)
			}
		}
		// A single bare item object is wrapped into a one-element list.
		if _, ok := v["documentType"]; ok {
			return []map[string]any{v}, nil
		}
		if _, ok := v["document_type"]; ok {
			return []map[string]any{v}, nil
		}
		return nil, fmt.Errorf("%w: object has no checklist array", ErrExtraction)
	case []any:
		return coerceItemArray(v)
	default:
		return nil, fmt.Errorf("%w: top-level value is %T", ErrExtraction, value)
	}
}

func coerceItemArray(arr []any) ([]map[string]any, error) {
	items := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items, nil
}

// extractJSONValue recovers a single JSON value from free-form model text.
// Shared with the probability generator.
func extractJSONValue(raw string) (any, error) {
	candidate := stripFences(raw)
	candidate = largestJSONRegion(candidate)
	if candidate == "" {
		return nil, fmt.Errorf("%w: no JSON region found", ErrExtraction)
	}

	var value any
	if err := json.Unmarshal([]byte(candidate), &value); err == nil {
		return value, nil
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: repair failed: %v", ErrExtraction, err)
	}
	if err := json.Unmarshal([]byte(repaired), &value); err != nil {
		return nil, fmt.Errorf("%w: repaired output still invalid: %v", ErrExtraction, err)
	}
	return value, nil
}

// stripFences removes markdown code fences, keeping their inner content.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	var inner []string
	parts := strings.Split(s, "```")
	// Odd-indexed parts are inside fences.
	for i := 1; i < len(parts); i += 2 {
		block := parts[i]
		if idx := strings.IndexByte(block, '\n'); idx >= 0 {
			lang := strings.TrimSpace(block[:idx])
			if lang == "json" || lang == "" || isWord(lang) {
				block = block[idx+1:]
			}
		}
		inner = append(inner, block)
	}
	if len(inner) == 0 {
		return s
	}
	return strings.TrimSpace(strings.Join(inner, "\n"))
}

func isWord(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return len(s) > 0
}

// largestJSONRegion returns the longest substring that starts at '{' or '['
// and ends at its balanced closer, tracking strings and escapes so braces in
// text do not confuse the scan.
func largestJSONRegion(s string) string {
	best := ""
	for i := 0; i < len(s); i++ {
		open := s[i]
		if open != '{' && open != '[' {
			continue
		}
		end := scanBalanced(s, i)
		if end < 0 {
			continue
		}
		if end-i+1 > len(best) {
			best = s[i : end+1]
		}
		i = end
	}
	return best
}

func scanBalanced(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
