// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock removes markdown code block wrappers from JSON responses and drops
// any conversational preamble before the first JSON object or array.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	objStart := strings.IndexByte(text, '{')
	arrStart := strings.IndexByte(text, '[')
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if arr := extractJSONArray(text); arr != "" {
			return arr
		}
	}
	if obj := extractJSONObject(text); obj != "" {
		return obj
	}
	return text
}

// extractJSONObject returns the span from the first '{' to the last '}' when text
// does not already start with JSON.
func extractJSONObject(text string) string {
	return extractSpan(text, '{', '}')
}

// extractJSONArray returns the span from the first '[' to the last ']' when text
// does not already start with JSON.
func extractJSONArray(text string) string {
	return extractSpan(text, '[', ']')
}

func extractSpan(text string, open, closing byte) string {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closing)
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

var smartQuotes = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‘", "'",
	"’", "'",
)

// NormalizeQuotes replaces typographic quotes with their ASCII forms.
func NormalizeQuotes(text string) string {
	return smartQuotes.Replace(text)
}

// ParseJSON cleans model output and decodes it into v. Typographic quotes and
// single-quoted objects are only rewritten when the cleaned text does not decode as is.
// Empty or undecodable text yields a *MalformedOutputError carrying the cleaned text.
func ParseJSON(text string, v any) error {
	cleaned := CleanJSONBlock(text)
	if cleaned == "" {
		return &MalformedOutputError{Message: "empty response after cleaning"}
	}

	err := json.Unmarshal([]byte(cleaned), v)
	if err == nil {
		return nil
	}

	normalized := NormalizeQuotes(cleaned)
	if normalized != cleaned {
		if retryErr := json.Unmarshal([]byte(normalized), v); retryErr == nil {
			return nil
		}
	}

	// Some models answer with Python-style single-quoted objects.
	if strings.Contains(normalized, "'") {
		if retryErr := json.Unmarshal([]byte(strings.ReplaceAll(normalized, "'", `"`)), v); retryErr == nil {
			return nil
		}
	}

	return &MalformedOutputError{
		Message: "response is not valid JSON",
		Raw:     cleaned,
		Cause:   err,
	}
}
