// Package prompts holds the LLM prompt templates used by the extraction and optimization
// stages. Templates live in JSON files embedded at compile time, keyed by name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Prompt files.
const (
	ExtractionFile   = "extraction.json"
	OptimizationFile = "optimization.json"
)

//go:embed *.json
var promptFiles embed.FS

var (
	registry   map[string]map[string]string
	registryMu sync.RWMutex
)

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	prompts, err := load(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet retrieves a prompt by filename and key, panicking if not found.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces placeholders of the form {{.Key}} with values from data.
// Unknown placeholders are left in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render loads a prompt and fills its placeholders.
func Render(filename, key string, data map[string]string) string {
	return Format(MustGet(filename, key), data)
}

// Keys returns the sorted prompt keys defined in a file.
func Keys(filename string) ([]string, error) {
	prompts, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Reset drops parsed prompt files so the next lookup reads them again.
func Reset() {
	registryMu.Lock()
	registry = nil
	registryMu.Unlock()
}

func load(filename string) (map[string]string, error) {
	registryMu.RLock()
	prompts, ok := registry[filename]
	registryMu.RUnlock()
	if ok {
		return prompts, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	registryMu.Lock()
	if registry == nil {
		registry = make(map[string]map[string]string)
	}
	registry[filename] = prompts
	registryMu.Unlock()

	return prompts, nil
}
