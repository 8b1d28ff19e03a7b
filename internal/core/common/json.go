package common

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedJSON = regexp.MustCompile("```json\\n([\\s\\S]*?)\\n```")

// FencedJSON returns the body of the first ```json fenced block in text.
// Fences with any other tag, or none, are ignored.
func FencedJSON(text string) (string, bool) {
	m := fencedJSON.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// StripFencedJSON removes every ```json fenced block from text.
func StripFencedJSON(text string) string {
	return fencedJSONLoose.ReplaceAllString(text, "")
}

var fencedJSONLoose = regexp.MustCompile("```json[\\s\\S]*?```")

// ParseJSON unmarshals the outermost JSON object found in a model reply into
// T. Surrounding prose and markdown fences are ignored.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(response, '}')
	if end < start {
		return zero, fmt.Errorf("no JSON object found in response (missing '}')")
	}

	raw := response[start : end+1]
	var result T
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}
