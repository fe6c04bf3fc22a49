package mealplan

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extractor pulls the candidate JSON payload out of raw model text.
type Extractor func(raw string) (string, error)

const (
	ExtractionBraceSpan = "brace_span"
	ExtractionBalanced  = "balanced"
)

// ExtractorFor resolves a configured strategy name. Empty means brace_span.
func ExtractorFor(name string) (Extractor, error) {
	switch name {
	case "", ExtractionBraceSpan:
		return ExtractBraceSpan, nil
	case ExtractionBalanced:
		return ExtractBalanced, nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy %q", name)
	}
}

// ExtractBraceSpan returns everything from the first '{' to the last '}'.
// Prose or markdown fences around the payload are dropped. It is a greedy
// heuristic: braces in surrounding prose widen the span.
func ExtractBraceSpan(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return raw[start : end+1], nil
}

// ExtractBalanced scans for brace-balanced objects while tracking string
// literals and escapes, and returns the first one that is valid JSON.
// If none is valid, the first balanced candidate is returned so the caller
// reports a parse failure rather than a missing payload.
func ExtractBalanced(raw string) (string, error) {
	first := ""
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		end := matchBrace(raw, i)
		if end == -1 {
			// Unterminated object: nothing after this point can balance either.
			break
		}
		candidate := raw[i : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
		if first == "" {
			first = candidate
		}
	}
	if first == "" {
		return "", ErrNoJSON
	}
	return first, nil
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1.
func matchBrace(s string, start int) int {
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
