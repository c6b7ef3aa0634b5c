// Package llmjson decodes JSON payloads produced by generative models, which
// often arrive wrapped in markdown fences or surrounded by prose.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DecodeError reports a response that could not be interpreted as JSON even
// after fence stripping and object extraction.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode model json: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var objectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Strip removes a leading fence line and a trailing fence marker, leaving the
// payload intact otherwise.
func Strip(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	if nl := strings.Index(cleaned, "\n"); nl != -1 {
		cleaned = cleaned[nl+1:]
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
	}

	cleaned = strings.TrimSpace(cleaned)
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}

	return cleaned
}

// Decode parses raw into v. It first attempts a strict parse of the
// fence-stripped payload and falls back to the largest brace-delimited span.
// Total failure is a *DecodeError.
func Decode(raw string, v any) error {
	cleaned := Strip(raw)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	span := objectRe.FindString(cleaned)
	if span == "" {
		return &DecodeError{Raw: raw, Err: errors.New("no json object found")}
	}

	if err := json.Unmarshal([]byte(span), v); err != nil {
		return &DecodeError{Raw: raw, Err: err}
	}

	return nil
}
