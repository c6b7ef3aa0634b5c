package llmjson

import (
	"errors"
	"testing"
)

func TestDecodeHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"result\": \"correct\", \"confidence\": 85}\n```"

	var data map[string]any
	if err := Decode(raw, &data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data["result"] != "correct" {
		t.Fatalf("unexpected result: %v", data["result"])
	}

	if data["confidence"] != float64(85) {
		t.Fatalf("unexpected confidence: %v", data["confidence"])
	}
}

func TestDecodeExtractsEmbeddedObject(t *testing.T) {
	raw := "Вот результат:\n{\"result\": \"partial\"}\nНадеюсь, помогло."

	var data map[string]any
	if err := Decode(raw, &data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data["result"] != "partial" {
		t.Fatalf("unexpected result: %v", data["result"])
	}
}

func TestDecodeReturnsDecodeError(t *testing.T) {
	var data map[string]any
	err := Decode("no json here at all", &data)
	if err == nil {
		t.Fatal("expected error for non-json payload")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}

	if decodeErr.Raw != "no json here at all" {
		t.Fatalf("unexpected raw payload: %q", decodeErr.Raw)
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "plain payload untouched",
			input:  `{"a": 1}`,
			expect: `{"a": 1}`,
		},
		{
			name:   "json fence with newlines",
			input:  "```json\n{\"a\": 1}\n```",
			expect: `{"a": 1}`,
		},
		{
			name:   "bare fence",
			input:  "```\n{\"a\": 1}\n```",
			expect: `{"a": 1}`,
		},
		{
			name:   "single line fence",
			input:  "```json{\"a\": 1}```",
			expect: `{"a": 1}`,
		},
		{
			name:   "surrounding whitespace",
			input:  "  \n```json\n{\"a\": 1}\n```\n  ",
			expect: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Strip(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
