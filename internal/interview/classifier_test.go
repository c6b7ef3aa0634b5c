package interview

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/oracle"
)

// stubCompleter replays canned responses and records the requests it saw.
type stubCompleter struct {
	responses []string
	err       error

	calls   int
	systems []string
	inputs  []string
}

func (s *stubCompleter) Complete(_ context.Context, system string, messages []oracle.Message, _ float32) (string, error) {
	s.calls++
	s.systems = append(s.systems, system)
	if len(messages) > 0 {
		s.inputs = append(s.inputs, messages[len(messages)-1].Content)
	}

	if s.err != nil {
		return "", s.err
	}

	if len(s.responses) == 0 {
		return "", errors.New("stub has no responses left")
	}

	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func testQuestion() *Question {
	return &Question{
		Topic:      "Go",
		Difficulty: 2,
		Text:       "Что такое горутина?",
		Answer:     "Лёгкий поток, управляемый планировщиком Go.",
	}
}

func TestClassifyPrefilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		answer string
		expect Outcome
	}{
		{
			name:   "question ending with question mark",
			answer: "А какой у вас стек?",
			expect: OutcomeRoleReversal,
		},
		{
			name:   "interrogative lead with embedded question mark",
			answer: "Какой у вас процесс? Мне интересно",
			expect: OutcomeRoleReversal,
		},
		{
			name:   "off-topic phrase with a question mark goes to role reversal first",
			answer: "не по теме?",
			expect: OutcomeRoleReversal,
		},
		{
			name:   "off-topic keyword",
			answer: "Сегодня отличная погода, не хочу отвечать",
			expect: OutcomeOffTopic,
		},
		{
			name:   "english off-topic keyword",
			answer: "the weather is nice today",
			expect: OutcomeOffTopic,
		},
		{
			name:   "fabrication pattern",
			answer: "В Python 4.0 уберут GIL полностью",
			expect: OutcomeHallucination,
		},
		{
			name:   "fabrication pattern with extra spacing",
			answer: "python   4.0 уже вышел",
			expect: OutcomeHallucination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubCompleter{}
			classifier := NewClassifier(stub, zap.NewNop(), 0)

			eval, err := classifier.Classify(context.Background(), nil, testQuestion(), tt.answer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if eval.Outcome != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, eval.Outcome)
			}

			if eval.Confidence != prefilterConfidence {
				t.Fatalf("expected confidence %d, got %d", prefilterConfidence, eval.Confidence)
			}

			if eval.CorrectAnswer != testQuestion().Answer {
				t.Fatalf("expected reference answer to be carried, got %q", eval.CorrectAnswer)
			}

			if len(eval.Topics) != 0 {
				t.Fatalf("expected empty topics for prefilter verdict, got %v", eval.Topics)
			}

			if stub.calls != 0 {
				t.Fatalf("expected no oracle calls, got %d", stub.calls)
			}
		})
	}
}

func TestClassifyWithOracle(t *testing.T) {
	stub := &stubCompleter{
		responses: []string{`{"result": "Correct", "reason": "Всё верно", "confidence": 85}`},
	}
	classifier := NewClassifier(stub, zap.NewNop(), 0)

	profile := &CandidateProfile{Position: "Backend Developer", Topics: []string{"Go"}}
	eval, err := classifier.Classify(context.Background(), profile, testQuestion(), "Это лёгкий поток в Go.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if eval.Outcome != OutcomeCorrect {
		t.Fatalf("expected correct, got %q", eval.Outcome)
	}

	if eval.Confidence != 85 {
		t.Fatalf("expected confidence 85, got %d", eval.Confidence)
	}

	if eval.Reason != "Всё верно" {
		t.Fatalf("unexpected reason: %q", eval.Reason)
	}

	if len(eval.Topics) != 1 || eval.Topics[0] != "Go" {
		t.Fatalf("expected question topic to be carried, got %v", eval.Topics)
	}

	if stub.calls != 1 {
		t.Fatalf("expected single oracle call, got %d", stub.calls)
	}
}

func TestClassifyDefaultsMissingConfidence(t *testing.T) {
	stub := &stubCompleter{
		responses: []string{`{"result": "partial", "reason": "Половина верна"}`},
	}
	classifier := NewClassifier(stub, zap.NewNop(), 0)

	eval, err := classifier.Classify(context.Background(), nil, testQuestion(), "Это поток.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if eval.Confidence != defaultConfidence {
		t.Fatalf("expected default confidence %d, got %d", defaultConfidence, eval.Confidence)
	}
}

func TestClassifyClampsConfidence(t *testing.T) {
	stub := &stubCompleter{
		responses: []string{`{"result": "incorrect", "confidence": 250}`},
	}
	classifier := NewClassifier(stub, zap.NewNop(), 0)

	eval, err := classifier.Classify(context.Background(), nil, testQuestion(), "Это демон операционной системы.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if eval.Confidence != 100 {
		t.Fatalf("expected confidence clamped to 100, got %d", eval.Confidence)
	}
}

func TestClassifyRejectsUnknownResult(t *testing.T) {
	stub := &stubCompleter{
		responses: []string{`{"verdict": "fine"}`},
	}
	classifier := NewClassifier(stub, zap.NewNop(), 0)

	_, err := classifier.Classify(context.Background(), nil, testQuestion(), "Какой-то ответ.")
	if err == nil {
		t.Fatal("expected error for missing result field")
	}

	var protocolErr *ProtocolError
	if !errors.As(err, &protocolErr) {
		t.Fatalf("expected *ProtocolError, got %T", err)
	}

	if protocolErr.Stage != "classification" {
		t.Fatalf("unexpected stage: %q", protocolErr.Stage)
	}
}

func TestClassifyPropagatesOracleError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	classifier := NewClassifier(stub, zap.NewNop(), 0)

	_, err := classifier.Classify(context.Background(), nil, testQuestion(), "Какой-то ответ.")
	if err == nil {
		t.Fatal("expected transport error to propagate")
	}
}
