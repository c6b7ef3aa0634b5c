package interview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/llmjson"
	"github.com/spigell/interview-coach/internal/oracle"
	"github.com/spigell/interview-coach/internal/utils"
)

const (
	defaultConfidence   = 60
	defaultMaxLogLength = 200
)

const unknownValue = "не указано"

// Classifier assigns an outcome to a candidate answer, preferring
// deterministic local evidence over the oracle's judgment.
type Classifier struct {
	oracle    oracle.Completer
	logger    *zap.Logger
	maxLogLen int
}

func NewClassifier(completer oracle.Completer, logger *zap.Logger, maxLogLength int) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Classifier{
		oracle:    completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Classify runs the ordered pre-filter chain and falls back to an
// oracle-backed tri-state judgment against the reference answer.
func (c *Classifier) Classify(ctx context.Context, profile *CandidateProfile, question *Question, answer string) (*Evaluation, error) {
	for _, filter := range prefilters {
		if eval := filter.Apply(question, answer); eval != nil {
			c.logger.Debug("answer matched prefilter",
				zap.String("filter", filter.Name()),
				zap.String("outcome", string(eval.Outcome)),
			)
			return eval, nil
		}
	}

	return c.classifyWithOracle(ctx, profile, question, answer)
}

func (c *Classifier) classifyWithOracle(ctx context.Context, profile *CandidateProfile, question *Question, answer string) (*Evaluation, error) {
	position := unknownValue
	if profile != nil && profile.Position != "" {
		position = profile.Position
	}

	topic := question.Topic
	if topic == "" {
		topic = unknownValue
	}

	content := fmt.Sprintf(
		"Позиция: %s\nТема вопроса: %s\nВопрос: %s\nОжидаемый ответ: %s\nОтвет кандидата: %s\n",
		position, topic, question.Text, question.Answer, answer,
	)

	c.logger.Debug("classification request",
		zap.String("prompt_preview", utils.TruncateForLog(content, c.maxLogLen)),
	)

	raw, err := c.oracle.Complete(ctx, classifySystemPrompt, []oracle.Message{
		{Role: oracle.RoleUser, Content: content},
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("classify answer: %w", err)
	}

	c.logger.Debug("classification response",
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	var data map[string]any
	if err := llmjson.Decode(raw, &data); err != nil {
		return nil, &ProtocolError{Stage: "classification", Raw: raw, Err: err}
	}

	outcome := Outcome(strings.ToLower(strings.TrimSpace(coerceString(data["result"]))))
	if !outcome.Known() {
		return nil, &ProtocolError{
			Stage: "classification",
			Raw:   raw,
			Err:   errors.New("missing or unknown result field"),
		}
	}

	confidence := coerceInt(data["confidence"], defaultConfidence)
	confidence = max(0, min(confidence, 100))

	return &Evaluation{
		Outcome:       outcome,
		Reason:        coerceString(data["reason"]),
		Confidence:    confidence,
		CorrectAnswer: question.Answer,
		Topics:        []string{question.Topic},
	}, nil
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func coerceInt(v any, fallback int) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fallback
		}
		return parsed
	default:
		return fallback
	}
}
