package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/llmjson"
	"github.com/spigell/interview-coach/internal/oracle"
	"github.com/spigell/interview-coach/internal/utils"
)

const (
	// The prompt excludes only a window of recent history; anti-repetition
	// relies on the oracle honoring it and is best-effort.
	askedHistoryWindow  = 5
	recentContextWindow = 4

	introTopic            = "intro"
	fallbackIntroQuestion = "Расскажите о себе, о вашей роли и опыте."
)

// Generator produces interview questions through the oracle.
type Generator struct {
	oracle    oracle.Completer
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerator(completer oracle.Completer, logger *zap.Logger, maxLogLength int) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Generator{
		oracle:    completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// IntroQuestion asks the candidate to introduce themselves. A response the
// oracle failed to structure falls back to a fixed greeting.
func (g *Generator) IntroQuestion(ctx context.Context) (*Question, error) {
	raw, err := g.oracle.Complete(ctx, introSystemPrompt, []oracle.Message{
		{Role: oracle.RoleUser, Content: "Сгенерируйте первое приветственное обращение."},
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("intro question: %w", err)
	}

	text := ""
	var data map[string]any
	if err := llmjson.Decode(raw, &data); err == nil {
		text = coerceString(data["question"])
	}
	if text == "" {
		text = fallbackIntroQuestion
	}

	return &Question{
		Topic:      introTopic,
		Difficulty: MinDifficulty,
		Text:       text,
	}, nil
}

// Next generates one new question restricted to the profile's topics at the
// state's difficulty, steering the oracle away from recently asked questions.
// A response missing the topic, question or answer field is a hard failure.
func (g *Generator) Next(ctx context.Context, profile *CandidateProfile, state *State) (*Question, error) {
	system := strings.ReplaceAll(questionSystemPromptTemplate, "{{TOPICS}}", strings.Join(profile.Topics, ", "))

	lastOutcome := "none"
	if state.LastOutcome != "" {
		lastOutcome = string(state.LastOutcome)
	}

	asked := make([]string, 0, askedHistoryWindow)
	for _, question := range tail(state.Asked, askedHistoryWindow) {
		asked = append(asked, question.Text)
	}

	recent := make([]string, 0, recentContextWindow)
	for i, turn := range tail(state.Recent, recentContextWindow) {
		recent = append(recent, fmt.Sprintf("%d) Q: %s | A: %s | R: %s", i+1, turn.Question, turn.Answer, turn.Outcome))
	}

	position := profile.Position
	if position == "" {
		position = unknownValue
	}

	content := fmt.Sprintf(
		"Позиция кандидата: %s\n"+
			"Темы: %s\n"+
			"Желаемая сложность: %d\n"+
			"Последняя оценка ответа кандидата: %s\n"+
			"Контекст последних ответов кандидата (не повторять вопросы): %s\n"+
			"Уже заданные вопросы (не повторять): %s\n"+
			"Сгенерируйте ОДИН новый вопрос, который НЕ повторяет уже заданные.",
		position,
		strings.Join(profile.Topics, ", "),
		state.Difficulty,
		lastOutcome,
		strings.Join(recent, "; "),
		strings.Join(asked, "; "),
	)

	g.logger.Debug("question generation request",
		zap.String("prompt_preview", utils.TruncateForLog(content, g.maxLogLen)),
	)

	raw, err := g.oracle.Complete(ctx, system, []oracle.Message{
		{Role: oracle.RoleUser, Content: content},
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	g.logger.Debug("question generation response",
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	var data map[string]any
	if err := llmjson.Decode(raw, &data); err != nil {
		return nil, &ProtocolError{Stage: "question generation", Raw: raw, Err: err}
	}

	for _, key := range []string{"topic", "question", "answer"} {
		if _, ok := data[key]; !ok {
			return nil, &ProtocolError{
				Stage: "question generation",
				Raw:   raw,
				Err:   fmt.Errorf("missing %q field", key),
			}
		}
	}

	var question Question
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &question,
	})
	if err == nil {
		err = decoder.Decode(data)
	}
	if err != nil {
		return nil, &ProtocolError{Stage: "question generation", Raw: raw, Err: err}
	}

	if question.Topic == "" || !profile.HasTopic(question.Topic) {
		question.Topic = profile.Topics[0]
	}
	if question.Difficulty == 0 {
		question.Difficulty = state.Difficulty
	}

	return &question, nil
}
