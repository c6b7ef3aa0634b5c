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

// fallbackTopic keeps the topic list non-empty when nothing was extracted.
const fallbackTopic = "основы инженерии ПО"

// Profiler infers the candidate profile from the introductory answer.
type Profiler struct {
	oracle    oracle.Completer
	logger    *zap.Logger
	maxLogLen int
}

func NewProfiler(completer oracle.Completer, logger *zap.Logger, maxLogLength int) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Profiler{
		oracle:    completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

type profilePayload struct {
	Position string `mapstructure:"position"`
	Topics   any    `mapstructure:"topics"`
	Grade    string `mapstructure:"grade"`
}

// Infer extracts position, topics and grade from the intro answer. Parse
// failures are recovered with fixed defaults; only transport errors are
// returned.
func (p *Profiler) Infer(ctx context.Context, introAnswer string) (*CandidateProfile, error) {
	raw, err := p.oracle.Complete(ctx, profileSystemPrompt, []oracle.Message{
		{Role: oracle.RoleUser, Content: "Ответ кандидата: " + introAnswer},
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("profile inference: %w", err)
	}

	var data map[string]any
	if err := llmjson.Decode(raw, &data); err != nil {
		p.logger.Warn("profile response is not valid json, using defaults",
			zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
			zap.Error(err),
		)
		data = map[string]any{}
	}

	var payload profilePayload
	if err := mapstructure.Decode(data, &payload); err != nil {
		payload = profilePayload{}
	}

	profile := &CandidateProfile{
		Position: strings.TrimSpace(payload.Position),
		Topics:   normalizeTopics(payload.Topics),
		Grade:    strings.TrimSpace(payload.Grade),
	}

	if len(profile.Topics) == 0 {
		profile.Topics = []string{fallbackTopic}
	}
	if profile.Grade == "" {
		profile.Grade = GradeJunior
	}

	return profile, nil
}

// normalizeTopics accepts a list of strings or a comma-joined string, trims
// entries and deduplicates them preserving order.
func normalizeTopics(v any) []string {
	var raw []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = val
	case string:
		raw = strings.Split(val, ",")
	}

	seen := make(map[string]struct{}, len(raw))
	topics := make([]string, 0, len(raw))
	for _, topic := range raw {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	return topics
}

// GradeToDifficulty maps a grade label to the starting difficulty level.
// Russian spellings are accepted alongside the English ones.
func GradeToDifficulty(grade string) int {
	g := strings.ToLower(strings.TrimSpace(grade))
	switch {
	case strings.HasPrefix(g, "junior"), strings.HasPrefix(g, "джун"):
		return 1
	case strings.HasPrefix(g, "middle"), strings.HasPrefix(g, "мид"):
		return 2
	case strings.HasPrefix(g, "senior"), strings.HasPrefix(g, "сеньор"):
		return 3
	default:
		return 1
	}
}
