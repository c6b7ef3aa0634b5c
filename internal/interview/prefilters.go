package interview

import (
	"regexp"
	"strings"
)

// prefilterConfidence is assigned to every deterministic verdict: a local
// pattern match is treated as higher-confidence evidence than the oracle's
// own judgment.
const prefilterConfidence = 90

// prefilter is a deterministic local check applied to an answer before the
// oracle is consulted. A nil result passes the answer to the next step.
type prefilter interface {
	Name() string
	Apply(question *Question, answer string) *Evaluation
}

// prefilters run in order; earlier filters take precedence.
var prefilters = []prefilter{
	&roleReversalFilter{},
	&offTopicFilter{},
	&fabricationFilter{},
}

var interrogativeLeads = []string{
	"что", "как", "когда", "зачем", "почему", "какой", "какие", "кто", "сколько",
}

type roleReversalFilter struct{}

func (f *roleReversalFilter) Name() string { return "role_reversal" }

func (f *roleReversalFilter) Apply(question *Question, answer string) *Evaluation {
	if !strings.Contains(answer, "?") {
		return nil
	}

	stripped := strings.ToLower(strings.TrimSpace(answer))
	matched := strings.HasSuffix(stripped, "?")
	for _, lead := range interrogativeLeads {
		if matched {
			break
		}
		if strings.HasPrefix(stripped, lead) {
			matched = true
		}
	}
	if !matched {
		return nil
	}

	return &Evaluation{
		Outcome:       OutcomeRoleReversal,
		Reason:        "Кандидат задал встречный вопрос. Нужно ответить и продолжить интервью.",
		Confidence:    prefilterConfidence,
		CorrectAnswer: question.Answer,
		Topics:        []string{},
	}
}

var offTopicKeywords = []string{
	"погода", "weather", "кошка", "собака", "ха ха", "не по теме",
}

type offTopicFilter struct{}

func (f *offTopicFilter) Name() string { return "off_topic" }

func (f *offTopicFilter) Apply(question *Question, answer string) *Evaluation {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	for _, keyword := range offTopicKeywords {
		if strings.Contains(normalized, keyword) {
			return &Evaluation{
				Outcome:       OutcomeOffTopic,
				Reason:        "Ответ не относится к заданному техническому вопросу.",
				Confidence:    prefilterConfidence,
				CorrectAnswer: question.Answer,
				Topics:        []string{},
			}
		}
	}

	return nil
}

var fabricationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`python\s*4\.0`),
	regexp.MustCompile(`уберут\s+циклы`),
	regexp.MustCompile(`нейронные\s+связи`),
	regexp.MustCompile(`magic is real`),
}

type fabricationFilter struct{}

func (f *fabricationFilter) Name() string { return "fabrication" }

func (f *fabricationFilter) Apply(question *Question, answer string) *Evaluation {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	for _, pattern := range fabricationPatterns {
		if pattern.MatchString(normalized) {
			return &Evaluation{
				Outcome:       OutcomeHallucination,
				Reason:        "Ответ содержит ложные утверждения, не подтверждённые фактом.",
				Confidence:    prefilterConfidence,
				CorrectAnswer: question.Answer,
				Topics:        []string{},
			}
		}
	}

	return nil
}
