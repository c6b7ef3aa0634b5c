// Package interview implements the adaptive question/evaluation loop: profile
// inference, answer classification, difficulty adjustment and report
// synthesis for a single interview session.
package interview

// Outcome classifies a candidate answer.
type Outcome string

const (
	OutcomeCorrect       Outcome = "correct"
	OutcomePartial       Outcome = "partial"
	OutcomeIncorrect     Outcome = "incorrect"
	OutcomeOffTopic      Outcome = "off_topic"
	OutcomeHallucination Outcome = "hallucination"
	OutcomeRoleReversal  Outcome = "role_reversal"
)

// Scored reports whether the outcome participates in scoring and difficulty
// adjustment.
func (o Outcome) Scored() bool {
	return o == OutcomeCorrect || o == OutcomePartial || o == OutcomeIncorrect
}

// Known reports whether o is one of the defined outcomes.
func (o Outcome) Known() bool {
	switch o {
	case OutcomeCorrect, OutcomePartial, OutcomeIncorrect,
		OutcomeOffTopic, OutcomeHallucination, OutcomeRoleReversal:
		return true
	default:
		return false
	}
}

// Grade labels.
const (
	GradeJunior = "Junior"
	GradeMiddle = "Middle"
	GradeSenior = "Senior"
)

// Difficulty bounds for generated questions.
const (
	MinDifficulty = 1
	MaxDifficulty = 3
)

// CandidateProfile is inferred once from the candidate's introductory answer.
type CandidateProfile struct {
	Position string
	Topics   []string
	Grade    string
}

// HasTopic reports whether topic belongs to the profile's topic list.
func (p *CandidateProfile) HasTopic(topic string) bool {
	for _, t := range p.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Question is produced by the Generator and read-only once issued.
type Question struct {
	Topic      string `mapstructure:"topic"`
	Difficulty int    `mapstructure:"difficulty"`
	Text       string `mapstructure:"question"`
	Answer     string `mapstructure:"answer"`
}

// Evaluation is the immutable result of classifying one answer.
type Evaluation struct {
	Outcome       Outcome
	Reason        string
	Confidence    int
	CorrectAnswer string
	Topics        []string
}

// TurnRecord is the session's evaluation-log entry for one answered question.
type TurnRecord struct {
	Question      string
	Topic         string
	Answer        string
	Outcome       Outcome
	Reason        string
	CorrectAnswer string
	Difficulty    int
	Confidence    int
}

// recentTurnLimit bounds the ring of turns kept as steering context.
const recentTurnLimit = 6

// RecentTurn is one entry of the bounded steering-context ring.
type RecentTurn struct {
	Question string
	Topic    string
	Answer   string
	Outcome  Outcome
}

// State carries the adaptive interviewer state. It is owned by a single
// session and is not safe for concurrent use.
type State struct {
	Difficulty       int
	PerformanceScore int
	LastOutcome      Outcome
	Recent           []RecentTurn
	Asked            []*Question
}

func NewState() *State {
	return &State{Difficulty: MinDifficulty}
}

// RecordTurn appends to the bounded recent-turn ring.
func (s *State) RecordTurn(question *Question, answer string, eval *Evaluation) {
	s.Recent = append(s.Recent, RecentTurn{
		Question: question.Text,
		Topic:    question.Topic,
		Answer:   answer,
		Outcome:  eval.Outcome,
	})
	if len(s.Recent) > recentTurnLimit {
		s.Recent = s.Recent[len(s.Recent)-recentTurnLimit:]
	}
}

// RecordAsked retains an issued question for anti-repetition context.
func (s *State) RecordAsked(question *Question) {
	s.Asked = append(s.Asked, question)
}

// Apply records the outcome and runs the difficulty policy against the state.
func (s *State) Apply(outcome Outcome) {
	s.LastOutcome = outcome
	s.PerformanceScore, s.Difficulty = Advance(s.PerformanceScore, s.Difficulty, outcome)
}

// tail returns the last n elements of s.
func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
