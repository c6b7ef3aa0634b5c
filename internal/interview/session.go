package interview

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/oracle"
	"github.com/spigell/interview-coach/internal/transcript"
)

// Terminal is the interactive surface the session talks to the candidate
// through.
type Terminal interface {
	Show(message string)
	ReadAnswer() (string, error)
}

// Params carries the candidate details collected before the session starts.
type Params struct {
	CandidateName string
	Position      string
	Grade         string
	Experience    string
}

// Deps aggregates the collaborators a session needs.
type Deps struct {
	Oracle       oracle.Completer
	Terminal     Terminal
	Logger       *zap.Logger
	MaxLogLength int
}

var stopPhrases = []string{
	"стоп", "стоп интервью", "stop", "stop interview", "стоп игра", "давай фидбэк", "feedback",
}

// Session drives one interview from greeting to final report. It owns all
// mutable state and is not safe for concurrent use.
type Session struct {
	id          string
	profiler    *Profiler
	generator   *Generator
	classifier  *Classifier
	interviewer *Interviewer
	terminal    Terminal
	logger      *zap.Logger

	profile *CandidateProfile
	state   *State
	log     *transcript.Log

	statedPosition   string
	statedGrade      string
	statedExperience string

	turnID      int
	pending     *Question
	evaluations []*TurnRecord
}

func NewSession(params Params, deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	logger = logger.With(zap.String("session_id", id))

	return &Session{
		id:               id,
		profiler:         NewProfiler(deps.Oracle, logger, deps.MaxLogLength),
		generator:        NewGenerator(deps.Oracle, logger, deps.MaxLogLength),
		classifier:       NewClassifier(deps.Oracle, logger, deps.MaxLogLength),
		interviewer:      NewInterviewer(deps.Oracle),
		terminal:         deps.Terminal,
		logger:           logger,
		state:            NewState(),
		log:              transcript.New(params.CandidateName),
		statedPosition:   strings.TrimSpace(params.Position),
		statedGrade:      strings.TrimSpace(params.Grade),
		statedExperience: strings.TrimSpace(params.Experience),
		turnID:           1,
	}
}

func (s *Session) ID() string { return s.id }

// Transcript exposes the session log for persistence.
func (s *Session) Transcript() *transcript.Log { return s.log }

// Run executes the interview loop until a stop phrase and returns the final
// report. Any oracle failure aborts the session: there is no retry at this
// layer and no partial report.
func (s *Session) Run(ctx context.Context) (string, error) {
	s.logger.Debug("candidate intake",
		zap.String("position", s.statedPosition),
		zap.String("grade", s.statedGrade),
		zap.String("experience", s.statedExperience),
	)

	s.terminal.Show(fmt.Sprintf("Привет, %s! Давайте начнем техническое интервью.", s.log.ParticipantName))

	for {
		question, err := s.nextQuestion(ctx)
		if err != nil {
			return "", err
		}

		visible := question.Text
		internalBefore := fmt.Sprintf(
			"[Observer]: Задаём вопрос по теме '%s' сложностью %d. [Interviewer]: Озвучиваю вопрос кандидату.",
			question.Topic, s.state.Difficulty,
		)

		s.terminal.Show(fmt.Sprintf("\nВопрос %d: %s", s.turnID, visible))

		answer, err := s.terminal.ReadAnswer()
		if err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}

		if isStopRequest(answer) {
			s.terminal.Show("Прерываем интервью и формируем отчёт...")
			break
		}

		if s.profile == nil {
			if err := s.handleProfileTurn(ctx, visible, answer, internalBefore); err != nil {
				return "", err
			}
			continue
		}

		if err := s.handleAnswer(ctx, question, visible, answer, internalBefore); err != nil {
			return "", err
		}
	}

	report := Synthesize(s.evaluations, s.profile, s.state, s.statedGrade, s.reportPosition())
	s.log.SetFinalFeedback(report)

	s.logger.Info("session finished",
		zap.Int("turns", len(s.log.Turns)),
		zap.Int("evaluations", len(s.evaluations)),
	)

	return report, nil
}

// nextQuestion prefers a requeued pending question over generation.
func (s *Session) nextQuestion(ctx context.Context) (*Question, error) {
	if s.pending != nil {
		question := s.pending
		s.pending = nil
		return question, nil
	}

	if s.profile == nil {
		return s.generator.IntroQuestion(ctx)
	}

	question, err := s.generator.Next(ctx, s.profile, s.state)
	if err != nil {
		return nil, err
	}
	s.state.RecordAsked(question)

	return question, nil
}

// handleProfileTurn runs the one-shot profile inference on the first answer.
// It is never scored.
func (s *Session) handleProfileTurn(ctx context.Context, visible, answer, internalBefore string) error {
	profile, err := s.profiler.Infer(ctx, answer)
	if err != nil {
		return err
	}

	if profile.Position == "" {
		profile.Position = s.statedPosition
	}
	if profile.Position == "" {
		profile.Position = unknownValue
	}

	s.profile = profile
	s.state.Difficulty = GradeToDifficulty(profile.Grade)

	internal := internalBefore + " " + fmt.Sprintf(
		"[Observer]: Определён профиль кандидата: %s, темы: %s, ориентировочный грейд: %s.",
		profile.Position, strings.Join(profile.Topics, ", "), profile.Grade,
	)
	s.log.LogTurn(s.turnID, visible, answer, internal)
	s.turnID++

	s.logger.Info("profile inferred",
		zap.String("position", profile.Position),
		zap.Strings("topics", profile.Topics),
		zap.String("grade", profile.Grade),
		zap.Int("difficulty", s.state.Difficulty),
	)

	return nil
}

func (s *Session) handleAnswer(ctx context.Context, question *Question, visible, answer, internalBefore string) error {
	eval, err := s.classifier.Classify(ctx, s.profile, question, answer)
	if err != nil {
		return err
	}

	s.state.RecordTurn(question, answer, eval)

	difficulty := question.Difficulty
	if difficulty == 0 {
		difficulty = s.state.Difficulty
	}
	s.evaluations = append(s.evaluations, &TurnRecord{
		Question:      question.Text,
		Topic:         question.Topic,
		Answer:        answer,
		Outcome:       eval.Outcome,
		Reason:        eval.Reason,
		CorrectAnswer: eval.CorrectAnswer,
		Difficulty:    difficulty,
		Confidence:    eval.Confidence,
	})

	s.state.Apply(eval.Outcome)

	internal := internalBefore + " " + fmt.Sprintf(
		"[Observer]: Ответ классифицирован как %s. Рекомендация: %s вопрос.",
		eval.Outcome, recommendation(eval.Outcome),
	)

	s.logger.Debug("turn evaluated",
		zap.String("outcome", string(eval.Outcome)),
		zap.Int("confidence", eval.Confidence),
		zap.Int("performance_score", s.state.PerformanceScore),
		zap.Int("difficulty", s.state.Difficulty),
	)

	switch eval.Outcome {
	case OutcomeOffTopic, OutcomeHallucination:
		remark := s.interviewer.CorrectiveRemark(eval.Outcome)
		s.terminal.Show(remark)
		s.log.LogTurn(s.turnID, visible+"\n"+remark, answer, internal)
		// Same question again, same turn id.
		s.pending = question
	case OutcomeRoleReversal:
		reply, err := s.interviewer.AnswerCounterQuestion(ctx, answer)
		if err != nil {
			return err
		}
		s.terminal.Show(reply)
		s.log.LogTurn(s.turnID, visible+"\n"+reply, answer, internal)
		s.turnID++
	default:
		ack := s.interviewer.Acknowledge(eval.Outcome)
		s.terminal.Show(ack)
		s.log.LogTurn(s.turnID, visible+"\n"+ack, answer, internal)
		s.turnID++
	}

	return nil
}

func (s *Session) reportPosition() string {
	if s.profile != nil && s.profile.Position != "" {
		return s.profile.Position
	}
	if s.statedPosition != "" {
		return s.statedPosition
	}
	return unknownValue
}

func recommendation(outcome Outcome) string {
	switch outcome {
	case OutcomeCorrect:
		return "усложнить"
	case OutcomeIncorrect, OutcomePartial:
		return "упростить"
	case OutcomeRoleReversal:
		return "ответить кандидату и продолжить"
	default:
		return "повторить"
	}
}

// isStopRequest reports whether the answer asks to end the interview.
// Phrases match case-insensitively on word boundaries.
func isStopRequest(answer string) bool {
	normalized := strings.ToLower(strings.TrimSpace(answer))
	if normalized == "" {
		return false
	}

	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	padded := " " + strings.Join(words, " ") + " "

	for _, phrase := range stopPhrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return true
		}
	}

	return false
}
