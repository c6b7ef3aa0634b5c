package interview

import (
	"context"
	"fmt"

	"github.com/spigell/interview-coach/internal/oracle"
)

// Interviewer is the candidate-facing voice of the session.
type Interviewer struct {
	oracle oracle.Completer
}

func NewInterviewer(completer oracle.Completer) *Interviewer {
	return &Interviewer{oracle: completer}
}

// CorrectiveRemark is shown before re-asking the same question.
func (i *Interviewer) CorrectiveRemark(outcome Outcome) string {
	switch outcome {
	case OutcomeOffTopic:
		return "Ваш ответ не связан с вопросом. Давайте вернёмся к теме и попробуем ещё раз."
	case OutcomeHallucination:
		return "Похоже, ответ содержит неправдоподобные утверждения. Пожалуйста, попробуйте дать фактологический ответ."
	default:
		return ""
	}
}

// AnswerCounterQuestion replies to the candidate's counter-question in a
// recruiter persona.
func (i *Interviewer) AnswerCounterQuestion(ctx context.Context, candidateQuestion string) (string, error) {
	reply, err := i.oracle.Complete(ctx, recruiterSystemPrompt, []oracle.Message{
		{Role: oracle.RoleUser, Content: fmt.Sprintf("Вопрос кандидата: %s\nКратко ответьте.", candidateQuestion)},
	}, 0)
	if err != nil {
		return "", fmt.Errorf("recruiter reply: %w", err)
	}

	return reply, nil
}

// Acknowledge returns a short remark for a scored answer.
func (i *Interviewer) Acknowledge(outcome Outcome) string {
	switch outcome {
	case OutcomeCorrect:
		return "Спасибо! Давайте перейдём к следующему вопросу."
	case OutcomePartial:
		return "Ответ частично верный. Продолжим интервью."
	default:
		return "Спасибо за ответ. Перейдём к следующему вопросу."
	}
}
