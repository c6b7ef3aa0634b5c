package interview

import (
	"fmt"
	"strings"
)

// Confidence display bounds; a session with no scored turns is pinned to the
// lower bound.
const (
	minReportConfidence = 20
	maxReportConfidence = 90
)

var admissionPhrases = []string{"не знаю", "затрудняюсь", "не уверен"}

// Synthesize builds the final structured feedback from the evaluation log.
// It is a pure function: identical inputs always yield identical text.
func Synthesize(evaluations []*TurnRecord, profile *CandidateProfile, state *State, statedGrade, position string) string {
	var scored, confirmed, gaps, hallucinations, offTopic, roleReversal []*TurnRecord
	for _, entry := range evaluations {
		switch entry.Outcome {
		case OutcomeCorrect:
			scored = append(scored, entry)
			confirmed = append(confirmed, entry)
		case OutcomePartial, OutcomeIncorrect:
			scored = append(scored, entry)
			gaps = append(gaps, entry)
		case OutcomeHallucination:
			hallucinations = append(hallucinations, entry)
		case OutcomeOffTopic:
			offTopic = append(offTopic, entry)
		case OutcomeRoleReversal:
			roleReversal = append(roleReversal, entry)
		}
	}

	total := len(scored)

	score := 0.0
	for _, entry := range scored {
		switch entry.Outcome {
		case OutcomeCorrect:
			score++
		case OutcomePartial:
			score += 0.5
		}
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = score / float64(total)
	}

	avgDifficulty := float64(state.Difficulty)
	avgConfidence := 0.0
	if total > 0 {
		difficultySum, confidenceSum := 0, 0
		for _, entry := range scored {
			difficultySum += entry.Difficulty
			confidenceSum += entry.Confidence
		}
		avgDifficulty = float64(difficultySum) / float64(total)
		avgConfidence = float64(confidenceSum) / float64(total)
	}

	grade := GradeJunior
	if statedGrade != "" {
		grade = statedGrade
	}
	if profile != nil && profile.Grade != "" {
		grade = profile.Grade
	}
	if total > 0 {
		switch {
		case avgDifficulty >= 3 && accuracy >= 0.8:
			grade = GradeSenior
		case avgDifficulty >= 2 && accuracy >= 0.65:
			grade = GradeMiddle
		default:
			grade = GradeJunior
		}
	}

	hire := "No Hire"
	switch {
	case total == 0:
		hire = "No Hire"
	case accuracy >= 0.85 && len(hallucinations) == 0:
		hire = "Strong Hire"
	case accuracy >= 0.65 && len(hallucinations) <= 1:
		hire = "Hire"
	}

	// The 0.2 scale on avgConfidence is a tuning constant, not a derived
	// value. Contributions truncate toward zero.
	confidence := 30 + total*5 +
		int(accuracy*50) +
		int((avgDifficulty-1)*10) +
		int(avgConfidence*0.2) -
		len(hallucinations)*10
	if total == 0 {
		confidence = minReportConfidence
	}
	confidence = max(minReportConfidence, min(maxReportConfidence, confidence))

	clarity := "Недостаточно данных"
	if total > 0 {
		words := 0
		for _, entry := range scored {
			words += len(strings.Fields(entry.Answer))
		}
		avgWords := float64(words) / float64(total)
		switch {
		case avgWords >= 20:
			clarity = "Высокая"
		case avgWords >= 8:
			clarity = "Средняя"
		default:
			clarity = "Низкая"
		}
	}

	honesty := "Нейтральная"
	if len(hallucinations) > 0 {
		honesty = "Есть сомнительные/ложные утверждения"
	} else if admittedGaps(gaps) {
		honesty = "Честно признавал незнание"
	}

	engagement := "Нейтральная"
	if len(roleReversal) > 0 {
		engagement = "Задавал встречные вопросы"
	}

	lines := []string{
		fmt.Sprintf("Позиция: %s", position),
		"A. Вердикт",
		fmt.Sprintf("- Грейд: %s", grade),
		fmt.Sprintf("- Рекомендация по найму: %s", hire),
		fmt.Sprintf("- Уверенность: %d%%", confidence),
		"",
		"B. Анализ технических навыков",
		"✅ Подтверждённые навыки:",
	}

	if len(confirmed) > 0 {
		for _, entry := range confirmed {
			lines = append(lines, fmt.Sprintf("- %s: %s", entry.Topic, entry.Question))
		}
	} else {
		lines = append(lines, "- Нет подтверждённых тем.")
	}

	lines = append(lines, "❌ Пробелы в знаниях:")
	if len(gaps) > 0 {
		for _, entry := range gaps {
			lines = append(lines,
				fmt.Sprintf("- %s: %s", entry.Topic, entry.Question),
				fmt.Sprintf("  Правильный ответ: %s", entry.CorrectAnswer),
			)
		}
	} else {
		lines = append(lines, "- Существенных пробелов не выявлено.")
	}

	lines = append(lines,
		"",
		"C. Коммуникация и поведенческие сигналы",
		fmt.Sprintf("- Ясность: %s", clarity),
		fmt.Sprintf("- Честность: %s", honesty),
		fmt.Sprintf("- Вовлечённость: %s", engagement),
	)
	if len(offTopic) > 0 {
		lines = append(lines, "- Уход от темы: были уходы в сторону, интервьюеру приходилось возвращать к вопросу.")
	}

	lines = append(lines, "", "D. План развития")
	if len(gaps) > 0 {
		seen := make(map[string]struct{}, len(gaps))
		for _, entry := range gaps {
			if _, ok := seen[entry.Topic]; ok {
				continue
			}
			seen[entry.Topic] = struct{}{}

			lines = append(lines, fmt.Sprintf("- %s:", entry.Topic))
			if entry.Question != "" {
				lines = append(lines, fmt.Sprintf("  Контрольный вопрос: %s", entry.Question))
			}
			if entry.CorrectAnswer != "" {
				lines = append(lines, fmt.Sprintf("  Что нужно уметь объяснить: %s", entry.CorrectAnswer))
			}
			lines = append(lines,
				"  Практика на 1–2 часа:",
				"  - перечитать конспект/документацию и выписать 10 ключевых терминов",
				"  - решить 3–5 задач или написать мини‑пример кода по теме",
				"  - повторить через день: кратко пересказать тему без подсказок",
			)
		}
	} else {
		lines = append(lines, "- Сохранить темп: усложнять вопросы и углублять сильные темы.")
	}

	return strings.Join(lines, "\n")
}

func admittedGaps(gaps []*TurnRecord) bool {
	for _, entry := range gaps {
		lower := strings.ToLower(entry.Answer)
		for _, phrase := range admissionPhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}
