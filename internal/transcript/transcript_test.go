package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	log := New("Иван")
	log.LogTurn(1, "Вопрос 1: Расскажите о себе.", "Я разработчик.", "[Observer]: Профиль определён.")
	log.LogTurn(2, "Вопрос 2: Что такое канал?", "Очередь для горутин.", "[Observer]: Ответ верный.")
	log.SetFinalFeedback("Позиция: Backend Developer")

	path := filepath.Join(t.TempDir(), "interview_log.json")
	if err := log.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loaded.ParticipantName != "Иван" {
		t.Fatalf("unexpected participant: %q", loaded.ParticipantName)
	}

	if len(loaded.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(loaded.Turns))
	}

	if loaded.Turns[0].TurnID != 1 || loaded.Turns[0].UserMessage != "Я разработчик." {
		t.Fatalf("unexpected first turn: %+v", loaded.Turns[0])
	}

	if loaded.FinalFeedback == nil || *loaded.FinalFeedback != "Позиция: Backend Developer" {
		t.Fatal("expected final feedback to survive the round trip")
	}
}

func TestSaveKeepsCyrillicReadable(t *testing.T) {
	log := New("Мария")
	log.LogTurn(1, "Вопрос", "Ответ", "Заметка")

	path := filepath.Join(t.TempDir(), "log.json")
	if err := log.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "Мария") {
		t.Fatalf("expected raw cyrillic in output, got: %s", content)
	}

	if strings.Contains(content, `\u0`) {
		t.Fatalf("expected no unicode escapes, got: %s", content)
	}

	if !strings.Contains(content, "\"final_feedback\": null") {
		t.Fatalf("expected explicit null feedback, got: %s", content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
