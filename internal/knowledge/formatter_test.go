// ABOUTME: Tests for context block formatting
// ABOUTME: Verifies the [ID:..] marker, placeholders, and separators
package knowledge

import (
	"strings"
	"testing"

	"legalbot/internal/models"
)

func TestFormatHitContainsIDMarker(t *testing.T) {
	hits := []Hit{
		{
			Record: models.Record{
				ID:       "42",
				Topic:    "Аренда",
				Question: "Как сдать квартиру?",
				Answer:   "Заключите договор.",
			},
			Score: 87,
		},
	}
	text := FormatHits(hits)
	if !strings.Contains(text, "[ID:42]") {
		t.Errorf("formatted block must contain [ID:42]:\n%s", text)
	}
	if !strings.Contains(text, "(релевантность: 87)") {
		t.Errorf("formatted block must contain the score:\n%s", text)
	}
}

func TestFormatHitFields(t *testing.T) {
	hit := Hit{
		Record: models.Record{
			ID:          "1",
			Topic:       "Аренда",
			Question:    "Вопрос",
			Answer:      "Ответ",
			Steps:       []string{"Первый шаг", "Второй шаг"},
			Docs:        []string{"Паспорт"},
			LawRefsNorm: []string{"ГК РФ ст. 671", "ЖК РФ ст. 30"},
			Sources: []models.Source{
				{Title: "Росреестр", URL: "https://rosreestr.gov.ru"},
				{Title: "Консультант"},
			},
		},
		Score: 90,
	}
	text := FormatHits([]Hit{hit})

	for _, want := range []string{
		"- Первый шаг",
		"- Второй шаг",
		"- Паспорт",
		"Правовые ссылки: ГК РФ ст. 671, ЖК РФ ст. 30",
		"- Росреестр (https://rosreestr.gov.ru)",
		"- Консультант",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestFormatHitEmptyListsUsePlaceholder(t *testing.T) {
	hit := Hit{
		Record: models.Record{ID: "1", Topic: "t", Question: "q", Answer: "a", LawRefsText: "ГК РФ гл. 35"},
		Score:  10,
	}
	text := FormatHits([]Hit{hit})
	if !strings.Contains(text, "Шаги:\n-\n") {
		t.Errorf("empty steps must render a placeholder:\n%s", text)
	}
	if !strings.Contains(text, "Правовые ссылки: ГК РФ гл. 35") {
		t.Errorf("law refs must fall back to the raw text:\n%s", text)
	}
}

func TestFormatHitsSeparator(t *testing.T) {
	hits := []Hit{
		{Record: models.Record{ID: "1", Topic: "t", Question: "q", Answer: "a"}},
		{Record: models.Record{ID: "2", Topic: "t", Question: "q", Answer: "a"}},
	}
	text := FormatHits(hits)
	if strings.Count(text, "\n---\n") != 1 {
		t.Errorf("two blocks must be joined by one separator:\n%s", text)
	}
}

func TestFormatHitsEmpty(t *testing.T) {
	if got := FormatHits(nil); got != "" {
		t.Errorf("FormatHits(nil) = %q, want empty; the no-context sentinel is the caller's job", got)
	}
}
