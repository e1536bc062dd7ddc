// ABOUTME: Tests for fuzzy top-k retrieval over the corpus
// ABOUTME: Covers score bounds, blank queries, and ranking scenarios
package knowledge

import (
	"testing"

	"legalbot/internal/models"
)

func testBase(t *testing.T) *Base {
	t.Helper()
	records, err := models.ValidateRecords([]map[string]any{
		{
			"id":       "rent",
			"topic":    "Аренда",
			"question": "Как оформить аренду квартиры?",
			"answer":   "Заключите письменный договор найма и зафиксируйте условия аренды.",
		},
		{
			"id":       "sale",
			"topic":    "Купля-продажа",
			"question": "Какие документы нужны для продажи квартиры?",
			"answer":   "Подготовьте договор купли-продажи и выписку из ЕГРН.",
		},
		{
			"id":       "registration",
			"topic":    "Регистрация прав",
			"question": "Как зарегистрировать право собственности?",
			"answer":   "Подайте заявление в Росреестр через МФЦ или госуслуги.",
		},
	})
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}
	return NewBase(records)
}

func TestQueryBlankTextIsNoOp(t *testing.T) {
	base := testBase(t)
	for _, text := range []string{"", "   ", "\n\t"} {
		if hits := base.Query(text, 3); hits != nil {
			t.Errorf("Query(%q) = %v, want nil", text, hits)
		}
	}
}

func TestQueryRespectsTopK(t *testing.T) {
	base := testBase(t)
	tests := []struct {
		topK    int
		maxHits int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{10, 3},
		{0, 1},
		{-5, 1},
	}
	for _, tt := range tests {
		hits := base.Query("аренда квартиры", tt.topK)
		if len(hits) > tt.maxHits {
			t.Errorf("Query(topK=%d) returned %d hits, want at most %d", tt.topK, len(hits), tt.maxHits)
		}
	}
}

func TestQueryScoresInRangeAndOrdered(t *testing.T) {
	base := testBase(t)
	hits := base.Query("документы для продажи квартиры", 3)
	if len(hits) == 0 {
		t.Fatal("expected hits")
	}
	for i, hit := range hits {
		if hit.Score < 0 || hit.Score > 100 {
			t.Errorf("hit %d score %d out of [0,100]", i, hit.Score)
		}
		if i > 0 && hits[i-1].Score < hit.Score {
			t.Errorf("hits not in descending order: %d then %d", hits[i-1].Score, hit.Score)
		}
	}
}

func TestQueryRentScenario(t *testing.T) {
	base := testBase(t)
	hits := base.Query("как оформить аренду", 2)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ID != "rent" {
		t.Errorf("top hit = %q, want \"rent\" (score %d)", hits[0].ID, hits[0].Score)
	}
}

func TestQueryStableTies(t *testing.T) {
	records, err := models.ValidateRecords([]map[string]any{
		{"id": "a", "topic": "Одинаковая тема", "question": "Одинаковый вопрос", "answer": "Одинаковый ответ"},
		{"id": "b", "topic": "Одинаковая тема", "question": "Одинаковый вопрос", "answer": "Одинаковый ответ"},
	})
	if err != nil {
		t.Fatalf("ValidateRecords: %v", err)
	}
	base := NewBase(records)
	hits := base.Query("одинаковый вопрос", 2)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Score != hits[1].Score {
		t.Fatalf("expected a tie, got %d and %d", hits[0].Score, hits[1].Score)
	}
	if hits[0].ID != "a" || hits[1].ID != "b" {
		t.Errorf("ties must keep corpus order: got %q then %q", hits[0].ID, hits[1].ID)
	}
}
