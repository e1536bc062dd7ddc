// ABOUTME: Renders retrieved hits into a model-readable context block
// ABOUTME: One block per hit, joined by a fixed separator line
package knowledge

import (
	"fmt"
	"strings"
)

const blockSeparator = "\n---\n"

// FormatHits renders hits into the context text handed to the model.
// An empty hit sequence renders to an empty string; substituting the
// "no context found" sentinel is the caller's job.
func FormatHits(hits []Hit) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		blocks = append(blocks, formatHit(hit))
	}
	return strings.Join(blocks, blockSeparator)
}

func formatHit(hit Hit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[ID:%s] Тема: %s\n", hit.ID, hit.Topic)
	fmt.Fprintf(&sb, "Вопрос: %s\n", hit.Question)
	fmt.Fprintf(&sb, "Ответ: %s\n", hit.Answer)

	sb.WriteString("Шаги:\n")
	sb.WriteString(bullets(hit.Steps))
	sb.WriteString("Документы:\n")
	sb.WriteString(bullets(hit.Docs))

	lawRefs := strings.Join(hit.LawRefsNorm, ", ")
	if lawRefs == "" {
		lawRefs = hit.LawRefsText
	}
	if lawRefs == "" {
		lawRefs = "-"
	}
	fmt.Fprintf(&sb, "Правовые ссылки: %s\n", lawRefs)

	sb.WriteString("Источники:\n")
	if len(hit.Sources) == 0 {
		sb.WriteString("-\n")
	} else {
		for _, src := range hit.Sources {
			if src.URL != "" {
				fmt.Fprintf(&sb, "- %s (%s)\n", src.Title, src.URL)
			} else {
				fmt.Fprintf(&sb, "- %s\n", src.Title)
			}
		}
	}

	fmt.Fprintf(&sb, "(релевантность: %d)\n", hit.Score)
	return sb.String()
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "-\n"
	}
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s\n", item)
	}
	return sb.String()
}
