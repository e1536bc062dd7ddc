// ABOUTME: Normalizes responses into canonical named sections
// ABOUTME: Reflow-and-drop-empty policy: fixed order, empty sections removed
package answer

import "strings"

// Canonical section headers in their fixed output order.
var canonicalSections = []string{
	"Суть ситуации",
	"Что нужно уточнить",
	"Рекомендации",
	"Возможные решения",
	"Правовые основания",
	"Предупреждения и ограничения",
}

// NormalizeSections reflows detected canonical sections into the fixed
// order, dropping sections left empty. Text before the first detected
// header is kept as a preamble. Responses with no detected headers pass
// through untouched.
func NormalizeSections(text string) string {
	lines := strings.Split(text, "\n")

	sections := make(map[int][]string, len(canonicalSections))
	var preamble []string
	current := -1
	detected := false

	for _, line := range lines {
		if idx := sectionIndex(line); idx >= 0 {
			detected = true
			current = idx
			continue
		}
		if current >= 0 {
			sections[current] = append(sections[current], line)
		} else {
			preamble = append(preamble, line)
		}
	}

	if !detected {
		return text
	}

	var parts []string
	if head := strings.TrimSpace(strings.Join(preamble, "\n")); head != "" {
		parts = append(parts, head)
	}
	for i, header := range canonicalSections {
		body := strings.TrimSpace(strings.Join(sections[i], "\n"))
		if body == "" {
			continue
		}
		parts = append(parts, header+":\n"+body)
	}
	return strings.Join(parts, "\n\n")
}

// sectionIndex reports which canonical header a line is, or -1.
// Matching is case-insensitive and tolerates a trailing colon.
func sectionIndex(line string) int {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSuffix(trimmed, ":")
	if trimmed == "" {
		return -1
	}
	for i, header := range canonicalSections {
		if strings.EqualFold(trimmed, header) {
			return i
		}
	}
	return -1
}
