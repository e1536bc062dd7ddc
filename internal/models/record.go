// ABOUTME: KnowledgeRecord is a validated, immutable knowledge base entry
// ABOUTME: Handles coercion of loose input shapes into the canonical schema
package models

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Source describes where a knowledge record's answer comes from.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Record is a normalized knowledge base entry. Fields are populated once
// during validation and never mutated afterwards.
type Record struct {
	ID               string   `json:"id"`
	Topic            string   `json:"topic"`
	Question         string   `json:"question"`
	Answer           string   `json:"answer"`
	Summary          string   `json:"summary,omitempty"`
	Problem          string   `json:"problem,omitempty"`
	Steps            []string `json:"steps,omitempty"`
	Docs             []string `json:"docs,omitempty"`
	LawRefsText      string   `json:"law_refs_text,omitempty"`
	LawRefsNorm      []string `json:"law_refs_norm,omitempty"`
	Sources          []Source `json:"sources,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	RelatedQuestions []string `json:"related_questions,omitempty"`
}

// ValidationError reports an invalid raw record. Index is 1-based to match
// row numbering in source files; Field names the offending field when known.
type ValidationError struct {
	Index int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index > 0 && e.Field != "" {
		return fmt.Sprintf("invalid knowledge record at index %d: field %q: %s", e.Index, e.Field, e.Msg)
	}
	if e.Index > 0 {
		return fmt.Sprintf("invalid knowledge record at index %d: %s", e.Index, e.Msg)
	}
	if e.Field != "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Msg)
	}
	return e.Msg
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText collapses runs of whitespace to single spaces and trims.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

var listSplitRe = regexp.MustCompile(`[\n;]+`)

// SplitList breaks a delimited string on newlines and semicolons,
// normalizing each part and dropping empties.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, part := range listSplitRe.Split(value, -1) {
		normalized := NormalizeText(part)
		if normalized != "" {
			parts = append(parts, normalized)
		}
	}
	return parts
}

// coerceString accepts strings and numbers; everything else is rejected.
// JSON decoding hands numbers over as float64.
func coerceString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", value)
	}
}

// NormalizeID coerces a raw id value into its canonical string form.
// Float-valued integers collapse to the integer string ("1.0" -> "1").
func NormalizeID(value any) (string, error) {
	if value == nil {
		return "", fmt.Errorf("id is required")
	}
	s, err := coerceString(value)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("id must not be empty")
	}
	if numeric, parseErr := strconv.ParseFloat(s, 64); parseErr == nil && numeric == math.Trunc(numeric) && !math.IsInf(numeric, 0) {
		return strconv.FormatInt(int64(numeric), 10), nil
	}
	return s, nil
}

func requiredField(raw map[string]any, field string) (string, error) {
	value, ok := raw[field]
	if !ok || value == nil {
		return "", fmt.Errorf("%s is required", field)
	}
	s, err := coerceString(value)
	if err != nil {
		return "", err
	}
	normalized := NormalizeText(s)
	if normalized == "" {
		return "", fmt.Errorf("%s must not be empty", field)
	}
	return normalized, nil
}

func optionalField(raw map[string]any, field string) (string, error) {
	value, ok := raw[field]
	if !ok || value == nil {
		return "", nil
	}
	s, err := coerceString(value)
	if err != nil {
		return "", err
	}
	return NormalizeText(s), nil
}

// stringList accepts either a delimited string or a sequence of
// string-coercible items, producing normalized, deduplicated entries.
// Deduplication is case-insensitive with first occurrence winning.
func stringList(value any) ([]string, error) {
	if value == nil {
		return nil, nil
	}
	var items []string
	switch v := value.(type) {
	case string:
		items = SplitList(v)
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			s, err := coerceString(item)
			if err != nil {
				return nil, fmt.Errorf("list items must be strings: %w", err)
			}
			normalized := NormalizeText(s)
			if normalized != "" {
				items = append(items, normalized)
			}
		}
	case []string:
		for _, item := range v {
			normalized := NormalizeText(item)
			if normalized != "" {
				items = append(items, normalized)
			}
		}
	default:
		return nil, fmt.Errorf("expected a string or a list of strings, got %T", value)
	}
	return dedupeFold(items), nil
}

func dedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var unique []string
	for _, item := range items {
		lowered := strings.ToLower(item)
		if _, ok := seen[lowered]; ok {
			continue
		}
		seen[lowered] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// parseSource coerces a bare string or a {title, url} object into a Source.
func parseSource(value any) (Source, error) {
	switch v := value.(type) {
	case string:
		title := NormalizeText(v)
		if title == "" {
			return Source{}, fmt.Errorf("source title must not be empty")
		}
		return Source{Title: title}, nil
	case map[string]any:
		rawTitle, ok := v["title"]
		if !ok || rawTitle == nil {
			return Source{}, fmt.Errorf("source title must not be empty")
		}
		titleStr, err := coerceString(rawTitle)
		if err != nil {
			return Source{}, fmt.Errorf("source title must be a string: %w", err)
		}
		title := NormalizeText(titleStr)
		if title == "" {
			return Source{}, fmt.Errorf("source title must not be empty")
		}
		src := Source{Title: title}
		if rawURL, ok := v["url"]; ok && rawURL != nil {
			urlStr, err := coerceString(rawURL)
			if err != nil {
				return Source{}, fmt.Errorf("source url must be a string: %w", err)
			}
			urlStr = strings.TrimSpace(urlStr)
			if urlStr != "" {
				if err := checkURL(urlStr); err != nil {
					return Source{}, err
				}
				src.URL = urlStr
			}
		}
		return src, nil
	default:
		return Source{}, fmt.Errorf("source must be a string or an object, got %T", value)
	}
}

func checkURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed url %q: %v", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("malformed url %q: scheme must be http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("malformed url %q: missing host", raw)
	}
	return nil
}

// sourceList coerces the accepted source shapes: a single object, a bare
// string, or a list of either.
func sourceList(value any) ([]Source, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case string, map[string]any:
		src, err := parseSource(v)
		if err != nil {
			return nil, err
		}
		return []Source{src}, nil
	case []any:
		var sources []Source
		for _, item := range v {
			if item == nil {
				continue
			}
			src, err := parseSource(item)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}
		return sources, nil
	default:
		return nil, fmt.Errorf("sources must be provided as a list, got %T", value)
	}
}

// NewRecord validates and normalizes a single raw record.
func NewRecord(raw map[string]any) (Record, error) {
	var rec Record

	id, err := NormalizeID(raw["id"])
	if err != nil {
		return rec, &ValidationError{Field: "id", Msg: err.Error()}
	}
	rec.ID = id

	for _, field := range []string{"topic", "question", "answer"} {
		value, err := requiredField(raw, field)
		if err != nil {
			return rec, &ValidationError{Field: field, Msg: err.Error()}
		}
		switch field {
		case "topic":
			rec.Topic = value
		case "question":
			rec.Question = value
		case "answer":
			rec.Answer = value
		}
	}

	if rec.Summary, err = optionalField(raw, "summary"); err != nil {
		return rec, &ValidationError{Field: "summary", Msg: err.Error()}
	}
	if rec.Problem, err = optionalField(raw, "problem"); err != nil {
		return rec, &ValidationError{Field: "problem", Msg: err.Error()}
	}
	if rec.LawRefsText, err = optionalField(raw, "law_refs_text"); err != nil {
		return rec, &ValidationError{Field: "law_refs_text", Msg: err.Error()}
	}

	lists := []struct {
		field  string
		target *[]string
	}{
		{"steps", &rec.Steps},
		{"docs", &rec.Docs},
		{"law_refs_norm", &rec.LawRefsNorm},
		{"tags", &rec.Tags},
		{"related_questions", &rec.RelatedQuestions},
	}
	for _, l := range lists {
		items, err := stringList(raw[l.field])
		if err != nil {
			return rec, &ValidationError{Field: l.field, Msg: err.Error()}
		}
		*l.target = items
	}

	if rec.Sources, err = sourceList(raw["sources"]); err != nil {
		return rec, &ValidationError{Field: "sources", Msg: err.Error()}
	}

	return rec, nil
}

// SearchText builds the flattened string retrieval scores against:
// topic | question | answer | extras, each fragment whitespace-normalized
// and empty fragments skipped.
func (r Record) SearchText() string {
	sourceTitles := make([]string, 0, len(r.Sources))
	for _, src := range r.Sources {
		sourceTitles = append(sourceTitles, src.Title)
	}
	fragments := []string{
		r.Topic,
		r.Question,
		r.Answer,
		strings.Join(r.Steps, " "),
		strings.Join(r.Docs, " "),
		r.LawRefsText,
		strings.Join(r.LawRefsNorm, " "),
		strings.Join(sourceTitles, " "),
	}
	var cleaned []string
	for _, fragment := range fragments {
		normalized := NormalizeText(fragment)
		if normalized != "" {
			cleaned = append(cleaned, normalized)
		}
	}
	return strings.Join(cleaned, " | ")
}

// ValidateRecords validates a batch of raw records. Construction is atomic:
// any invalid record or repeated id fails the whole batch.
func ValidateRecords(data []map[string]any) ([]Record, error) {
	records := make([]Record, 0, len(data))
	seen := make(map[string]struct{}, len(data))
	for i, item := range data {
		rec, err := NewRecord(item)
		if err != nil {
			if verr, ok := err.(*ValidationError); ok {
				verr.Index = i + 1
				return nil, verr
			}
			return nil, &ValidationError{Index: i + 1, Msg: err.Error()}
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, &ValidationError{Index: i + 1, Field: "id", Msg: fmt.Sprintf("duplicate knowledge record id detected: %s", rec.ID)}
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}
	return records, nil
}
