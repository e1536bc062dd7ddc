// ABOUTME: Loads the knowledge corpus from canonical JSON or legacy CSV
// ABOUTME: Fail-fast construction: no partial corpus survives a bad record
package knowledge

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"legalbot/internal/models"
)

// Base is a validated, read-only knowledge corpus with precomputed
// search strings. Loaded once per process; refreshing means reloading.
type Base struct {
	records []models.Record
	corpus  []string
}

// Load reads a corpus from path. JSON files take the strict validation
// path; anything else is treated as the legacy CSV format.
func Load(path string) (*Base, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat knowledge base: %w", err)
	}

	var raws []map[string]any
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		raws, err = readJSON(path)
	} else {
		raws, err = readLegacyCSV(path)
	}
	if err != nil {
		return nil, err
	}

	records, err := models.ValidateRecords(raws)
	if err != nil {
		return nil, err
	}

	corpus := make([]string, len(records))
	for i, rec := range records {
		corpus[i] = rec.SearchText()
	}
	return &Base{records: records, corpus: corpus}, nil
}

// NewBase builds a corpus from already-validated records. Used by tests
// and the migration CLI.
func NewBase(records []models.Record) *Base {
	corpus := make([]string, len(records))
	for i, rec := range records {
		corpus[i] = rec.SearchText()
	}
	return &Base{records: records, corpus: corpus}
}

// Len reports the number of records in the corpus.
func (b *Base) Len() int {
	return len(b.records)
}

// Records returns a copy of the validated record set.
func (b *Base) Records() []models.Record {
	out := make([]models.Record, len(b.records))
	copy(out, b.records)
	return out
}

func readJSON(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	data = stripBOM(data)

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	var items []any
	switch v := root.(type) {
	case []any:
		items = v
	case map[string]any:
		if list, ok := v["records"].([]any); ok {
			items = list
		} else if list, ok := v["data"].([]any); ok {
			items = list
		} else {
			return nil, &FormatError{Path: path, Reason: "object root must expose a records or data array"}
		}
	default:
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("root must be a list or an object, got %T", root)}
	}

	raws := make([]map[string]any, 0, len(items))
	for i, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			return nil, &models.ValidationError{Index: i + 1, Msg: fmt.Sprintf("record must be an object, got %T", item)}
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// Legacy CSV columns. Header matching is BOM-tolerant and
// case/whitespace-insensitive.
const (
	colID       = "id"
	colTopic    = "topic"
	colQuestion = "question"
	colAnswer   = "answer"
	colLawRefs  = "law_refs"
	colURL      = "url"
)

const defaultLegacyTopic = "Нормативные акты"

func readLegacyCSV(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &FormatError{Path: path, Reason: fmt.Sprintf("invalid CSV: %v", err)}
	}
	if len(rows) == 0 {
		return nil, &FormatError{Path: path, Reason: "missing header row"}
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if normalized != "" {
			columns[normalized] = i
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	raws := make([]map[string]any, 0, len(rows)-1)
	for rowNum, row := range rows[1:] {
		raw := map[string]any{}

		// Legacy data is looser than the JSON path: blank ids get an
		// auto-assigned placeholder instead of failing validation.
		id := cell(row, colID)
		if id == "" {
			id = fmt.Sprintf("auto_%d", rowNum+1)
		}
		raw["id"] = id

		topic := cell(row, colTopic)
		if topic == "" {
			topic = defaultLegacyTopic
		}
		raw["topic"] = topic
		raw["question"] = cell(row, colQuestion)
		raw["answer"] = cell(row, colAnswer)

		if lawRefs := cell(row, colLawRefs); lawRefs != "" {
			raw["law_refs_text"] = lawRefs
			norm := models.SplitList(lawRefs)
			items := make([]any, len(norm))
			for i, item := range norm {
				items[i] = item
			}
			raw["law_refs_norm"] = items
		}

		if sources := parseLegacySources(cell(row, colURL)); len(sources) > 0 {
			raw["sources"] = sources
		}

		raws = append(raws, raw)
	}
	return raws, nil
}

var legacyURLRe = regexp.MustCompile(`(?i)https?://[^\s,]+`)

// parseLegacySources splits a free-form url cell into source objects:
// every URL becomes a source titled by its host, and leftover text
// fragments become title-only sources.
func parseLegacySources(raw string) []any {
	if raw == "" {
		return nil
	}

	var sources []any
	titles := make(map[string]struct{})
	consumed := make(map[string]struct{})

	for _, match := range legacyURLRe.FindAllString(raw, -1) {
		cleaned := strings.TrimRight(match, ").")
		if _, ok := consumed[cleaned]; ok {
			continue
		}
		consumed[cleaned] = struct{}{}
		title := cleaned
		if parsed, err := url.Parse(cleaned); err == nil && parsed.Host != "" {
			title = parsed.Host
		}
		titles[strings.ToLower(title)] = struct{}{}
		sources = append(sources, map[string]any{"title": title, "url": cleaned})
	}

	withoutURLs := legacyURLRe.ReplaceAllString(raw, "")
	for _, fragment := range models.SplitList(withoutURLs) {
		if _, ok := titles[strings.ToLower(fragment)]; ok {
			continue
		}
		titles[strings.ToLower(fragment)] = struct{}{}
		sources = append(sources, map[string]any{"title": fragment})
	}
	return sources
}

func stripBOM(data []byte) []byte {
	return []byte(strings.TrimPrefix(string(data), "\ufeff"))
}
