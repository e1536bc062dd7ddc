// ABOUTME: Fuzzy top-k retrieval over the knowledge corpus
// ABOUTME: Weighted lexical ratio per record, stable descending order
package knowledge

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"legalbot/internal/models"
)

// Hit is a knowledge record annotated with a relevance score in [0, 100].
type Hit struct {
	models.Record
	Score int
}

// Query scores text against every record's search string and returns up
// to topK hits ordered by descending score. Ties keep corpus order.
// Empty or whitespace-only text is a valid no-op and returns nil.
// The corpus is small enough that a full scan per call is fine; request
// latency is dominated by the model call anyway.
func (b *Base) Query(text string, topK int) []Hit {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if topK < 1 {
		topK = 1
	}

	hits := make([]Hit, len(b.records))
	for i, rec := range b.records {
		hits[i] = Hit{Record: rec, Score: fuzzy.WRatio(text, b.corpus[i])}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
