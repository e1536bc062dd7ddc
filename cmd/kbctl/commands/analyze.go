// ABOUTME: CLI command to compute statistics over the interaction log
// ABOUTME: Infers topics through the knowledge base and flags weak answers
package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"legalbot/internal/knowledge"
)

var (
	analyzeLogPath       string
	analyzeKnowledgePath string
	analyzeTopK          int
	analyzeLowScore      float64
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the interaction log",
		Long: `Summarize the interaction log: volumes, statuses, score statistics,
inferred topics, and questions whose retrieval score fell below the
threshold.

Topic inference loads the knowledge base and asks it for the best
match per distinct question; when the knowledge base cannot be
loaded the analysis proceeds without topics.

Example:
  kbctl analyze --log data/log.csv --knowledge data/knowledge.json`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVar(&analyzeLogPath, "log", "data/log.csv", "Path to the interaction log CSV")
	cmd.Flags().StringVar(&analyzeKnowledgePath, "knowledge", "data/knowledge.json", "Knowledge base used for topic inference")
	cmd.Flags().IntVar(&analyzeTopK, "top-k", 3, "Documents to request per topic inference query")
	cmd.Flags().Float64Var(&analyzeLowScore, "low-score-threshold", 70, "Flag answers whose top score is below this")

	return cmd
}

type logRow struct {
	question string
	topScore float64
	tokens   int
	status   string
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rows, err := readLog(analyzeLogPath)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("log file is empty: %s", analyzeLogPath)
	}

	out := cmd.OutOrStdout()

	var okCount, errCount, totalTokens int
	var scoreSum float64
	var lowScore []logRow
	for _, row := range rows {
		switch row.status {
		case "ok":
			okCount++
		default:
			errCount++
		}
		scoreSum += row.topScore
		totalTokens += row.tokens
		if row.topScore < analyzeLowScore {
			lowScore = append(lowScore, row)
		}
	}

	fmt.Fprintf(out, "Interactions: %d (ok %d, error %d)\n", len(rows), okCount, errCount)
	fmt.Fprintf(out, "Mean top score: %.1f\n", scoreSum/float64(len(rows)))
	fmt.Fprintf(out, "Total answer tokens: %d\n\n", totalTokens)

	printTopics(out, rows)

	if len(lowScore) > 0 {
		fmt.Fprintf(out, "\nWeak answers (top score < %.0f):\n", analyzeLowScore)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tSTATUS\tQUESTION")
		for _, row := range lowScore {
			fmt.Fprintf(w, "%.0f\t%s\t%s\n", row.topScore, row.status, truncate(row.question, 60))
		}
		w.Flush()
	}
	return nil
}

func printTopics(out io.Writer, rows []logRow) {
	topK := analyzeTopK
	if topK <= 0 {
		topK = 1
	}

	base, err := knowledge.Load(analyzeKnowledgePath)
	if err != nil {
		fmt.Fprintf(out, "Topic inference unavailable (%v); proceeding without it.\n", err)
		return
	}

	type inferred struct {
		topic string
		score int
	}
	cache := make(map[string]inferred)
	counts := make(map[string]int)
	for _, row := range rows {
		key := strings.TrimSpace(row.question)
		if key == "" {
			continue
		}
		result, ok := cache[key]
		if !ok {
			hits := base.Query(key, topK)
			if len(hits) > 0 {
				result = inferred{topic: hits[0].Topic, score: hits[0].Score}
			}
			cache[key] = result
		}
		if result.topic != "" {
			counts[result.topic]++
		}
	}

	type topicCount struct {
		topic string
		count int
	}
	ranked := make([]topicCount, 0, len(counts))
	for topic, count := range counts {
		ranked = append(ranked, topicCount{topic, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].topic < ranked[j].topic
	})

	fmt.Fprintf(out, "Inferred topics:\n")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COUNT\tTOPIC")
	for _, tc := range ranked {
		fmt.Fprintf(w, "%d\t%s\n", tc.count, tc.topic)
	}
	w.Flush()
}

func readLog(path string) ([]logRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	rows := make([]logRow, 0, len(records)-1)
	for _, record := range records[1:] {
		score, _ := strconv.ParseFloat(cell(record, "top_score"), 64)
		tokens, _ := strconv.Atoi(cell(record, "tokens"))
		rows = append(rows, logRow{
			question: cell(record, "question"),
			topScore: score,
			tokens:   tokens,
			status:   cell(record, "status"),
		})
	}
	return rows, nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
