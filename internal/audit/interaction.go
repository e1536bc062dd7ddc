// ABOUTME: Append-only CSV audit trail of question/answer exchanges
// ABOUTME: Header written on first write; token counts via tiktoken
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

const answerPreviewLimit = 150

var interactionHeader = []string{
	"timestamp",
	"user_id",
	"username",
	"question",
	"answer_preview",
	"top_score",
	"tokens",
	"model",
	"status",
}

// Interaction is one Q&A exchange to record.
type Interaction struct {
	UserID   int64
	Username string
	Question string
	Answer   string
	TopScore int
	Model    string
	Status   string
}

// InteractionLogger appends interaction rows to a CSV file. Writes are
// serialized by a mutex; the header goes in when the file is empty.
type InteractionLogger struct {
	path string
	mu   sync.Mutex
}

// NewInteractionLogger creates the logger, ensuring the parent directory
// exists.
func NewInteractionLogger(path string) (*InteractionLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &InteractionLogger{path: path}, nil
}

// Log appends one interaction row.
func (l *InteractionLogger) Log(rec Interaction) error {
	row := []string{
		time.Now().Format("2006-01-02 15:04:05"),
		strconv.FormatInt(rec.UserID, 10),
		rec.Username,
		rec.Question,
		answerPreview(rec.Answer),
		strconv.Itoa(rec.TopScore),
		strconv.Itoa(countTokens(rec.Answer, rec.Model)),
		rec.Model,
		rec.Status,
	}
	return l.append(row)
}

func (l *InteractionLogger) append(row []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendCSVRow(l.path, interactionHeader, row)
}

// appendCSVRow opens path for append and writes the row, preceding it
// with the header if the file is empty.
func appendCSVRow(path string, header, row []string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("writing log header: %w", err)
		}
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("writing log row: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// answerPreview truncates to the first answerPreviewLimit characters,
// appending an ellipsis when something was cut. Counts runes, not bytes.
func answerPreview(answer string) string {
	runes := []rune(answer)
	if len(runes) <= answerPreviewLimit {
		return answer
	}
	return string(runes[:answerPreviewLimit]) + "..."
}

// countTokens returns the tiktoken count for the model's encoding,
// falling back to a whitespace word count when the encoding is unknown.
func countTokens(text, model string) int {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return len(strings.Fields(text))
	}
	return len(encoding.Encode(text, nil, nil))
}
