// ABOUTME: Append-only CSV log of consultation requests
// ABOUTME: Each request gets a uuid so operators can reference it
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

var consultationHeader = []string{
	"timestamp",
	"request_id",
	"user_id",
	"username",
	"name",
	"contact",
	"request",
}

// Consultation is one consultation request to record.
type Consultation struct {
	UserID   int64
	Username string
	Name     string
	Contact  string
	Request  string
}

// ConsultationLogger appends consultation rows to a CSV file.
type ConsultationLogger struct {
	path string
	mu   sync.Mutex
}

// NewConsultationLogger creates the logger, ensuring the parent
// directory exists.
func NewConsultationLogger(path string) (*ConsultationLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &ConsultationLogger{path: path}, nil
}

// Log appends one consultation row and returns its request id.
func (l *ConsultationLogger) Log(rec Consultation) (string, error) {
	requestID := uuid.NewString()
	row := []string{
		time.Now().Format("2006-01-02 15:04:05"),
		requestID,
		strconv.FormatInt(rec.UserID, 10),
		rec.Username,
		rec.Name,
		rec.Contact,
		rec.Request,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := appendCSVRow(l.path, consultationHeader, row); err != nil {
		return "", err
	}
	return requestID, nil
}
