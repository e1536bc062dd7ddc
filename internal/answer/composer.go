// ABOUTME: Answer Composer: retrieval, prompt assembly, completion, cleanup
// ABOUTME: Stateless per call; completion failures never propagate past here
package answer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"legalbot/internal/knowledge"
	"legalbot/internal/llm"
	"legalbot/internal/models"
)

// Result statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

const noContextFound = "Контекст из базы знаний не найден."

const userTurnTemplate = "Вопрос пользователя:\n%s\n\nКонтекст (из базы знаний):\n%s"

const apologyTemplate = "Извини, сейчас не удалось получить ответ от модели.\nТехническая ошибка: %v"

// Result is the structured outcome of one compose call. The caller is
// responsible for appending the turn pair to history and for logging.
type Result struct {
	Text     string
	TopScore int
	Status   string
}

// Retriever is the knowledge lookup boundary.
type Retriever interface {
	Query(text string, topK int) []knowledge.Hit
}

// Composer orchestrates retrieval, prompt assembly, the completion call,
// and deterministic post-processing.
type Composer struct {
	retriever    Retriever
	completer    llm.Completer
	systemPrompt string
	topK         int
	historyLimit int
	logger       *zap.Logger
}

// New creates a Composer. historyLimit semantics: >0 keeps the last N
// turns, 0 drops all history, negative passes history through unmodified.
func New(retriever Retriever, completer llm.Completer, systemPrompt string, topK, historyLimit int, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{
		retriever:    retriever,
		completer:    completer,
		systemPrompt: systemPrompt,
		topK:         topK,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Compose answers a user question. All completion failures collapse into
// a StatusError result with an apology and the error detail; Compose
// never returns an error to the caller.
func (c *Composer) Compose(ctx context.Context, question string, history []models.Turn) Result {
	hits := c.retriever.Query(question, c.topK)

	topScore := 0
	if len(hits) > 0 {
		topScore = hits[0].Score
	}

	contextText := noContextFound
	if len(hits) > 0 {
		contextText = knowledge.FormatHits(hits)
	}

	trimmed := history
	if c.historyLimit == 0 {
		trimmed = nil
	} else if c.historyLimit > 0 && len(history) > c.historyLimit {
		trimmed = history[len(history)-c.historyLimit:]
	}

	messages := make([]llm.Message, 0, len(trimmed)+2)
	messages = append(messages, llm.Message{Role: "system", Content: c.systemPrompt})
	for _, turn := range trimmed {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, llm.Message{
		Role:    models.RoleUser,
		Content: fmt.Sprintf(userTurnTemplate, question, contextText),
	})

	text, err := c.completer.Complete(ctx, messages)
	if err != nil {
		c.logger.Warn("completion failed",
			zap.Int("top_score", topScore),
			zap.Error(err))
		return Result{
			Text:     fmt.Sprintf(apologyTemplate, err),
			TopScore: topScore,
			Status:   StatusError,
		}
	}

	text = StripMarkdown(text)
	text = NormalizeSections(text)
	return Result{Text: text, TopScore: topScore, Status: StatusOK}
}
