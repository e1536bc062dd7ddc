// ABOUTME: Telegram transport: long polling, commands, consent gating
// ABOUTME: Questions run in their own goroutine so slow model calls interleave
package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"legalbot/internal/answer"
	"legalbot/internal/audit"
	"legalbot/internal/consent"
	"legalbot/internal/history"
	"legalbot/internal/models"
)

// minimum free-text length routed to the composer; shorter messages are
// almost certainly accidental.
const minQuestionLen = 4

// Deps collects the collaborators the bot dispatches into.
type Deps struct {
	Composer      *answer.Composer
	History       *history.Store
	Consents      *consent.Store
	Interactions  *audit.InteractionLogger
	Consultations *audit.ConsultationLogger
	Model         string
	PolicyURL     string
	Logger        *zap.Logger
}

// Bot wires Telegram updates to the answer pipeline.
type Bot struct {
	api  *tgbotapi.BotAPI
	deps Deps

	formMu sync.Mutex
	forms  map[int64]*form
}

// New creates a Bot around an authorized API client.
func New(api *tgbotapi.BotAPI, deps Deps) *Bot {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Bot{
		api:   api,
		deps:  deps,
		forms: make(map[int64]*form),
	}
}

// Run registers the command menu and polls for updates until the context
// is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.setupCommands(); err != nil {
		return fmt.Errorf("registering bot commands: %w", err)
	}

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 60
	updates := b.api.GetUpdatesChan(updateCfg)

	b.deps.Logger.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) setupCommands() error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Начать работу с ботом"},
		tgbotapi.BotCommand{Command: "help", Description: "Получить подсказки"},
		tgbotapi.BotCommand{Command: "consultation", Description: "Оставить заявку на консультацию"},
	)
	_, err := b.api.Request(commands)
	return err
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.clearForm(msg.From.ID)
		switch msg.Command() {
		case "start":
			b.handleStart(msg)
		case "help":
			b.handleHelp(msg)
		case "consultation":
			b.handleConsultation(msg)
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if b.advanceForm(msg) {
		return
	}

	if len([]rune(text)) < minQuestionLen {
		return
	}
	if !b.requireConsent(msg) {
		return
	}

	// Each question gets its own goroutine: the model call is the slow
	// part and must not queue other users behind it.
	go b.answerQuestion(ctx, msg, text)
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	userID := msg.From.ID
	b.deps.History.Clear(userID)

	if b.deps.Consents.Has(userID) {
		b.send(msg.Chat.ID, welcomeMessage)
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	if b.deps.PolicyURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📄 Открыть политику", b.deps.PolicyURL),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Я даю своё согласие…", "consent_yes"),
		tgbotapi.NewInlineKeyboardButtonData("Я не даю своё согласие", "consent_no"),
	))

	reply := tgbotapi.NewMessage(msg.Chat.ID, consentPrompt)
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(reply); err != nil {
		b.deps.Logger.Error("sending consent prompt", zap.Error(err))
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	if !b.requireConsent(msg) {
		return
	}
	b.deps.History.Clear(msg.From.ID)
	b.send(msg.Chat.ID, helpMessage)
}

func (b *Bot) handleConsultation(msg *tgbotapi.Message) {
	if !b.requireConsent(msg) {
		return
	}
	userID := msg.From.ID
	b.deps.History.Clear(userID)

	b.formMu.Lock()
	b.forms[userID] = &form{}
	b.formMu.Unlock()

	b.send(msg.Chat.ID, replyAskName)
}

// advanceForm feeds the message into an in-progress consultation form.
// Returns false when the user has no form open.
func (b *Bot) advanceForm(msg *tgbotapi.Message) bool {
	userID := msg.From.ID

	b.formMu.Lock()
	f, ok := b.forms[userID]
	b.formMu.Unlock()
	if !ok {
		return false
	}

	if !b.requireConsent(msg) {
		b.clearForm(userID)
		return true
	}

	reply, sub := f.advance(msg.Text)
	if sub == nil {
		b.send(msg.Chat.ID, reply)
		return true
	}

	b.clearForm(userID)
	requestID, err := b.deps.Consultations.Log(audit.Consultation{
		UserID:   userID,
		Username: msg.From.UserName,
		Name:     sub.Name,
		Contact:  sub.Contact,
		Request:  sub.Request,
	})
	if err != nil {
		b.deps.Logger.Error("logging consultation", zap.Error(err))
	} else {
		b.deps.Logger.Info("consultation saved",
			zap.String("request_id", requestID),
			zap.Int64("user_id", userID))
	}
	b.send(msg.Chat.ID, consultationSaved)
	return true
}

func (b *Bot) answerQuestion(ctx context.Context, msg *tgbotapi.Message, question string) {
	userID := msg.From.ID

	if _, err := b.api.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		b.deps.Logger.Debug("chat action failed", zap.Error(err))
	}

	result := b.deps.Composer.Compose(ctx, question, b.deps.History.Turns(userID))

	if err := b.deps.Interactions.Log(audit.Interaction{
		UserID:   userID,
		Username: msg.From.UserName,
		Question: question,
		Answer:   result.Text,
		TopScore: result.TopScore,
		Model:    b.deps.Model,
		Status:   result.Status,
	}); err != nil {
		b.deps.Logger.Error("logging interaction", zap.Error(err))
	}

	if result.Status == answer.StatusOK {
		b.deps.History.Append(userID, models.Turn{Role: models.RoleUser, Content: question})
		b.deps.History.Append(userID, models.Turn{Role: models.RoleAssistant, Content: result.Text})
	}

	reply := fmt.Sprintf("<b>Вопрос:</b> %s\n\n%s\n\n%s",
		html.EscapeString(question),
		html.EscapeString(result.Text),
		answerDisclaimer)
	b.send(msg.Chat.ID, reply)
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}
	userID := cq.From.ID

	var ack string
	switch cq.Data {
	case "consent_yes":
		if err := b.deps.Consents.Add(userID); err != nil {
			b.deps.Logger.Error("saving consent", zap.Error(err))
		}
		ack = consentGranted
	case "consent_no":
		if err := b.deps.Consents.Remove(userID); err != nil {
			b.deps.Logger.Error("revoking consent", zap.Error(err))
		}
		b.deps.History.Clear(userID)
		ack = consentDeclined
	default:
		return
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, ack)); err != nil {
		b.deps.Logger.Debug("callback answer failed", zap.Error(err))
	}
	if cq.Message == nil {
		return
	}
	if cq.Data == "consent_yes" {
		b.send(cq.Message.Chat.ID, welcomeMessage)
	} else {
		b.send(cq.Message.Chat.ID, consentDeclinedMessage)
	}
}

func (b *Bot) requireConsent(msg *tgbotapi.Message) bool {
	if b.deps.Consents.Has(msg.From.ID) {
		return true
	}
	b.send(msg.Chat.ID, consentRequired)
	return false
}

func (b *Bot) clearForm(userID int64) {
	b.formMu.Lock()
	delete(b.forms, userID)
	b.formMu.Unlock()
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.deps.Logger.Error("sending message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
