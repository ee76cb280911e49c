// Package telegram notifies moderators about new legal complaints through the
// Telegram Bot API.
package telegram

import (
	"civicchain/backend/internal/analysis"
	"civicchain/backend/internal/localization"
	"civicchain/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	// maxDescription bounds the description excerpt in a notice.
	maxDescription = 280
	// noticeBacklog is the number of notices waiting for Run before new ones
	// are dropped.
	noticeBacklog = 32
)

// Sender is the subset of *tgbotapi.BotAPI used by Notifier.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts a notice to the moderators chat for every newly created
// legal complaint. It implements feed.Publisher. Publish only queues the
// notice; Run sends it.
type Notifier struct {
	Bot    Sender
	ChatID int64
	// Lang selects the notice language; Texts defaults to the bundled translations.
	Lang   string
	Texts  *localization.Localizer
	queue  chan models.Complaint
	logger *zap.Logger
}

// NewNotifier authorises token against the Bot API.
func NewNotifier(token string, chatID int64, lang string, logger *zap.Logger) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorise: %w", err)
	}
	bot.Debug = false
	if logger != nil {
		logger.Info("telegram notifier authorised", zap.String("account", bot.Self.UserName))
	}
	return NewNotifierWithSender(bot, chatID, lang, logger), nil
}

// NewNotifierWithSender builds a Notifier around an existing sender.
func NewNotifierWithSender(bot Sender, chatID int64, lang string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	texts := localization.Bundled()
	if !texts.Has(lang) {
		logger.Warn("no translations for notice language, using default", zap.String("lang", lang))
		lang = localization.DefaultLanguage
	}
	return &Notifier{
		Bot:    bot,
		ChatID: chatID,
		Lang:   lang,
		Texts:  texts,
		queue:  make(chan models.Complaint, noticeBacklog),
		logger: logger,
	}
}

// Publish queues a notice for legal complaint creations and ignores every
// other event. It never waits for Telegram: when the backlog is full the
// notice is dropped.
func (n *Notifier) Publish(_ context.Context, event models.FeedEvent) error {
	if event.Type != models.EventComplaintCreated || event.Complaint.Type != models.ComplaintTypeLegal {
		return nil
	}
	if n.queue == nil {
		return errors.New("telegram notifier not initialised")
	}

	select {
	case n.queue <- event.Complaint:
	default:
		n.logger.Warn("telegram backlog full, notice dropped", zap.Int64("complaint", event.Complaint.ID))
	}
	return nil
}

// Run sends queued notices until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-n.queue:
			if err := n.Notify(c); err != nil {
				n.logger.Warn("failed to notify moderators", zap.Int64("complaint", c.ID), zap.Error(err))
			}
		}
	}
}

// Notify sends the notice for c with the status buttons.
func (n *Notifier) Notify(c models.Complaint) error {
	texts, lang := n.texts()
	id := c.ID
	msg := tgbotapi.NewMessage(n.ChatID, n.FormatNotice(c))
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(texts.GetString(lang, "notice.button_review"), statusCallbackData(id, StatusInReview)),
			tgbotapi.NewInlineKeyboardButtonData(texts.GetString(lang, "notice.button_reject"), statusCallbackData(id, StatusRejected)),
		),
	)

	if _, err := n.Bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if n.logger != nil {
		n.logger.Debug("moderators notified", zap.Int64("complaint", id))
	}
	return nil
}

// FormatNotice renders the moderator notice for c in the notifier's language.
func (n *Notifier) FormatNotice(c models.Complaint) string {
	texts, lang := n.texts()

	var b strings.Builder

	header := texts.GetString(lang, "notice.header")
	if analysis.UrgencyRank(c.Urgency) >= analysis.UrgencyRank("high") {
		header = texts.GetString(lang, "notice.header_urgent")
	}
	fmt.Fprintf(&b, "%s #%d\n", header, c.ID)
	b.WriteString(texts.Format(lang, "notice.title", escape(c.Title)) + "\n")
	if c.Category != "" {
		b.WriteString(texts.Format(lang, "notice.category", escape(c.Category)) + "\n")
	}
	if c.Urgency != "" {
		b.WriteString(texts.Format(lang, "notice.urgency", c.Urgency) + "\n")
	}

	description := c.Description
	if c.Privacy != "public" && c.Privacy != "" {
		description = texts.Format(lang, "notice.hidden", c.Privacy)
	} else if r := []rune(description); len(r) > maxDescription {
		description = string(r[:maxDescription]) + "…"
	}
	fmt.Fprintf(&b, "\n%s", escape(description))
	return b.String()
}

func (n *Notifier) texts() (*localization.Localizer, string) {
	return resolveTexts(n.Texts, n.Lang)
}

func resolveTexts(texts *localization.Localizer, lang string) (*localization.Localizer, string) {
	if texts == nil {
		texts = localization.Bundled()
	}
	if lang == "" {
		lang = localization.DefaultLanguage
	}
	return texts, lang
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
