package telegram

import (
	"civicchain/backend/internal/localization"
	"civicchain/backend/internal/models"
	"civicchain/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Statuses moderators can set from the inline buttons of a notice.
const (
	StatusInReview = "in_review"
	StatusRejected = "rejected"
)

const statusCallbackPrefix = "status:"

func statusCallbackData(id int64, status string) string {
	return fmt.Sprintf("%s%d:%s", statusCallbackPrefix, id, status)
}

func parseStatusCallback(data string) (int64, string, bool) {
	rest, ok := strings.CutPrefix(data, statusCallbackPrefix)
	if !ok {
		return 0, "", false
	}
	rawID, status, ok := strings.Cut(rest, ":")
	if !ok || status == "" {
		return 0, "", false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, status, true
}

// ComplaintModerator is the part of the complaint service the bot drives.
type ComplaintModerator interface {
	GetComplaint(ctx context.Context, id int64) (models.Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status string) (models.Complaint, error)
	Resolve(ctx context.Context, id int64, lawyer string) (models.Complaint, models.User, error)
	Leaderboard(ctx context.Context) ([]models.User, error)
}

// BotService answers moderator commands in the moderators chat. Messages from
// any other chat are ignored.
type BotService struct {
	Bot        Sender
	ChatID     int64
	Complaints ComplaintModerator
	Lawyers    LawyerStorage
	Lang       string
	Texts      *localization.Localizer

	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewBotService builds a moderator bot on top of an authorised notifier so
// both share one Bot API session.
func NewBotService(n *Notifier, complaints ComplaintModerator, lawyers LawyerStorage) *BotService {
	api, _ := n.Bot.(*tgbotapi.BotAPI)
	logger := n.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BotService{
		Bot:        n.Bot,
		ChatID:     n.ChatID,
		Complaints: complaints,
		Lawyers:    lawyers,
		Lang:       n.Lang,
		Texts:      n.Texts,
		api:        api,
		logger:     logger,
	}
}

// Run is the main loop for receiving Telegram updates. It returns when ctx is
// cancelled.
func (s *BotService) Run(ctx context.Context) {
	if s.api == nil {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			s.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update.
func (s *BotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.Chat.ID != s.ChatID || !update.Message.IsCommand() {
			return
		}
		s.handleCommand(ctx, update.Message)
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message == nil || update.CallbackQuery.Message.Chat.ID != s.ChatID {
			return
		}
		s.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (s *BotService) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "complaint":
		if len(args) != 1 {
			s.reply(msg.Chat.ID, s.text("bot.usage"))
			return
		}
		s.handleComplaintCommand(ctx, msg.Chat.ID, args[0])
	case "status":
		if len(args) != 2 {
			s.reply(msg.Chat.ID, s.text("bot.usage"))
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			s.reply(msg.Chat.ID, s.text("bot.not_found"))
			return
		}
		s.setStatus(ctx, msg.Chat.ID, id, args[1])
	case "resolve":
		if len(args) != 2 {
			s.reply(msg.Chat.ID, s.text("bot.usage"))
			return
		}
		s.handleResolveCommand(ctx, msg.Chat.ID, args[0], args[1])
	case "lawyer_on", "lawyer_off":
		s.handleLawyerCommand(ctx, msg)
	case "leaderboard":
		s.handleLeaderboardCommand(ctx, msg.Chat.ID)
	default:
		s.reply(msg.Chat.ID, s.text("bot.usage"))
	}
}

func (s *BotService) handleComplaintCommand(ctx context.Context, chatID int64, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.reply(chatID, s.text("bot.not_found"))
		return
	}
	c, err := s.Complaints.GetComplaint(ctx, id)
	if err != nil {
		s.replyError(chatID, err)
		return
	}
	title := c.Title
	if title == "" {
		title = c.Category
	}
	s.reply(chatID, s.text("bot.complaint", c.ID, title, c.Status, c.Donations, c.WalletAddress))
}

func (s *BotService) setStatus(ctx context.Context, chatID, id int64, status string) {
	updated, err := s.Complaints.UpdateStatus(ctx, id, status)
	if err != nil {
		s.replyError(chatID, err)
		return
	}
	s.reply(chatID, s.text("bot.status_updated", updated.ID, updated.Status))
}

func (s *BotService) handleResolveCommand(ctx context.Context, chatID int64, rawID, lawyer string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		s.reply(chatID, s.text("bot.not_found"))
		return
	}
	updated, user, err := s.Complaints.Resolve(ctx, id, lawyer)
	if err != nil {
		s.replyError(chatID, err)
		return
	}
	s.reply(chatID, s.text("bot.resolved", updated.ID, user.WalletAddress, user.CasesResolved))
}

func (s *BotService) handleLeaderboardCommand(ctx context.Context, chatID int64) {
	users, err := s.Complaints.Leaderboard(ctx)
	if err != nil {
		s.replyError(chatID, err)
		return
	}
	if len(users) == 0 {
		s.reply(chatID, s.text("bot.leaderboard_empty"))
		return
	}
	var b strings.Builder
	for i, u := range users {
		fmt.Fprintf(&b, "%d. %s: %d\n", i+1, u.WalletAddress, u.Tokens)
	}
	s.reply(chatID, b.String())
}

func (s *BotService) handleCallbackQuery(ctx context.Context, callbackQuery *tgbotapi.CallbackQuery) {
	// Respond to the callback query to remove the "loading" state
	if s.api != nil {
		if _, err := s.api.Request(tgbotapi.NewCallback(callbackQuery.ID, "")); err != nil {
			s.logger.Warn("failed to answer callback query", zap.Error(err))
		}
	}

	id, status, ok := parseStatusCallback(callbackQuery.Data)
	if !ok {
		return
	}
	s.setStatus(ctx, callbackQuery.Message.Chat.ID, id, status)
}

func (s *BotService) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, storage.ErrComplaintNotFound):
		s.reply(chatID, s.text("bot.not_found"))
	case errors.Is(err, storage.ErrUserNotFound):
		s.reply(chatID, s.text("bot.user_not_found"))
	default:
		s.logger.Error("moderator command failed", zap.Error(err))
		s.reply(chatID, s.text("bot.error"))
	}
}

func (s *BotService) reply(chatID int64, text string) {
	if _, err := s.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		s.logger.Warn("failed to send reply", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (s *BotService) text(key string, args ...any) string {
	texts, lang := resolveTexts(s.Texts, s.Lang)
	if len(args) == 0 {
		return texts.GetString(lang, key)
	}
	return texts.Format(lang, key, args...)
}
