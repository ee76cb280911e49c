package telegram

import (
	"civicchain/backend/internal/models"
	"civicchain/backend/internal/storage"
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LawyerStorage defines the storage method required by the lawyer commands.
// storage.Storage satisfies it.
type LawyerStorage interface {
	SetLegalProfessional(ctx context.Context, walletAddress string, value bool) (models.User, error)
}

// handleLawyerCommand processes /lawyer_on and /lawyer_off <wallet>.
// It updates the user's legal professional flag and sends a confirmation message.
func (s *BotService) handleLawyerCommand(ctx context.Context, msg *tgbotapi.Message) {
	var enable bool
	switch msg.Command() {
	case "lawyer_on":
		enable = true
	case "lawyer_off":
		enable = false
	default:
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 || s.Lawyers == nil {
		s.reply(msg.Chat.ID, s.text("bot.usage"))
		return
	}

	user, err := s.Lawyers.SetLegalProfessional(ctx, args[0], enable)
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		s.reply(msg.Chat.ID, s.text("bot.user_not_found"))
	case err != nil:
		s.logger.Error("failed to update legal professional flag", zap.String("wallet", args[0]), zap.Error(err))
		s.reply(msg.Chat.ID, s.text("bot.error"))
	case user.IsLegalProfessional:
		s.reply(msg.Chat.ID, s.text("bot.lawyer_on", user.WalletAddress))
	default:
		s.reply(msg.Chat.ID, s.text("bot.lawyer_off", user.WalletAddress))
	}
}
