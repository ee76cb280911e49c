package telegram_test

import (
	"civicchain/backend/internal/complaint"
	"civicchain/backend/internal/models"
	"civicchain/backend/internal/storage"
	"civicchain/backend/internal/telegram"
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const moderatorsChat = int64(-100)

func newBot(t *testing.T) (*telegram.BotService, *MockSender, *storage.MemStore) {
	t.Helper()
	sender := new(MockSender)
	sender.On("Send", mock.Anything).Return(tgbotapi.Message{}, nil)

	store := storage.NewMemStore()
	svc := complaint.NewService(store, nil, nil, nil)
	bot := telegram.NewBotService(&telegram.Notifier{Bot: sender, ChatID: moderatorsChat}, svc, store)
	return bot, sender, store
}

func command(chatID int64, text string) tgbotapi.Update {
	name, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: len(name)},
			},
			From: &tgbotapi.User{ID: 42},
			Chat: tgbotapi.Chat{ID: chatID},
		},
	}
}

func lastReply(t *testing.T, sender *MockSender) string {
	t.Helper()
	require.NotEmpty(t, sender.Calls)
	msg, ok := sender.Calls[len(sender.Calls)-1].Arguments.Get(0).(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg.Text
}

func seedComplaint(t *testing.T, store *storage.MemStore) models.Complaint {
	t.Helper()
	c, err := store.CreateComplaint(context.Background(), models.NewComplaint{
		Title:         "Unpaid wages",
		Description:   "Employer withheld salary",
		Location:      "Kyiv",
		EvidenceHash:  "QmHash",
		Type:          models.ComplaintTypeLegal,
		WalletAddress: "0xabc",
	})
	require.NoError(t, err)
	return c
}

func TestBot_StatusCommand(t *testing.T) {
	bot, sender, store := newBot(t)
	c := seedComplaint(t, store)

	bot.HandleUpdate(context.Background(), command(moderatorsChat, "/status 1 in_review"))

	updated, _ := store.GetComplaint(context.Background(), c.ID)
	assert.Equal(t, "in_review", updated.Status)
	assert.Equal(t, "Complaint #1 is now in_review.", lastReply(t, sender))

	bot.HandleUpdate(context.Background(), command(moderatorsChat, "/status 99 resolved"))
	assert.Equal(t, "Complaint not found.", lastReply(t, sender))
}

func TestBot_IgnoresOtherChats(t *testing.T) {
	bot, sender, store := newBot(t)
	seedComplaint(t, store)

	bot.HandleUpdate(context.Background(), command(12345, "/status 1 resolved"))

	updated, _ := store.GetComplaint(context.Background(), 1)
	assert.Equal(t, "pending", updated.Status)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestBot_ComplaintCommand(t *testing.T) {
	bot, sender, store := newBot(t)
	seedComplaint(t, store)

	bot.HandleUpdate(context.Background(), command(moderatorsChat, "/complaint 1"))

	reply := lastReply(t, sender)
	assert.Contains(t, reply, "#1 Unpaid wages")
	assert.Contains(t, reply, "Status: pending")
}

func TestBot_ResolveCommand(t *testing.T) {
	bot, sender, store := newBot(t)
	ctx := context.Background()
	seedComplaint(t, store)
	_, _ = store.CreateUser(ctx, "0xlawyer")

	bot.HandleUpdate(ctx, command(moderatorsChat, "/resolve 1 0xlawyer"))

	assert.Equal(t, "Complaint #1 resolved by 0xlawyer (1 cases).", lastReply(t, sender))
	lawyer, _ := store.GetUser(ctx, "0xlawyer")
	assert.Equal(t, int64(1), lawyer.CasesResolved)
}

func TestBot_LawyerCommands(t *testing.T) {
	bot, sender, store := newBot(t)
	ctx := context.Background()
	_, _ = store.CreateUser(ctx, "0xlawyer")

	bot.HandleUpdate(ctx, command(moderatorsChat, "/lawyer_on 0xlawyer"))
	user, _ := store.GetUser(ctx, "0xlawyer")
	assert.True(t, user.IsLegalProfessional)
	assert.Equal(t, "0xlawyer is now a legal professional.", lastReply(t, sender))

	bot.HandleUpdate(ctx, command(moderatorsChat, "/lawyer_off 0xlawyer"))
	user, _ = store.GetUser(ctx, "0xlawyer")
	assert.False(t, user.IsLegalProfessional)

	bot.HandleUpdate(ctx, command(moderatorsChat, "/lawyer_on 0xnobody"))
	assert.Equal(t, "User not found.", lastReply(t, sender))

	bot.HandleUpdate(ctx, command(moderatorsChat, "/lawyer_on"))
	assert.Contains(t, lastReply(t, sender), "/lawyer_on <wallet>")
}

func TestBot_LeaderboardCommand(t *testing.T) {
	bot, sender, store := newBot(t)
	ctx := context.Background()

	bot.HandleUpdate(ctx, command(moderatorsChat, "/leaderboard"))
	assert.Equal(t, "No users yet.", lastReply(t, sender))

	_, _ = store.CreateUser(ctx, "0xrich")
	_, _ = store.UpdateUserTokens(ctx, "0xrich", 40)
	bot.HandleUpdate(ctx, command(moderatorsChat, "/leaderboard"))
	assert.Contains(t, lastReply(t, sender), "1. 0xrich: 40")
}

func TestBot_StatusCallback(t *testing.T) {
	bot, sender, store := newBot(t)
	seedComplaint(t, store)

	bot.HandleUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb-1",
			Data:    "status:1:" + telegram.StatusRejected,
			Message: &tgbotapi.Message{Chat: tgbotapi.Chat{ID: moderatorsChat}},
		},
	})

	updated, _ := store.GetComplaint(context.Background(), 1)
	assert.Equal(t, telegram.StatusRejected, updated.Status)
	assert.Equal(t, "Complaint #1 is now rejected.", lastReply(t, sender))
}

func TestBot_MalformedCallbackIgnored(t *testing.T) {
	bot, sender, store := newBot(t)
	seedComplaint(t, store)

	for _, data := range []string{"status:abc:rejected", "status:1", "set_lang_en"} {
		bot.HandleUpdate(context.Background(), tgbotapi.Update{
			CallbackQuery: &tgbotapi.CallbackQuery{
				ID:      "cb",
				Data:    data,
				Message: &tgbotapi.Message{Chat: tgbotapi.Chat{ID: moderatorsChat}},
			},
		})
	}

	updated, _ := store.GetComplaint(context.Background(), 1)
	assert.Equal(t, "pending", updated.Status)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}
