package storage_test

import (
	"civicchain/backend/internal/models"
	"civicchain/backend/internal/storage"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComplaint(wallet string) models.NewComplaint {
	return models.NewComplaint{
		Description:   "Broken street light on Main St",
		Location:      "Main St & 5th Ave",
		EvidenceHash:  "QmEvidence",
		Type:          models.ComplaintTypeCommunity,
		WalletAddress: wallet,
	}
}

func TestMemStore_CreateComplaint_AssignsDefaults(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := storage.NewMemStore().WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	first, err := s.CreateComplaint(ctx, newComplaint("0xa"))
	require.NoError(t, err)
	second, err := s.CreateComplaint(ctx, newComplaint("0xb"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID, "ids are sequential")
	assert.Equal(t, "pending", first.Status)
	assert.Equal(t, int64(0), first.Donations)
	assert.Equal(t, fixed, first.CreatedAt)
	assert.Equal(t, "Main St & 5th Ave", first.Location)
}

func TestMemStore_CreateComplaint_DefaultsType(t *testing.T) {
	s := storage.NewMemStore()
	in := newComplaint("0xa")
	in.Type = ""

	c, err := s.CreateComplaint(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintTypeCommunity, c.Type)
}

func TestMemStore_ListComplaints_ReturnsEveryCreatedRecord(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()

	var created []models.Complaint
	for i := 0; i < 25; i++ {
		c, err := s.CreateComplaint(ctx, newComplaint(fmt.Sprintf("0x%d", i)))
		require.NoError(t, err)
		created = append(created, c)
	}

	list, err := s.ListComplaints(ctx)
	require.NoError(t, err)
	assert.Equal(t, created, list, "list must return exactly the created records in creation order")
}

func TestMemStore_GetComplaint_NotFound(t *testing.T) {
	s := storage.NewMemStore()

	_, err := s.GetComplaint(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrComplaintNotFound)
}

func TestMemStore_UpdateComplaintStatus(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	c, _ := s.CreateComplaint(ctx, newComplaint("0xa"))

	updated, err := s.UpdateComplaintStatus(ctx, c.ID, "in_review")
	require.NoError(t, err)
	assert.Equal(t, "in_review", updated.Status)

	stored, _ := s.GetComplaint(ctx, c.ID)
	assert.Equal(t, "in_review", stored.Status)

	_, err = s.UpdateComplaintStatus(ctx, 999, "resolved")
	assert.ErrorIs(t, err, storage.ErrComplaintNotFound)
}

func TestMemStore_AddDonation(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	c, _ := s.CreateComplaint(ctx, newComplaint("0xa"))

	_, err := s.AddDonation(ctx, c.ID, 15)
	require.NoError(t, err)
	updated, err := s.AddDonation(ctx, c.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(20), updated.Donations)

	_, err = s.AddDonation(ctx, 999, 5)
	assert.ErrorIs(t, err, storage.ErrComplaintNotFound)
}

func TestMemStore_ReturnedValuesAreCopies(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	c, _ := s.CreateComplaint(ctx, newComplaint("0xa"))

	c.Status = "tampered"
	stored, _ := s.GetComplaint(ctx, c.ID)
	assert.Equal(t, "pending", stored.Status)
}

func TestMemStore_CreateUser(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "0xa")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, int64(0), u.Tokens)
	assert.False(t, u.IsLegalProfessional)

	_, err = s.CreateUser(ctx, "0xa")
	assert.ErrorIs(t, err, storage.ErrUserExists, "wallet address identifies at most one user")
}

func TestMemStore_GetOrCreateUser_DoesNotReset(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()

	first, created, err := s.GetOrCreateUser(ctx, "0xa")
	require.NoError(t, err)
	assert.True(t, created)

	_, err = s.UpdateUserStats(ctx, "0xa", models.StatsDelta{Tokens: 10, ComplaintsSubmitted: 1})
	require.NoError(t, err)

	second, created, err := s.GetOrCreateUser(ctx, "0xa")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(10), second.Tokens)
	assert.Equal(t, int64(1), second.ComplaintsSubmitted)
}

func TestMemStore_UpdateUserTokens(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	_, _ = s.CreateUser(ctx, "0xa")

	u, err := s.UpdateUserTokens(ctx, "0xa", -7)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), u.Tokens, "no balance floor is enforced")

	_, err = s.UpdateUserTokens(ctx, "0xmissing", 10)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestMemStore_UpdateUserStats_ZeroDelta(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	_, _ = s.CreateUser(ctx, "0xa")
	_, _ = s.UpdateUserTokens(ctx, "0xa", 5)

	u, err := s.UpdateUserStats(ctx, "0xa", models.StatsDelta{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.Tokens)

	_, err = s.UpdateUserStats(ctx, "0xmissing", models.StatsDelta{})
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestMemStore_SetLegalProfessional(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	_, _ = s.CreateUser(ctx, "0xa")

	u, err := s.SetLegalProfessional(ctx, "0xa", true)
	require.NoError(t, err)
	assert.True(t, u.IsLegalProfessional)

	_, err = s.SetLegalProfessional(ctx, "0xb", true)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestMemStore_GetLeaderboard(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()

	balances := []int64{5, 50, 20, 50, 0, 35, 10, 15, 45, 25, 30, 40}
	for i, tokens := range balances {
		wallet := fmt.Sprintf("0x%02d", i)
		_, err := s.CreateUser(ctx, wallet)
		require.NoError(t, err)
		_, err = s.UpdateUserTokens(ctx, wallet, tokens)
		require.NoError(t, err)
	}

	board, err := s.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 10)

	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].Tokens, board[i].Tokens, "leaderboard must be sorted descending")
	}
	// 0x01 and 0x03 both hold 50 tokens; the earlier registration wins the tie.
	assert.Equal(t, "0x01", board[0].WalletAddress)
	assert.Equal(t, "0x03", board[1].WalletAddress)
}

func TestMemStore_GetLeaderboard_FewUsers(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	_, _ = s.CreateUser(ctx, "0xa")

	board, err := s.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, board, 1)
}

// TestMemStore_ConcurrentIncrements checks that parallel read-modify-write
// updates on the same entity are not lost.
func TestMemStore_ConcurrentIncrements(t *testing.T) {
	s := storage.NewMemStore()
	ctx := context.Background()
	c, _ := s.CreateComplaint(ctx, newComplaint("0xa"))
	_, _ = s.CreateUser(ctx, "0xa")

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = s.AddDonation(ctx, c.ID, 2)
			_, _ = s.UpdateUserStats(ctx, "0xa", models.StatsDelta{Tokens: -2, DonationsMade: 1})
		}()
	}
	wg.Wait()

	stored, _ := s.GetComplaint(ctx, c.ID)
	user, _ := s.GetUser(ctx, "0xa")
	assert.Equal(t, int64(2*workers), stored.Donations)
	assert.Equal(t, int64(-2*workers), user.Tokens)
	assert.Equal(t, int64(workers), user.DonationsMade)
}
