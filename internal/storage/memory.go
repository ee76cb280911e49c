package storage

import (
	"civicchain/backend/internal/config"
	"civicchain/backend/internal/models"
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemStore is an in-memory Storage. It is safe for concurrent use: every
// read-modify-write runs under the write lock. Data does not survive a restart.
type MemStore struct {
	mu              sync.RWMutex
	complaints      map[int64]models.Complaint
	users           map[string]models.User
	nextComplaintID int64
	nextUserID      int64
	now             func() time.Time
}

// NewMemStore creates an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		complaints:      make(map[int64]models.Complaint),
		users:           make(map[string]models.User),
		nextComplaintID: 1,
		nextUserID:      1,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *MemStore) WithClock(now func() time.Time) *MemStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// Complaints ------------------------------------------------------------------

func (s *MemStore) ListComplaints(_ context.Context) ([]models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b models.Complaint) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemStore) GetComplaint(_ context.Context, id int64) (models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.complaints[id]
	if !ok {
		return models.Complaint{}, ErrComplaintNotFound
	}
	return c, nil
}

func (s *MemStore) CreateComplaint(_ context.Context, in models.NewComplaint) (models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextComplaintID
	s.nextComplaintID++

	c := models.Complaint{
		ID:            id,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Location:      in.Location,
		EvidenceHash:  in.EvidenceHash,
		Type:          in.Type,
		Status:        config.DefaultComplaintStatus,
		WalletAddress: in.WalletAddress,
		Donations:     0,
		Urgency:       in.Urgency,
		Privacy:       in.Privacy,
		AIAnalysis:    in.AIAnalysis,
		TxHash:        in.TxHash,
		CreatedAt:     s.now(),
	}
	if c.Type == "" {
		c.Type = config.DefaultComplaintType
	}

	s.complaints[id] = c
	return c, nil
}

func (s *MemStore) UpdateComplaintStatus(_ context.Context, id int64, status string) (models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.complaints[id]
	if !ok {
		return models.Complaint{}, ErrComplaintNotFound
	}
	c.Status = status
	s.complaints[id] = c
	return c, nil
}

func (s *MemStore) AddDonation(_ context.Context, id int64, amount int64) (models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.complaints[id]
	if !ok {
		return models.Complaint{}, ErrComplaintNotFound
	}
	c.Donations += amount
	s.complaints[id] = c
	return c, nil
}

// Users -----------------------------------------------------------------------

func (s *MemStore) GetUser(_ context.Context, walletAddress string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[walletAddress]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (s *MemStore) CreateUser(_ context.Context, walletAddress string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[walletAddress]; exists {
		return models.User{}, ErrUserExists
	}
	return s.createUserLocked(walletAddress), nil
}

func (s *MemStore) GetOrCreateUser(_ context.Context, walletAddress string) (models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[walletAddress]; ok {
		return u, false, nil
	}
	return s.createUserLocked(walletAddress), true, nil
}

func (s *MemStore) createUserLocked(walletAddress string) models.User {
	u := models.User{
		ID:            s.nextUserID,
		WalletAddress: walletAddress,
		CreatedAt:     s.now(),
	}
	s.nextUserID++
	s.users[walletAddress] = u
	return u
}

func (s *MemStore) UpdateUserTokens(ctx context.Context, walletAddress string, delta int64) (models.User, error) {
	return s.UpdateUserStats(ctx, walletAddress, models.StatsDelta{Tokens: delta})
}

func (s *MemStore) UpdateUserStats(_ context.Context, walletAddress string, delta models.StatsDelta) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[walletAddress]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	if delta.IsZero() {
		return u, nil
	}
	delta.Apply(&u)
	s.users[walletAddress] = u
	return u, nil
}

func (s *MemStore) SetLegalProfessional(_ context.Context, walletAddress string, value bool) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[walletAddress]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	u.IsLegalProfessional = value
	s.users[walletAddress] = u
	return u, nil
}

// GetLeaderboard returns at most limit users ordered by token balance,
// highest first. Equal balances keep registration order.
func (s *MemStore) GetLeaderboard(_ context.Context, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b models.User) int {
		if c := cmp.Compare(b.Tokens, a.Tokens); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
