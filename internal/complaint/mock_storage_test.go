package complaint_test

import (
	"civicchain/backend/internal/ai"
	"civicchain/backend/internal/models"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) GetComplaint(ctx context.Context, id int64) (models.Complaint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockStorage) CreateComplaint(ctx context.Context, in models.NewComplaint) (models.Complaint, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockStorage) UpdateComplaintStatus(ctx context.Context, id int64, status string) (models.Complaint, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockStorage) AddDonation(ctx context.Context, id int64, amount int64) (models.Complaint, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockStorage) GetUser(ctx context.Context, walletAddress string) (models.User, error) {
	args := m.Called(ctx, walletAddress)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStorage) CreateUser(ctx context.Context, walletAddress string) (models.User, error) {
	args := m.Called(ctx, walletAddress)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStorage) GetOrCreateUser(ctx context.Context, walletAddress string) (models.User, bool, error) {
	args := m.Called(ctx, walletAddress)
	return args.Get(0).(models.User), args.Bool(1), args.Error(2)
}

func (m *MockStorage) UpdateUserTokens(ctx context.Context, walletAddress string, delta int64) (models.User, error) {
	args := m.Called(ctx, walletAddress, delta)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStorage) UpdateUserStats(ctx context.Context, walletAddress string, delta models.StatsDelta) (models.User, error) {
	args := m.Called(ctx, walletAddress, delta)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStorage) SetLegalProfessional(ctx context.Context, walletAddress string, value bool) (models.User, error) {
	args := m.Called(ctx, walletAddress, value)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStorage) GetLeaderboard(ctx context.Context, limit int) ([]models.User, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.User), args.Error(1)
}

type stubValidator struct {
	verdict ai.Verdict
	calls   int
}

func (v *stubValidator) ValidateLegalComplaint(_ context.Context, _, _, _ string) ai.Verdict {
	v.calls++
	return v.verdict
}

type recordingPublisher struct {
	events []models.FeedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e models.FeedEvent) error {
	p.events = append(p.events, e)
	return p.err
}
