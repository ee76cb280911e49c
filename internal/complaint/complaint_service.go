// Package complaint provides the core logic for handling complaints: the
// submission flow with optional AI review, token rewards and donations.
package complaint

import (
	"civicchain/backend/internal/ai"
	"civicchain/backend/internal/analysis"
	"civicchain/backend/internal/config"
	"civicchain/backend/internal/feed"
	"civicchain/backend/internal/metrics"
	"civicchain/backend/internal/models"
	"civicchain/backend/internal/storage"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrInvalidAmount is returned for donations and grants that are not positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// RejectedError reports that the AI reviewer refused a legal complaint.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "legal complaint rejected: " + e.Reason
}

// Validator reviews legal complaints. *ai.Validator satisfies it.
type Validator interface {
	ValidateLegalComplaint(ctx context.Context, title, description, category string) ai.Verdict
}

// Service handles the business logic for complaints.
type Service struct {
	Storage   storage.Storage
	Validator Validator
	Publisher feed.Publisher
	logger    *zap.Logger
}

// NewService creates a new complaint service. validator and publisher may be nil.
func NewService(s storage.Storage, validator Validator, publisher feed.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Storage: s, Validator: validator, Publisher: publisher, logger: logger}
}

// Submit persists a new complaint. Legal complaints are reviewed first; a
// rejection returns *RejectedError and nothing is stored. When the submitter
// is a registered user they receive config.SubmissionReward tokens. A failed
// reward is returned together with the stored complaint, which stays persisted.
func (s *Service) Submit(ctx context.Context, in models.NewComplaint) (models.Complaint, error) {
	if in.IsLegal() {
		verdict := s.review(ctx, in)
		metrics.RecordValidation(verdict.Kind.String())

		if !verdict.Accepted() {
			return models.Complaint{}, &RejectedError{Reason: verdict.Reason}
		}
		if verdict.Kind == ai.VerdictUnavailable {
			// fail open: the complaint is accepted with default metadata
			s.logger.Info("legal review unavailable, accepting complaint",
				zap.String("wallet", in.WalletAddress), zap.String("reason", verdict.Reason))
		}

		in.Urgency = analysis.NormalizeUrgency(verdict.SuggestedUrgency)
		in.Privacy = analysis.NormalizePrivacy(verdict.SuggestedPrivacy, in.Privacy)
		if verdict.Analysis != "" {
			in.AIAnalysis = verdict.Analysis
		}
	}

	created, err := s.Storage.CreateComplaint(ctx, in)
	if err != nil {
		return models.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}
	metrics.RecordComplaint(created.Type)

	_, err = s.Storage.UpdateUserStats(ctx, in.WalletAddress, models.StatsDelta{
		Tokens:              config.SubmissionReward,
		ComplaintsSubmitted: 1,
	})
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		s.logger.Debug("submitter not registered, no reward", zap.String("wallet", in.WalletAddress))
	case err != nil:
		return created, fmt.Errorf("reward submitter %s: %w", in.WalletAddress, err)
	}

	s.publish(ctx, models.EventComplaintCreated, created)
	return created, nil
}

func (s *Service) review(ctx context.Context, in models.NewComplaint) ai.Verdict {
	if s.Validator == nil {
		return ai.Verdict{Kind: ai.VerdictUnavailable, Reason: "Validation service not configured"}
	}
	return s.Validator.ValidateLegalComplaint(ctx, in.Title, in.Description, in.Category)
}

// Donate moves amount tokens from donor to the complaint. The complaint is
// credited first so an unknown id never debits the donor. An unregistered
// donor only credits the complaint. Balances are not floored at zero.
func (s *Service) Donate(ctx context.Context, id int64, donor string, amount int64) (models.Complaint, error) {
	if amount <= 0 {
		return models.Complaint{}, ErrInvalidAmount
	}

	updated, err := s.Storage.AddDonation(ctx, id, amount)
	if err != nil {
		return models.Complaint{}, fmt.Errorf("add donation to %d: %w", id, err)
	}
	metrics.RecordDonation(amount)

	if donor != "" {
		_, err = s.Storage.UpdateUserStats(ctx, donor, models.StatsDelta{Tokens: -amount, DonationsMade: 1})
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			s.logger.Debug("donor not registered", zap.String("wallet", donor))
		case err != nil:
			return updated, fmt.Errorf("debit donor %s: %w", donor, err)
		}
	}

	s.publish(ctx, models.EventComplaintDonated, updated)
	return updated, nil
}

// UpdateStatus sets a complaint's status. Any string is accepted.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (models.Complaint, error) {
	updated, err := s.Storage.UpdateComplaintStatus(ctx, id, status)
	if err != nil {
		return models.Complaint{}, fmt.Errorf("update status of %d: %w", id, err)
	}
	s.publish(ctx, models.EventComplaintStatus, updated)
	return updated, nil
}

// Resolve marks a complaint resolved and credits the handling lawyer with a
// resolved case.
func (s *Service) Resolve(ctx context.Context, id int64, lawyer string) (models.Complaint, models.User, error) {
	updated, err := s.UpdateStatus(ctx, id, config.ResolvedStatus)
	if err != nil {
		return models.Complaint{}, models.User{}, err
	}
	user, err := s.Storage.UpdateUserStats(ctx, lawyer, models.StatsDelta{CasesResolved: 1})
	if err != nil {
		return updated, models.User{}, fmt.Errorf("credit lawyer %s: %w", lawyer, err)
	}
	return updated, user, nil
}

// Grant adds amount tokens to a registered user.
func (s *Service) Grant(ctx context.Context, wallet string, amount int64) (models.User, error) {
	if amount <= 0 {
		return models.User{}, ErrInvalidAmount
	}
	return s.Storage.UpdateUserTokens(ctx, wallet, amount)
}

// RegisterUser returns the user for wallet, creating it on first sight.
// Existing counters are never reset.
func (s *Service) RegisterUser(ctx context.Context, wallet string) (models.User, error) {
	user, created, err := s.Storage.GetOrCreateUser(ctx, wallet)
	if err != nil {
		return models.User{}, fmt.Errorf("register %s: %w", wallet, err)
	}
	if created {
		s.logger.Info("user registered", zap.String("wallet", wallet), zap.Int64("id", user.ID))
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, wallet string) (models.User, error) {
	return s.Storage.GetUser(ctx, wallet)
}

func (s *Service) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	return s.Storage.ListComplaints(ctx)
}

func (s *Service) GetComplaint(ctx context.Context, id int64) (models.Complaint, error) {
	return s.Storage.GetComplaint(ctx, id)
}

// Leaderboard returns the top config.LeaderboardSize users by balance.
func (s *Service) Leaderboard(ctx context.Context) ([]models.User, error) {
	return s.Storage.GetLeaderboard(ctx, config.LeaderboardSize)
}

func (s *Service) publish(ctx context.Context, eventType string, c models.Complaint) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, models.FeedEvent{Type: eventType, Complaint: c}); err != nil {
		s.logger.Warn("failed to publish feed event",
			zap.String("type", eventType), zap.Int64("complaint", c.ID), zap.Error(err))
	}
}
