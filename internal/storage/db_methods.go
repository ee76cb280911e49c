package storage

import (
	"civicchain/backend/internal/config"
	"civicchain/backend/internal/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the PostgreSQL-backed Storage. Counters are incremented with
// single UPDATE ... RETURNING statements, so concurrent updates never lose writes.
type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// AutoMigrate creates or updates the complaints and users tables.
func (s *Service) AutoMigrate() error {
	return s.DB.AutoMigrate(&models.Complaint{}, &models.User{})
}

// ListComplaints returns every complaint in creation order.
func (s *Service) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return complaints, nil
}

func (s *Service) GetComplaint(ctx context.Context, id int64) (models.Complaint, error) {
	var c models.Complaint
	err := s.DB.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Complaint{}, ErrComplaintNotFound
	}
	if err != nil {
		return models.Complaint{}, fmt.Errorf("get complaint %d: %w", id, err)
	}
	return c, nil
}

func (s *Service) CreateComplaint(ctx context.Context, in models.NewComplaint) (models.Complaint, error) {
	c := models.Complaint{
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Location:      in.Location,
		EvidenceHash:  in.EvidenceHash,
		Type:          in.Type,
		Status:        config.DefaultComplaintStatus,
		WalletAddress: in.WalletAddress,
		Urgency:       in.Urgency,
		Privacy:       in.Privacy,
		AIAnalysis:    in.AIAnalysis,
		TxHash:        in.TxHash,
	}
	if c.Type == "" {
		c.Type = config.DefaultComplaintType
	}

	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}
	return c, nil
}

// UpdateComplaintStatus overwrites the status of complaint id.
func (s *Service) UpdateComplaintStatus(ctx context.Context, id int64, status string) (models.Complaint, error) {
	return s.updateComplaint(ctx, id, map[string]interface{}{"status": status})
}

// AddDonation increments the donation total of complaint id by amount.
func (s *Service) AddDonation(ctx context.Context, id int64, amount int64) (models.Complaint, error) {
	return s.updateComplaint(ctx, id, map[string]interface{}{
		"donations": gorm.Expr("donations + ?", amount),
	})
}

func (s *Service) updateComplaint(ctx context.Context, id int64, values map[string]interface{}) (models.Complaint, error) {
	var c models.Complaint
	result := s.DB.WithContext(ctx).
		Model(&c).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return models.Complaint{}, fmt.Errorf("update complaint %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Complaint{}, ErrComplaintNotFound
	}
	return c, nil
}

func (s *Service) GetUser(ctx context.Context, walletAddress string) (models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user %s: %w", walletAddress, err)
	}
	return u, nil
}

// CreateUser inserts a fresh user. It relies on the unique index on
// wallet_address and on gorm.Config.TranslateError to detect duplicates.
func (s *Service) CreateUser(ctx context.Context, walletAddress string) (models.User, error) {
	u := models.User{WalletAddress: walletAddress}
	err := s.DB.WithContext(ctx).Create(&u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.User{}, ErrUserExists
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user %s: %w", walletAddress, err)
	}
	return u, nil
}

// GetOrCreateUser returns the user for walletAddress, creating it on first
// contact. The boolean reports whether a new record was inserted.
func (s *Service) GetOrCreateUser(ctx context.Context, walletAddress string) (models.User, bool, error) {
	var u models.User
	result := s.DB.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		FirstOrCreate(&u, models.User{WalletAddress: walletAddress})
	if result.Error != nil {
		// A concurrent registration won the insert; read its row.
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			existing, err := s.GetUser(ctx, walletAddress)
			return existing, false, err
		}
		return models.User{}, false, fmt.Errorf("get or create user %s: %w", walletAddress, result.Error)
	}
	return u, result.RowsAffected > 0, nil
}

func (s *Service) UpdateUserTokens(ctx context.Context, walletAddress string, delta int64) (models.User, error) {
	return s.updateUser(ctx, walletAddress, map[string]interface{}{
		"tokens": gorm.Expr("tokens + ?", delta),
	})
}

func (s *Service) UpdateUserStats(ctx context.Context, walletAddress string, delta models.StatsDelta) (models.User, error) {
	if delta.IsZero() {
		return s.GetUser(ctx, walletAddress)
	}
	return s.updateUser(ctx, walletAddress, map[string]interface{}{
		"tokens":               gorm.Expr("tokens + ?", delta.Tokens),
		"complaints_submitted": gorm.Expr("complaints_submitted + ?", delta.ComplaintsSubmitted),
		"donations_made":       gorm.Expr("donations_made + ?", delta.DonationsMade),
		"cases_resolved":       gorm.Expr("cases_resolved + ?", delta.CasesResolved),
	})
}

func (s *Service) SetLegalProfessional(ctx context.Context, walletAddress string, value bool) (models.User, error) {
	return s.updateUser(ctx, walletAddress, map[string]interface{}{"is_legal_professional": value})
}

func (s *Service) updateUser(ctx context.Context, walletAddress string, values map[string]interface{}) (models.User, error) {
	var u models.User
	result := s.DB.WithContext(ctx).
		Model(&u).
		Clauses(clause.Returning{}).
		Where("wallet_address = ?", walletAddress).
		Updates(values)
	if result.Error != nil {
		return models.User{}, fmt.Errorf("update user %s: %w", walletAddress, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

// GetLeaderboard returns the top limit users by token balance; ties are
// broken by registration order.
func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Order("tokens DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return users, nil
}
