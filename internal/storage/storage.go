// Package storage persists complaints and users. MemStore keeps everything in
// process memory; Service stores it in PostgreSQL through GORM.
package storage

import (
	"civicchain/backend/internal/models"
	"context"
	"errors"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
)

// Storage is the persistence contract used by the complaint service and the
// HTTP handlers. Every increment-style mutation is atomic per entity.
type Storage interface {
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	GetComplaint(ctx context.Context, id int64) (models.Complaint, error)
	CreateComplaint(ctx context.Context, in models.NewComplaint) (models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id int64, status string) (models.Complaint, error)
	AddDonation(ctx context.Context, id int64, amount int64) (models.Complaint, error)

	GetUser(ctx context.Context, walletAddress string) (models.User, error)
	CreateUser(ctx context.Context, walletAddress string) (models.User, error)
	GetOrCreateUser(ctx context.Context, walletAddress string) (models.User, bool, error)
	UpdateUserTokens(ctx context.Context, walletAddress string, delta int64) (models.User, error)
	UpdateUserStats(ctx context.Context, walletAddress string, delta models.StatsDelta) (models.User, error)
	SetLegalProfessional(ctx context.Context, walletAddress string, value bool) (models.User, error)
	GetLeaderboard(ctx context.Context, limit int) ([]models.User, error)
}

var (
	_ Storage = (*MemStore)(nil)
	_ Storage = (*Service)(nil)
)
