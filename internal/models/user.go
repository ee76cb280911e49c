package models

import "time"

// User is a platform participant identified by a wallet address.
// Records are created lazily on first registration and never deleted.
type User struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletAddress string `gorm:"type:text;not null;uniqueIndex" json:"walletAddress"`
	// Tokens is the Civic Token balance. Donations can drive it below zero.
	Tokens              int64     `gorm:"not null;default:0" json:"tokens"`
	ComplaintsSubmitted int64     `gorm:"not null;default:0" json:"complaintsSubmitted"`
	DonationsMade       int64     `gorm:"not null;default:0" json:"donationsMade"`
	CasesResolved       int64     `gorm:"not null;default:0" json:"casesResolved"`
	IsLegalProfessional bool      `gorm:"not null;default:false" json:"isLegalProfessional"`
	CreatedAt           time.Time `json:"createdAt"`
}

// StatsDelta is a set of increments applied to a user in a single atomic step.
// Zero fields leave the corresponding value untouched.
type StatsDelta struct {
	Tokens              int64
	ComplaintsSubmitted int64
	DonationsMade       int64
	CasesResolved       int64
}

// IsZero reports whether applying d would change nothing.
func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// Apply adds d to u in place.
func (d StatsDelta) Apply(u *User) {
	u.Tokens += d.Tokens
	u.ComplaintsSubmitted += d.ComplaintsSubmitted
	u.DonationsMade += d.DonationsMade
	u.CasesResolved += d.CasesResolved
}
