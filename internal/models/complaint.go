package models

import "time"

// Complaint types accepted by the submission flow.
const (
	ComplaintTypeCommunity = "community"
	ComplaintTypeLegal     = "legal"
)

// Complaint is a user-submitted report. It is only ever mutated by status
// updates and donation additions and is never deleted.
type Complaint struct {
	// ID is assigned sequentially by the store and never reused.
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:text" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Category    string `gorm:"type:text" json:"category"`
	Location    string `gorm:"type:text;not null" json:"location"`
	// EvidenceHash is an opaque reference (hash, IPFS CID or data URL) to the uploaded evidence.
	EvidenceHash string `gorm:"type:text;not null" json:"evidenceHash"`
	// Type is either "community" or "legal".
	Type          string `gorm:"type:text;not null;default:'community'" json:"type"`
	Status        string `gorm:"type:text;not null;default:'pending'" json:"status"`
	WalletAddress string `gorm:"type:text;not null;index" json:"walletAddress"`
	Donations     int64  `gorm:"not null;default:0" json:"donations"`
	Urgency       string `gorm:"type:text" json:"urgency,omitempty"`
	Privacy       string `gorm:"type:text" json:"privacy,omitempty"`
	AIAnalysis    string `gorm:"type:text" json:"aiAnalysis,omitempty"`
	// TxHash is the transaction hash when the client recorded the complaint on-chain.
	TxHash    string    `gorm:"type:text" json:"txHash,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComplaint carries the caller-supplied fields of a complaint. The store
// fills in the id, status, donation total and creation time.
type NewComplaint struct {
	Title         string
	Description   string
	Category      string
	Location      string
	EvidenceHash  string
	Type          string
	WalletAddress string
	Urgency       string
	Privacy       string
	AIAnalysis    string
	TxHash        string
}

// IsLegal reports whether the complaint goes through AI review.
func (c NewComplaint) IsLegal() bool {
	return c.Type == ComplaintTypeLegal
}
