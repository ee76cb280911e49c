package config

const (
	// Rewards
	SubmissionReward = 10

	// Leaderboard
	LeaderboardSize = 10

	// Complaint defaults
	DefaultComplaintStatus = "pending"
	DefaultComplaintType   = "community"
	DefaultUrgency         = "medium"
	DefaultPrivacy         = "public"
	ResolvedStatus         = "resolved"
)

// Urgencies lists the urgency levels a reviewer may suggest, lowest first.
var Urgencies = []string{"low", "medium", "high", "critical"}

// PrivacyLevels lists the accepted complaint visibility settings.
var PrivacyLevels = []string{"public", "private", "anonymous"}
