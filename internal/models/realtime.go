package models

// Feed event types pushed to live feed subscribers.
const (
	EventComplaintCreated = "complaint.created"
	EventComplaintStatus  = "complaint.status"
	EventComplaintDonated = "complaint.donated"
)

// FeedEvent is a complaint change broadcast to WebSocket subscribers and,
// when Redis is configured, to every API instance.
type FeedEvent struct {
	Type      string    `json:"type"`
	Complaint Complaint `json:"complaint"`
}
