package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const validatorSystemPrompt = "You are a legal complaint validator. Analyze the complaint and determine if it's a valid legal grievance. " +
	"Respond with JSON containing isValid (boolean), reason (string), suggestedUrgency (one of low, medium, high, critical), " +
	"suggestedPrivacy (one of public, private, anonymous) and analysis (a short summary of the legal issue)."

// VerdictKind tags the outcome of a legal complaint review.
type VerdictKind int

const (
	// VerdictApproved means the reviewer accepted the complaint.
	VerdictApproved VerdictKind = iota
	// VerdictRejected means the reviewer refused the complaint; Reason says why.
	VerdictRejected
	// VerdictUnavailable means no review took place. Callers apply the
	// default decision, which is to accept the complaint.
	VerdictUnavailable
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictApproved:
		return "approved"
	case VerdictRejected:
		return "rejected"
	case VerdictUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("VerdictKind(%d)", int(k))
	}
}

// Verdict is the result of ValidateLegalComplaint.
type Verdict struct {
	Kind             VerdictKind
	Reason           string
	SuggestedUrgency string
	SuggestedPrivacy string
	Analysis         string
}

// Accepted reports whether the complaint may be persisted. Unavailable
// verdicts accept, so a reviewer outage never blocks submissions.
func (v Verdict) Accepted() bool {
	return v.Kind != VerdictRejected
}

// Validator reviews legal complaints with a language model.
type Validator struct {
	client  Completer
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewValidator returns a Validator. A nil client makes every review
// VerdictUnavailable.
func NewValidator(client Completer, model string, timeout time.Duration, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{client: client, model: model, timeout: timeout, logger: logger}
}

type validationResponse struct {
	IsValid          *bool  `json:"isValid"`
	Reason           string `json:"reason"`
	SuggestedUrgency string `json:"suggestedUrgency"`
	SuggestedPrivacy string `json:"suggestedPrivacy"`
	Analysis         string `json:"analysis"`
}

// ValidateLegalComplaint asks the model whether the complaint is a legitimate
// legal grievance.
func (v *Validator) ValidateLegalComplaint(ctx context.Context, title, description, category string) Verdict {
	if v == nil || v.client == nil {
		return Verdict{Kind: VerdictUnavailable, Reason: "Validation service not configured"}
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf("Please validate this legal complaint:\nTitle: %s\nCategory: %s\nDescription: %s",
		title, category, description)

	content, err := v.client.Complete(ctx, CompletionRequest{
		Model: v.model,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: validatorSystemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		JSON: true,
	})
	if err != nil {
		v.logger.Warn("legal complaint validation failed", zap.Error(err))
		return Verdict{Kind: VerdictUnavailable, Reason: "Validation service unavailable"}
	}

	var parsed validationResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil || parsed.IsValid == nil {
		v.logger.Warn("unparseable validation response", zap.String("content", content), zap.Error(err))
		return Verdict{Kind: VerdictUnavailable, Reason: "Validation service returned an invalid response"}
	}

	verdict := Verdict{
		Kind:             VerdictApproved,
		Reason:           parsed.Reason,
		SuggestedUrgency: parsed.SuggestedUrgency,
		SuggestedPrivacy: parsed.SuggestedPrivacy,
		Analysis:         parsed.Analysis,
	}
	if !*parsed.IsValid {
		verdict.Kind = VerdictRejected
	}
	return verdict
}
