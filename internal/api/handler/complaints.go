package handler

import (
	"civicchain/backend/internal/complaint"
	"civicchain/backend/internal/models"
	"civicchain/backend/internal/storage"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createComplaintRequest struct {
	Title         string `json:"title" binding:"max=200"`
	Description   string `json:"description" binding:"required"`
	Category      string `json:"category"`
	Location      string `json:"location" binding:"required"`
	EvidenceHash  string `json:"evidenceHash" binding:"required"`
	Type          string `json:"type" binding:"omitempty,oneof=community legal"`
	WalletAddress string `json:"walletAddress" binding:"required"`
	Urgency       string `json:"urgency" binding:"omitempty,oneof=low medium high critical"`
	Privacy       string `json:"privacy" binding:"omitempty,oneof=public private anonymous"`
	TxHash        string `json:"txHash"`
}

func (r createComplaintRequest) toModel() models.NewComplaint {
	return models.NewComplaint{
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Location:      r.Location,
		EvidenceHash:  r.EvidenceHash,
		Type:          r.Type,
		WalletAddress: r.WalletAddress,
		Urgency:       r.Urgency,
		Privacy:       r.Privacy,
		TxHash:        r.TxHash,
	}
}

type statusRequest struct {
	Status *string `json:"status"`
}

type donateRequest struct {
	Amount        *float64 `json:"amount"`
	WalletAddress string   `json:"walletAddress"`
}

func (h *Handler) ListComplaints(c *gin.Context) {
	complaints, err := h.Complaints.ListComplaints(c.Request.Context())
	if err != nil {
		h.internalError(c, "Failed to fetch complaints", err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	found, err := h.Complaints.GetComplaint(c.Request.Context(), id)
	if err != nil {
		h.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// CreateComplaint validates and submits a complaint. Legal complaints may be
// refused by the AI reviewer with 400 and a reason.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid complaint data", Errors: fieldErrors(err)})
		return
	}

	created, err := h.Complaints.Submit(c.Request.Context(), req.toModel())
	var rejected *complaint.RejectedError
	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid legal complaint", Reason: rejected.Reason})
		return
	case err != nil:
		h.internalError(c, "Failed to submit complaint", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid status"})
		return
	}

	updated, err := h.Complaints.UpdateStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		h.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Donate credits a complaint and debits the donor. The amount must be a
// positive whole number of tokens.
func (h *Handler) Donate(c *gin.Context) {
	id, ok := complaintID(c)
	if !ok {
		return
	}
	var req donateRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validAmount(req.Amount) {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid donation amount"})
		return
	}

	updated, err := h.Complaints.Donate(c.Request.Context(), id, req.WalletAddress, int64(*req.Amount))
	if err != nil {
		h.complaintError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func validAmount(amount *float64) bool {
	if amount == nil {
		return false
	}
	a := *amount
	return a > 0 && a == math.Trunc(a) && a <= math.MaxInt32
}

func complaintID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid complaint id"})
		return 0, false
	}
	return id, true
}

// complaintError maps a service error for a complaint route to a response.
func (h *Handler) complaintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, errorBody{Message: "Complaint not found"})
	case errors.Is(err, complaint.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid donation amount"})
	default:
		h.internalError(c, "Internal server error", err)
	}
}

func (h *Handler) internalError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	h.logger.Error(message,
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(requestIDHeader)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorBody{Message: message})
}
