package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tipsRepo "github.com/reuniteapp/reunite-backend/internal/data/repos/tips"
	"github.com/reuniteapp/reunite-backend/internal/http/response"
	"github.com/reuniteapp/reunite-backend/internal/services"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type VerificationHandler struct {
	verifications services.VerificationService
}

func NewVerificationHandler(verifications services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifications: verifications}
}

type verifyRequest struct {
	TipID               string `json:"tipId" binding:"required"`
	ForceReVerification bool   `json:"forceReVerification"`
}

// POST /api/tips/verification
func (h *VerificationHandler) VerifyTip(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	tipID, err := uuid.Parse(req.TipID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("tipId must be a uuid"))
		return
	}

	result, err := h.verifications.Verify(c.Request.Context(), tipID, req.ForceReVerification)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

// GET /api/tips/verification
func (h *VerificationHandler) ListVerifications(c *gin.Context) {
	filter, err := parseVerificationFilter(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}

	records, total, err := h.verifications.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"verifications": records, "total": total})
}

func parseVerificationFilter(c *gin.Context) (tipsRepo.VerificationListFilter, error) {
	var filter tipsRepo.VerificationListFilter

	if raw := strings.TrimSpace(c.Query("caseId")); raw != "" {
		caseID, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("caseId must be a uuid")
		}
		filter.CaseID = &caseID
	}
	if raw := strings.TrimSpace(c.Query("priorityBucket")); raw != "" {
		bucket := types.PriorityBucket(raw)
		switch bucket {
		case types.PriorityBucketCritical, types.PriorityBucketHigh, types.PriorityBucketStandard, types.PriorityBucketLow:
			filter.PriorityBucket = &bucket
		default:
			return filter, fmt.Errorf("unknown priorityBucket %q", raw)
		}
	}
	if raw := strings.TrimSpace(c.Query("requiresReview")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("requiresReview must be a boolean")
		}
		filter.RequiresReview = &v
	}
	// status is an alias kept for older dashboard clients.
	if raw := strings.TrimSpace(c.Query("reviewOutcome")); raw != "" {
		filter.ReviewOutcome = &raw
	} else if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		filter.ReviewOutcome = &raw
	}

	var err error
	filter.Limit, filter.Offset, err = parsePage(c)
	return filter, err
}

func parsePage(c *gin.Context) (limit, offset int, err error) {
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("limit must be a non-negative integer")
		}
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return limit, offset, nil
}
