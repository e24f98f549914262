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
	"github.com/reuniteapp/reunite-backend/internal/pkg/ctxutil"
	"github.com/reuniteapp/reunite-backend/internal/services"
	"github.com/reuniteapp/reunite-backend/internal/types"
)

type QueueHandler struct {
	queue services.QueueService
}

func NewQueueHandler(queue services.QueueService) *QueueHandler {
	return &QueueHandler{queue: queue}
}

// GET /api/tips/verification/queue
func (h *QueueHandler) ListQueue(c *gin.Context) {
	filter, err := parseQueueFilter(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}

	result, err := h.queue.List(c.Request.Context(), filter)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, result)
}

type queueActionRequest struct {
	QueueItemID string `json:"queueItemId" binding:"required"`
	Action      string `json:"action" binding:"required"`
	AssignTo    string `json:"assignTo"`
	Notes       string `json:"notes"`
}

// POST /api/tips/verification/queue
func (h *QueueHandler) QueueAction(c *gin.Context) {
	var req queueActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	itemID, err := uuid.Parse(req.QueueItemID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("queueItemId must be a uuid"))
		return
	}

	ctx := c.Request.Context()
	var item *types.VerificationQueueItem
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "claim":
		item, err = h.queue.Claim(ctx, itemID)
	case "assign":
		var assignTo uuid.UUID
		assignTo, err = uuid.Parse(req.AssignTo)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("assignTo must be a uuid"))
			return
		}
		item, err = h.queue.Assign(ctx, itemID, assignTo)
	case "release":
		item, err = h.queue.Release(ctx, itemID)
	case "resolve":
		item, err = h.queue.Complete(ctx, itemID, types.QueueStatusResolved, req.Notes)
	case "escalate":
		item, err = h.queue.Complete(ctx, itemID, types.QueueStatusEscalated, req.Notes)
	default:
		response.RespondError(c, http.StatusBadRequest, "validation_error", fmt.Errorf("unknown action %q", req.Action))
		return
	}
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"queue_item": item})
}

func parseQueueFilter(c *gin.Context) (tipsRepo.QueueListFilter, error) {
	var filter tipsRepo.QueueListFilter

	if raw := strings.TrimSpace(c.Query("queueType")); raw != "" {
		qt := types.QueueType(raw)
		switch qt {
		case types.QueueTypeCritical, types.QueueTypeHighPriority, types.QueueTypeStandard, types.QueueTypeLowPriority:
			filter.QueueType = &qt
		default:
			return filter, fmt.Errorf("unknown queueType %q", raw)
		}
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st := types.QueueItemStatus(raw)
		switch st {
		case types.QueueStatusPending, types.QueueStatusInReview, types.QueueStatusResolved, types.QueueStatusEscalated:
			filter.Status = &st
		default:
			return filter, fmt.Errorf("unknown status %q", raw)
		}
	}
	if raw := strings.TrimSpace(c.Query("assignedTo")); raw != "" {
		assignee, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("assignedTo must be a uuid")
		}
		filter.AssignedTo = &assignee
	}
	if raw := strings.TrimSpace(c.Query("myQueue")); raw != "" {
		mine, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("myQueue must be a boolean")
		}
		if mine {
			rd := ctxutil.GetRequestData(c.Request.Context())
			if rd == nil || rd.UserID == uuid.Nil {
				return filter, fmt.Errorf("myQueue requires an authenticated caller")
			}
			userID := rd.UserID
			filter.AssignedTo = &userID
		}
	}

	var err error
	filter.Limit, filter.Offset, err = parsePage(c)
	return filter, err
}
