package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/visabuddy/visabuddy-backend/internal/data/repos"
	types "github.com/visabuddy/visabuddy-backend/internal/domain"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type QuestionnaireHandler struct {
	log  *logger.Logger
	repo repos.QuestionnaireRepo
}

func NewQuestionnaireHandler(log *logger.Logger, repo repos.QuestionnaireRepo) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		log:  log.With("handler", "QuestionnaireHandler"),
		repo: repo,
	}
}

type submitQuestionnaireRequest struct {
	UserID  uuid.UUID      `json:"userId" binding:"required"`
	Payload map[string]any `json:"payload" binding:"required"`
}

// POST /api/questionnaires
// Store the raw payload as submitted. Normalization happens at generation
// time, so old rows pick up classifier fixes without resubmission.
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	var req submitQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	raw, err := jsonBytes(req.Payload)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	q := &types.Questionnaire{
		UserID:  req.UserID,
		Payload: datatypes.JSON(raw),
	}
	if err := h.repo.Upsert(c.Request.Context(), nil, q); err != nil {
		h.log.Error("upsert questionnaire", "user_id", req.UserID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func jsonBytes(m map[string]any) ([]byte, error) {
	return json.Marshal(m)
}
