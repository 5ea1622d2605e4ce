package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visabuddy/visabuddy-backend/internal/checklist"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type ProbabilityHandler struct {
	log *logger.Logger
	gen *checklist.ProbabilityGenerator
}

func NewProbabilityHandler(log *logger.Logger, gen *checklist.ProbabilityGenerator) *ProbabilityHandler {
	return &ProbabilityHandler{
		log: log.With("handler", "ProbabilityHandler"),
		gen: gen,
	}
}

type probabilityRequest struct {
	Questionnaire map[string]any `json:"questionnaire" binding:"required"`
}

// POST /api/probability
// Approval probability analysis from a raw questionnaire payload. The
// endpoint is stateless: the payload comes in the request body, nothing is
// stored.
func (h *ProbabilityHandler) Analyze(c *gin.Context) {
	var req probabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	raw, err := jsonBytes(req.Questionnaire)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_questionnaire", err)
		return
	}
	cctx := checklist.BuildContext(raw)
	RespondOK(c, h.gen.Generate(c.Request.Context(), cctx))
}
