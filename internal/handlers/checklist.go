package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visabuddy/visabuddy-backend/internal/app"
	"github.com/visabuddy/visabuddy-backend/internal/checklist"
	"github.com/visabuddy/visabuddy-backend/internal/platform/logger"
)

type ChecklistHandler struct {
	log *logger.Logger
	svc *app.ChecklistService
}

func NewChecklistHandler(log *logger.Logger, svc *app.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{
		log: log.With("handler", "ChecklistHandler"),
		svc: svc,
	}
}

type generateChecklistRequest struct {
	UserID        uuid.UUID `json:"userId" binding:"required"`
	ApplicationID uuid.UUID `json:"applicationId" binding:"required"`
	CountryCode   string    `json:"countryCode" binding:"required"`
	VisaType      string    `json:"visaType" binding:"required"`
	AppLanguage   string    `json:"appLanguage"`
}

type generateChecklistResponse struct {
	Outcome   string `json:"outcome"`
	Checklist any    `json:"checklist,omitempty"`
}

// POST /api/checklists/generate
// Run the full generation pipeline for one application. A nil pipeline
// result is a 200 with the outcome and no checklist; the client renders its
// generic fallback in that case.
func (h *ChecklistHandler) Generate(c *gin.Context) {
	var req generateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	resp, outcome := h.svc.Generate(c.Request.Context(), checklist.GenerateRequest{
		UserID:        req.UserID,
		ApplicationID: req.ApplicationID,
		CountryCode:   req.CountryCode,
		VisaType:      req.VisaType,
		AppLanguage:   req.AppLanguage,
	})

	out := generateChecklistResponse{Outcome: string(outcome)}
	if resp != nil {
		out.Checklist = resp.Checklist
	}
	RespondOK(c, out)
}

// GET /api/checklists/:applicationId
// Fetch a previously generated checklist.
func (h *ChecklistHandler) Get(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("applicationId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_application_id", err)
		return
	}

	resp, outcome, err := h.svc.GetStored(c.Request.Context(), applicationID)
	if err != nil {
		h.log.Error("load stored checklist", "application_id", applicationID, "error", err)
		RespondError(c, http.StatusInternalServerError, "storage_error", errors.New("could not load checklist"))
		return
	}
	if resp == nil {
		RespondError(c, http.StatusNotFound, "not_found", errors.New("no checklist for this application"))
		return
	}
	RespondOK(c, generateChecklistResponse{Outcome: string(outcome), Checklist: resp.Checklist})
}
