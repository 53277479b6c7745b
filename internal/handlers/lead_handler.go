package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdesk/internal/models"
	"crmdesk/internal/services"
)

type LeadHandler struct {
	Service *services.LeadService
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{Service: service}
}

// @Summary      Capture lead
// @Description  Public contact form endpoint; notifies the sales team
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        lead  body      models.LeadInput  true  "Lead"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var in models.LeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	lead, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, "leads", "create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Lead created successfully", "leadId": lead.ID})
}

// @Summary      List leads
// @Tags         Leads
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   models.Lead
// @Failure      401  {object}  map[string]string
// @Router       /leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	list, err := h.Service.List(c.Request.Context())
	if err != nil {
		respondError(c, "leads", "list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Get lead
// @Tags         Leads
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Lead ID"
// @Success      200  {object}  models.Lead
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id} [get]
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	lead, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "leads", "get", err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// @Summary      Update lead status
// @Tags         Leads
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "Lead ID"
// @Param        body  body  models.LeadStatusInput  true  "Status"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id} [put]
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in models.LeadStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if err := h.Service.UpdateStatus(c.Request.Context(), id, in.Status); err != nil {
		respondError(c, "leads", "status", err)
		return
	}
	adminID, _ := adminFromCtx(c)
	c.JSON(http.StatusOK, gin.H{"message": "Lead updated successfully", "updatedBy": adminID})
}

// @Summary      Add lead note
// @Tags         Leads
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "Lead ID"
// @Param        body  body  models.LeadNoteInput  true  "Note"
// @Success      201  {object}  models.LeadNote
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id}/notes [post]
func (h *LeadHandler) AddNote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in models.LeadNoteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Note is required"})
		return
	}
	note, err := h.Service.AddNote(c.Request.Context(), id, in.Note)
	if err != nil {
		respondError(c, "leads", "add_note", err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// @Summary      List lead notes
// @Tags         Leads
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "Lead ID"
// @Success      200  {array}   models.LeadNote
// @Failure      404  {object}  map[string]string
// @Router       /leads/{id}/notes [get]
func (h *LeadHandler) ListNotes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	notes, err := h.Service.ListNotes(c.Request.Context(), id)
	if err != nil {
		respondError(c, "leads", "notes", err)
		return
	}
	c.JSON(http.StatusOK, notes)
}
