package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paperpub/backend/internal/discussion"
	"github.com/paperpub/backend/internal/models"
)

type PubHandler struct {
	pubs discussion.PubRegistry
}

func NewPubHandler(pubs discussion.PubRegistry) *PubHandler {
	return &PubHandler{pubs: pubs}
}

// OpenPub creates the discussion space for a paper (PROTECTED). Each paper
// gets exactly one; a second open returns 409.
func (h *PubHandler) OpenPub(c *gin.Context) {
	var input models.OpenPubRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paper_id is required"})
		return
	}

	pub, err := h.pubs.Open(c.Request.Context(), input.PaperID)
	if err != nil {
		writeStoreError(c, err, "Failed to open pub")
		return
	}

	c.JSON(http.StatusCreated, pub)
}

// GetPubByPaper resolves the pub for a paper identifier.
func (h *PubHandler) GetPubByPaper(c *gin.Context) {
	paperID := c.Param("paperId")

	pub, err := h.pubs.FindByPaper(c.Request.Context(), paperID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up pub"})
		return
	}
	if pub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pub for this paper"})
		return
	}

	c.JSON(http.StatusOK, pub)
}
