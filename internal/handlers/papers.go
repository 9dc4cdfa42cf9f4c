package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paperpub/backend/internal/models"
)

// PaperHandler is the thin CRUD surface over the paper metadata index. The
// discussion core never touches it; it only carries the external identifier
// that pubs are keyed on.
type PaperHandler struct {
	db *gorm.DB
}

func NewPaperHandler(db *gorm.DB) *PaperHandler {
	return &PaperHandler{db: db}
}

// CreatePaper registers paper metadata (PROTECTED)
func (h *PaperHandler) CreatePaper(c *gin.Context) {
	var input models.CreatePaperRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "external_id and title are required"})
		return
	}

	var existing models.Paper
	if err := h.db.Where("external_id = ?", input.ExternalID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Paper already registered"})
		return
	}

	paper := models.Paper{
		ExternalID: input.ExternalID,
		Title:      input.Title,
		Authors:    input.Authors,
		Abstract:   input.Abstract,
		DOI:        input.DOI,
		URL:        input.URL,
	}
	if err := h.db.Create(&paper).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register paper"})
		return
	}

	c.JSON(http.StatusCreated, paper)
}

// GetPaper returns a paper by its external identifier
func (h *PaperHandler) GetPaper(c *gin.Context) {
	externalID := c.Param("paperId")

	var paper models.Paper
	if err := h.db.Where("external_id = ?", externalID).First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}

	c.JSON(http.StatusOK, paper)
}

// UpdatePaper patches paper metadata (PROTECTED)
func (h *PaperHandler) UpdatePaper(c *gin.Context) {
	externalID := c.Param("paperId")

	var paper models.Paper
	if err := h.db.Where("external_id = ?", externalID).First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}

	var input struct {
		Title    string `json:"title"`
		Authors  string `json:"authors"`
		Abstract string `json:"abstract"`
		DOI      string `json:"doi"`
		URL      string `json:"url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != "" {
		paper.Title = input.Title
	}
	if input.Authors != "" {
		paper.Authors = input.Authors
	}
	if input.Abstract != "" {
		paper.Abstract = input.Abstract
	}
	if input.DOI != "" {
		paper.DOI = input.DOI
	}
	if input.URL != "" {
		paper.URL = input.URL
	}

	if err := h.db.Save(&paper).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update paper"})
		return
	}

	c.JSON(http.StatusOK, paper)
}
