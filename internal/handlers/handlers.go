package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/paperpub/backend/internal/discussion"
)

// Handler combines all handler types
type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	Paper  *PaperHandler
	Pub    *PubHandler
	Thread *ThreadHandler
	Reply  *ReplyHandler
}

// NewHandler creates a unified handler with all sub-handlers sharing one
// set of discussion stores.
func NewHandler(db *gorm.DB) *Handler {
	pubs := discussion.NewPubStore(db)
	threads := discussion.NewThreadStore(db)
	replies := discussion.NewReplyStore(db)
	votes := discussion.NewVoteLedger(db)

	return &Handler{
		Auth:   NewAuthHandler(db),
		User:   NewUserHandler(db),
		Paper:  NewPaperHandler(db),
		Pub:    NewPubHandler(pubs),
		Thread: NewThreadHandler(threads, votes),
		Reply:  NewReplyHandler(threads, replies, votes),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// writeStoreError maps discussion sentinel errors onto HTTP statuses.
func writeStoreError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, discussion.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, discussion.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, discussion.ErrMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
