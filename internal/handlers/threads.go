package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paperpub/backend/internal/discussion"
	"github.com/paperpub/backend/internal/models"
	"github.com/paperpub/backend/internal/pseudonym"
)

type ThreadHandler struct {
	threads discussion.ThreadStore
	votes   discussion.VoteLedger
}

func NewThreadHandler(threads discussion.ThreadStore, votes discussion.VoteLedger) *ThreadHandler {
	return &ThreadHandler{threads: threads, votes: votes}
}

// threadResponse shapes a thread for the wire. Anonymous threads expose a
// per-pub pseudonym instead of the author id.
func threadResponse(t models.Thread) gin.H {
	resp := gin.H{
		"id":           t.ID,
		"pub_id":       t.PubID,
		"title":        t.Title,
		"body":         t.Body,
		"deleted":      t.Deleted,
		"is_anonymous": t.IsAnonymous,
		"upvotes":      t.Upvotes,
		"downvotes":    t.Downvotes,
		"created_at":   t.CreatedAt,
	}
	if t.AnchorID != nil {
		resp["anchor_id"] = *t.AnchorID
	}
	if t.EditedAt != nil {
		resp["edited_at"] = *t.EditedAt
	}
	if t.CurrentUserVote != nil {
		resp["current_user_vote"] = *t.CurrentUserVote
	}
	if t.IsAnonymous {
		resp["author"] = pseudonym.Derive(t.AuthorID, t.PubID)
	} else {
		resp["author_id"] = t.AuthorID
	}
	return resp
}

// CreateThread starts a thread in a pub (PROTECTED)
func (h *ThreadHandler) CreateThread(c *gin.Context) {
	pubID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pub id"})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateThreadRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body is required"})
		return
	}

	thread, err := h.threads.Start(c.Request.Context(), discussion.StartThread{
		PubID:       pubID,
		AuthorID:    authorID,
		Body:        input.Body,
		Title:       input.Title,
		AnchorID:    input.AnchorID,
		IsAnonymous: input.IsAnonymous,
	})
	if err != nil {
		writeStoreError(c, err, "Failed to create thread")
		return
	}

	c.JSON(http.StatusCreated, threadResponse(*thread))
}

// ListThreads returns a pub's threads, filtered and sorted via query params.
// When the caller is authenticated their current vote is annotated on each
// thread.
func (h *ThreadHandler) ListThreads(c *gin.Context) {
	pubID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pub id"})
		return
	}

	in := discussion.ListThreads{
		PubID:          pubID,
		IncludeDeleted: c.Query("include_deleted") == "true",
		SortBy:         c.Query("sort"),
	}
	if anchor := c.Query("anchor"); anchor != "" {
		in.AnchorID = &anchor
	}
	if userID, ok := extractUserID(c); ok {
		in.UserID = &userID
	}

	threads := h.threads.List(c.Request.Context(), in)

	responses := make([]gin.H, 0, len(threads))
	for _, t := range threads {
		responses = append(responses, threadResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

// GetThread returns a single thread by id
func (h *ThreadHandler) GetThread(c *gin.Context) {
	threadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	thread, err := h.threads.Get(c.Request.Context(), threadID)
	if err != nil {
		writeStoreError(c, err, "Failed to fetch thread")
		return
	}

	if userID, ok := extractUserID(c); ok {
		sign, err := h.votes.UserVote(c.Request.Context(), userID, discussion.TargetThread, thread.ID)
		if err != nil {
			// Annotation is best-effort: serve the thread without it.
			log.Printf("annotate vote on thread %d: %v", thread.ID, err)
		} else if sign != 0 {
			thread.CurrentUserVote = &sign
		}
	}

	c.JSON(http.StatusOK, threadResponse(*thread))
}

// UpdateThread edits a thread's body, and title when supplied (PROTECTED -
// requires ownership)
func (h *ThreadHandler) UpdateThread(c *gin.Context) {
	threadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.UpdateThreadRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body is required"})
		return
	}

	thread, err := h.threads.Get(c.Request.Context(), threadID)
	if err != nil {
		writeStoreError(c, err, "Failed to fetch thread")
		return
	}
	if thread.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own threads"})
		return
	}

	updated, err := h.threads.Edit(c.Request.Context(), threadID, input.Body, input.Title)
	if err != nil {
		writeStoreError(c, err, "Failed to update thread")
		return
	}

	c.JSON(http.StatusOK, threadResponse(*updated))
}

// DeleteThread tombstones a thread and cascades onto its replies (PROTECTED -
// requires ownership)
func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	threadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	thread, err := h.threads.Get(c.Request.Context(), threadID)
	if err != nil {
		writeStoreError(c, err, "Failed to fetch thread")
		return
	}
	if thread.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own threads"})
		return
	}

	if err := h.threads.Delete(c.Request.Context(), threadID); err != nil {
		writeStoreError(c, err, "Failed to delete thread")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread deleted successfully"})
}

// VoteThread casts, toggles or switches the caller's vote on a thread
// (PROTECTED)
func (h *ThreadHandler) VoteThread(c *gin.Context) {
	threadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sign must be -1 or 1"})
		return
	}

	result, err := h.votes.Cast(c.Request.Context(), discussion.TargetThread, threadID, userID, input.Sign)
	if err != nil {
		writeStoreError(c, err, "Failed to vote")
		return
	}

	c.JSON(http.StatusOK, result)
}
