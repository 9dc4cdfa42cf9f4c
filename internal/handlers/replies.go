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

type ReplyHandler struct {
	threads discussion.ThreadStore
	replies discussion.ReplyStore
	votes   discussion.VoteLedger
}

func NewReplyHandler(threads discussion.ThreadStore, replies discussion.ReplyStore, votes discussion.VoteLedger) *ReplyHandler {
	return &ReplyHandler{threads: threads, replies: replies, votes: votes}
}

// replyResponse shapes a reply for the wire. The pub id is needed so
// anonymous authors get the same pseudonym as on their threads in this pub.
func replyResponse(r models.Reply, pubID int) gin.H {
	resp := gin.H{
		"id":           r.ID,
		"thread_id":    r.ThreadID,
		"body":         r.Body,
		"deleted":      r.Deleted,
		"is_anonymous": r.IsAnonymous,
		"upvotes":      r.Upvotes,
		"downvotes":    r.Downvotes,
		"created_at":   r.CreatedAt,
	}
	if r.ParentID != nil {
		resp["parent_id"] = *r.ParentID
	}
	if r.AnchorID != nil {
		resp["anchor_id"] = *r.AnchorID
	}
	if r.EditedAt != nil {
		resp["edited_at"] = *r.EditedAt
	}
	if r.CurrentUserVote != nil {
		resp["current_user_vote"] = *r.CurrentUserVote
	}
	if r.IsAnonymous {
		resp["author"] = pseudonym.Derive(r.AuthorID, pubID)
	} else {
		resp["author_id"] = r.AuthorID
	}
	return resp
}

func treeResponse(node *discussion.ReplyNode, pubID int) gin.H {
	resp := replyResponse(node.Reply, pubID)
	children := make([]gin.H, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, treeResponse(child, pubID))
	}
	resp["children"] = children
	return resp
}

// CreateReply posts a reply in a thread, optionally nested under a parent
// reply (PROTECTED)
func (h *ReplyHandler) CreateReply(c *gin.Context) {
	threadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid thread id"})
		return
	}

	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateReplyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body is required"})
		return
	}

	thread, err := h.threads.Get(c.Request.Context(), threadID)
	if err != nil {
		writeStoreError(c, err, "Failed to fetch thread")
		return
	}

	reply, err := h.replies.Create(c.Request.Context(), discussion.CreateReply{
		ThreadID:    threadID,
		AuthorID:    authorID,
		Body:        input.Body,
		AnchorID:    input.AnchorID,
		ParentID:    input.ParentID,
		IsAnonymous: input.IsAnonymous,
	})
	if err != nil {
		writeStoreError(c, err, "Failed to create reply")
		return
	}

	c.JSON(http.StatusCreated, replyResponse(*reply, thread.PubID))
}

// ListReplies returns a thread's replies flat, or as a nested tree with
// ?tree=true
func (h *ReplyHandler) ListReplies(c *gin.Context) {
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

	replies := h.replies.List(c.Request.Context(), discussion.ListReplies{
		ThreadID:       threadID,
		IncludeDeleted: c.Query("include_deleted") == "true",
		SortBy:         c.Query("sort"),
	})

	if userID, ok := extractUserID(c); ok && len(replies) > 0 {
		h.annotateVotes(c, userID, replies)
	}

	if c.Query("tree") == "true" {
		roots := discussion.BuildReplyTree(replies)
		responses := make([]gin.H, 0, len(roots))
		for _, root := range roots {
			responses = append(responses, treeResponse(root, thread.PubID))
		}
		c.JSON(http.StatusOK, responses)
		return
	}

	responses := make([]gin.H, 0, len(replies))
	for _, r := range replies {
		responses = append(responses, replyResponse(r, thread.PubID))
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ReplyHandler) annotateVotes(c *gin.Context, userID int, replies []models.Reply) {
	ids := make([]int, len(replies))
	for i, r := range replies {
		ids[i] = r.ID
	}
	signs, err := h.votes.UserVotes(c.Request.Context(), userID, discussion.TargetReply, ids)
	if err != nil {
		// Annotation is best-effort: serve the replies without it.
		log.Printf("annotate votes on thread %d replies: %v", replies[0].ThreadID, err)
		return
	}
	for i := range replies {
		if sign, ok := signs[replies[i].ID]; ok {
			s := sign
			replies[i].CurrentUserVote = &s
		}
	}
}

// UpdateReply edits a reply's body (PROTECTED - requires ownership)
func (h *ReplyHandler) UpdateReply(c *gin.Context) {
	replyID, err := strconv.Atoi(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.UpdateReplyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body is required"})
		return
	}

	reply, err := h.replies.Get(c.Request.Context(), replyID)
	if err != nil {
		writeStoreError(c, err, "Failed to fetch reply")
		return
	}
	if reply.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own replies"})
		return
	}

	updated, err := h.replies.Edit(c.Request.Context(), replyID, input.Body)
	if err != nil {
		writeStoreError(c, err, "Failed to update reply")
		return
	}

	thread, err := h.threads.Get(c.Request.Context(), updated.ThreadID)
	if err != nil {
		writeStoreError(c, err, "Failed to fetch thread")
		return
	}

	c.JSON(http.StatusOK, replyResponse(*updated, thread.PubID))
}

// DeleteReply tombstones a reply (PROTECTED - requires ownership). Nested
// children survive and are flattened upward in the read-side tree.
func (h *ReplyHandler) DeleteReply(c *gin.Context) {
	replyID, err := strconv.Atoi(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reply, err := h.replies.Get(c.Request.Context(), replyID)
	if err != nil {
		writeStoreError(c, err, "Failed to fetch reply")
		return
	}
	if reply.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own replies"})
		return
	}

	if err := h.replies.Delete(c.Request.Context(), replyID); err != nil {
		writeStoreError(c, err, "Failed to delete reply")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted successfully"})
}

// VoteReply casts, toggles or switches the caller's vote on a reply
// (PROTECTED)
func (h *ReplyHandler) VoteReply(c *gin.Context) {
	replyID, err := strconv.Atoi(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply id"})
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

	result, err := h.votes.Cast(c.Request.Context(), discussion.TargetReply, replyID, userID, input.Sign)
	if err != nil {
		writeStoreError(c, err, "Failed to vote")
		return
	}

	c.JSON(http.StatusOK, result)
}
