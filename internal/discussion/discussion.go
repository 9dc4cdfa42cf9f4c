// Package discussion implements the per-paper forum engine: one pub per
// paper, threads inside pubs, nested replies inside threads, and a vote
// ledger with denormalized counters on the targets. Deletion is always a
// tombstone flag; ids stay resolvable forever.
package discussion

import (
	"context"

	"github.com/paperpub/backend/internal/models"
)

// TargetType identifies what a vote points at.
type TargetType string

const (
	TargetThread TargetType = "thread"
	TargetReply  TargetType = "reply"
)

// Thread sort modes accepted by ThreadStore.List.
const (
	SortNewest = "" // default, newest first
	SortOldest = "oldest"
	SortNet    = "upvotes" // net score desc, newest first as tiebreak
)

// Reply sort modes accepted by ReplyStore.List.
const (
	SortConversation = ""          // default, oldest first
	SortReplyNet     = "votes"     // net score desc, oldest first as tiebreak
	SortReplyUp      = "upvotes"   // raw upvote counter desc
	SortReplyDown    = "downvotes" // raw downvote counter desc
)

// PubRegistry maps an external paper identifier to exactly one pub.
type PubRegistry interface {
	// Open creates the pub for paperID. Returns ErrConflict when one already
	// exists; callers are expected to look up first.
	Open(ctx context.Context, paperID string) (*models.Pub, error)

	// FindByPaper returns the pub for paperID, or nil when there is none.
	FindByPaper(ctx context.Context, paperID string) (*models.Pub, error)

	// Get resolves a pub by its id, or returns ErrNotFound.
	Get(ctx context.Context, pubID int) (*models.Pub, error)
}

// StartThread carries the inputs for ThreadStore.Start.
type StartThread struct {
	PubID       int
	AuthorID    int
	Body        string
	Title       string
	AnchorID    string // empty means no anchor
	IsAnonymous bool
}

// ListThreads carries the read-side filters for ThreadStore.List.
type ListThreads struct {
	PubID          int
	AnchorID       *string
	IncludeDeleted bool
	SortBy         string
	UserID         *int // when set, annotate each thread with this user's vote
}

// ThreadStore manages thread lifecycle inside a pub.
type ThreadStore interface {
	Start(ctx context.Context, in StartThread) (*models.Thread, error)
	Get(ctx context.Context, threadID int) (*models.Thread, error)

	// Edit always updates body and editedAt; title only when non-nil.
	Edit(ctx context.Context, threadID int, body string, title *string) (*models.Thread, error)

	// Delete tombstones the thread and cascades the tombstone onto every
	// reply currently under it. The cascade is a best-effort bulk update,
	// not a transaction with the thread update.
	Delete(ctx context.Context, threadID int) error

	// List never fails: on an internal read error it degrades to an empty
	// result set.
	List(ctx context.Context, in ListThreads) []models.Thread
}

// CreateReply carries the inputs for ReplyStore.Create.
type CreateReply struct {
	ThreadID    int
	AuthorID    int
	Body        string
	AnchorID    string
	ParentID    *int
	IsAnonymous bool
}

// ListReplies carries the read-side filters for ReplyStore.List.
type ListReplies struct {
	ThreadID       int
	IncludeDeleted bool
	SortBy         string
}

// ReplyStore manages replies inside a thread, optionally nested under a
// parent reply. Nesting is a stored parent pointer only; the tree shape is
// reconstructed at read time by BuildReplyTree.
type ReplyStore interface {
	Create(ctx context.Context, in CreateReply) (*models.Reply, error)
	Get(ctx context.Context, replyID int) (*models.Reply, error)
	Edit(ctx context.Context, replyID int, body string) (*models.Reply, error)
	Delete(ctx context.Context, replyID int) error

	// List never fails; see ThreadStore.List.
	List(ctx context.Context, in ListReplies) []models.Reply
}

// VoteResult is what a cast returns: the target's counters after the update
// and the caller's vote state (nil when the cast toggled the vote off).
type VoteResult struct {
	Upvotes         int  `json:"upvotes"`
	Downvotes       int  `json:"downvotes"`
	CurrentUserVote *int `json:"current_user_vote"`
}

// VoteLedger records one signed vote per (user, target) pair and keeps the
// denormalized counters on the target in step.
type VoteLedger interface {
	// Cast applies the toggle state machine: no vote inserts, same sign
	// removes, opposite sign switches. Counters are floored at zero.
	Cast(ctx context.Context, target TargetType, targetID, userID, sign int) (*VoteResult, error)

	// UserVote returns the user's current sign on the target, or 0 for none.
	UserVote(ctx context.Context, userID int, target TargetType, targetID int) (int, error)

	// UserVotes is the batched form used to annotate listings.
	UserVotes(ctx context.Context, userID int, target TargetType, targetIDs []int) (map[int]int, error)
}
