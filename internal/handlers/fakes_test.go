package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/paperpub/backend/internal/discussion"
	"github.com/paperpub/backend/internal/models"
)

// In-memory stand-ins for the discussion stores, just enough semantics for
// exercising the HTTP layer.

type fakePubs struct {
	nextID  int
	byPaper map[string]*models.Pub
	byID    map[int]*models.Pub
}

func newFakePubs() *fakePubs {
	return &fakePubs{byPaper: map[string]*models.Pub{}, byID: map[int]*models.Pub{}}
}

func (f *fakePubs) Open(_ context.Context, paperID string) (*models.Pub, error) {
	if _, ok := f.byPaper[paperID]; ok {
		return nil, fmt.Errorf("pub for paper %q: %w", paperID, discussion.ErrConflict)
	}
	f.nextID++
	pub := &models.Pub{ID: f.nextID, PaperID: paperID, CreatedAt: time.Now()}
	f.byPaper[paperID] = pub
	f.byID[pub.ID] = pub
	return pub, nil
}

func (f *fakePubs) FindByPaper(_ context.Context, paperID string) (*models.Pub, error) {
	return f.byPaper[paperID], nil
}

func (f *fakePubs) Get(_ context.Context, pubID int) (*models.Pub, error) {
	pub, ok := f.byID[pubID]
	if !ok {
		return nil, discussion.ErrNotFound
	}
	return pub, nil
}

type fakeThreads struct {
	pubs    *fakePubs
	nextID  int
	threads map[int]*models.Thread
}

func newFakeThreads(pubs *fakePubs) *fakeThreads {
	return &fakeThreads{pubs: pubs, threads: map[int]*models.Thread{}}
}

func (f *fakeThreads) Start(ctx context.Context, in discussion.StartThread) (*models.Thread, error) {
	if _, err := f.pubs.Get(ctx, in.PubID); err != nil {
		return nil, fmt.Errorf("pub %d: %w", in.PubID, discussion.ErrNotFound)
	}
	f.nextID++
	thread := &models.Thread{
		ID:          f.nextID,
		PubID:       in.PubID,
		AuthorID:    in.AuthorID,
		Title:       in.Title,
		Body:        in.Body,
		IsAnonymous: in.IsAnonymous,
		CreatedAt:   time.Now(),
	}
	if in.AnchorID != "" {
		anchor := in.AnchorID
		thread.AnchorID = &anchor
	}
	f.threads[thread.ID] = thread
	return thread, nil
}

func (f *fakeThreads) Get(_ context.Context, threadID int) (*models.Thread, error) {
	thread, ok := f.threads[threadID]
	if !ok {
		return nil, discussion.ErrNotFound
	}
	copied := *thread
	return &copied, nil
}

func (f *fakeThreads) Edit(_ context.Context, threadID int, body string, title *string) (*models.Thread, error) {
	thread, ok := f.threads[threadID]
	if !ok {
		return nil, discussion.ErrNotFound
	}
	now := time.Now()
	thread.Body = body
	thread.EditedAt = &now
	if title != nil {
		thread.Title = *title
	}
	copied := *thread
	return &copied, nil
}

func (f *fakeThreads) Delete(_ context.Context, threadID int) error {
	thread, ok := f.threads[threadID]
	if !ok {
		return discussion.ErrNotFound
	}
	now := time.Now()
	thread.Deleted = true
	thread.EditedAt = &now
	return nil
}

func (f *fakeThreads) List(_ context.Context, in discussion.ListThreads) []models.Thread {
	out := []models.Thread{}
	for _, thread := range f.threads {
		if thread.PubID != in.PubID {
			continue
		}
		if !in.IncludeDeleted && thread.Deleted {
			continue
		}
		out = append(out, *thread)
	}
	return out
}

type fakeReplies struct {
	threads *fakeThreads
	nextID  int
	replies map[int]*models.Reply
}

func newFakeReplies(threads *fakeThreads) *fakeReplies {
	return &fakeReplies{threads: threads, replies: map[int]*models.Reply{}}
}

func (f *fakeReplies) Create(ctx context.Context, in discussion.CreateReply) (*models.Reply, error) {
	if _, err := f.threads.Get(ctx, in.ThreadID); err != nil {
		return nil, fmt.Errorf("thread %d: %w", in.ThreadID, discussion.ErrNotFound)
	}
	if in.ParentID != nil {
		parent, ok := f.replies[*in.ParentID]
		if !ok {
			return nil, fmt.Errorf("parent reply %d: %w", *in.ParentID, discussion.ErrNotFound)
		}
		if parent.ThreadID != in.ThreadID {
			return nil, discussion.ErrMismatch
		}
	}
	f.nextID++
	reply := &models.Reply{
		ID:          f.nextID,
		ThreadID:    in.ThreadID,
		ParentID:    in.ParentID,
		AuthorID:    in.AuthorID,
		Body:        in.Body,
		IsAnonymous: in.IsAnonymous,
		CreatedAt:   time.Now(),
	}
	f.replies[reply.ID] = reply
	return reply, nil
}

func (f *fakeReplies) Get(_ context.Context, replyID int) (*models.Reply, error) {
	reply, ok := f.replies[replyID]
	if !ok {
		return nil, discussion.ErrNotFound
	}
	copied := *reply
	return &copied, nil
}

func (f *fakeReplies) Edit(_ context.Context, replyID int, body string) (*models.Reply, error) {
	reply, ok := f.replies[replyID]
	if !ok {
		return nil, discussion.ErrNotFound
	}
	now := time.Now()
	reply.Body = body
	reply.EditedAt = &now
	copied := *reply
	return &copied, nil
}

func (f *fakeReplies) Delete(_ context.Context, replyID int) error {
	reply, ok := f.replies[replyID]
	if !ok {
		return discussion.ErrNotFound
	}
	now := time.Now()
	reply.Deleted = true
	reply.EditedAt = &now
	return nil
}

func (f *fakeReplies) List(_ context.Context, in discussion.ListReplies) []models.Reply {
	out := []models.Reply{}
	// Creation order == id order for the fake.
	for id := 1; id <= f.nextID; id++ {
		reply, ok := f.replies[id]
		if !ok || reply.ThreadID != in.ThreadID {
			continue
		}
		if !in.IncludeDeleted && reply.Deleted {
			continue
		}
		out = append(out, *reply)
	}
	return out
}

type voteKey struct {
	target discussion.TargetType
	id     int
	user   int
}

type fakeLedger struct {
	threads *fakeThreads
	replies *fakeReplies
	votes   map[voteKey]int
}

func newFakeLedger(threads *fakeThreads, replies *fakeReplies) *fakeLedger {
	return &fakeLedger{threads: threads, replies: replies, votes: map[voteKey]int{}}
}

func (f *fakeLedger) counters(target discussion.TargetType, targetID int) (int, int) {
	var up, down int
	for key, sign := range f.votes {
		if key.target != target || key.id != targetID {
			continue
		}
		if sign > 0 {
			up++
		} else {
			down++
		}
	}
	return up, down
}

func (f *fakeLedger) Cast(ctx context.Context, target discussion.TargetType, targetID, userID, sign int) (*discussion.VoteResult, error) {
	switch target {
	case discussion.TargetThread:
		if _, err := f.threads.Get(ctx, targetID); err != nil {
			return nil, fmt.Errorf("thread %d: %w", targetID, discussion.ErrNotFound)
		}
	case discussion.TargetReply:
		if _, err := f.replies.Get(ctx, targetID); err != nil {
			return nil, fmt.Errorf("reply %d: %w", targetID, discussion.ErrNotFound)
		}
	}

	key := voteKey{target: target, id: targetID, user: userID}
	var current *int
	if existing, ok := f.votes[key]; ok && existing == sign {
		delete(f.votes, key)
	} else {
		f.votes[key] = sign
		s := sign
		current = &s
	}

	up, down := f.counters(target, targetID)
	return &discussion.VoteResult{Upvotes: up, Downvotes: down, CurrentUserVote: current}, nil
}

func (f *fakeLedger) UserVote(_ context.Context, userID int, target discussion.TargetType, targetID int) (int, error) {
	return f.votes[voteKey{target: target, id: targetID, user: userID}], nil
}

func (f *fakeLedger) UserVotes(_ context.Context, userID int, target discussion.TargetType, targetIDs []int) (map[int]int, error) {
	signs := map[int]int{}
	for _, id := range targetIDs {
		if sign, ok := f.votes[voteKey{target: target, id: id, user: userID}]; ok {
			signs[id] = sign
		}
	}
	return signs, nil
}

// erringLedger fails every read, standing in for an unreachable votes table.
type erringLedger struct {
	*fakeLedger
}

func (e *erringLedger) UserVote(context.Context, int, discussion.TargetType, int) (int, error) {
	return 0, fmt.Errorf("votes unavailable")
}

func (e *erringLedger) UserVotes(context.Context, int, discussion.TargetType, []int) (map[int]int, error) {
	return nil, fmt.Errorf("votes unavailable")
}
