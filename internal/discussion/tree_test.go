package discussion

import (
	"testing"
	"time"

	"github.com/paperpub/backend/internal/models"
)

func reply(id int, parentID *int) models.Reply {
	return models.Reply{
		ID:        id,
		ThreadID:  1,
		ParentID:  parentID,
		Body:      "body",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, id, 0, time.UTC),
	}
}

func intp(v int) *int { return &v }

func TestBuildReplyTreeNesting(t *testing.T) {
	// A(root), B under A, C under B, D(root).
	replies := []models.Reply{
		reply(1, nil),
		reply(2, intp(1)),
		reply(3, intp(2)),
		reply(4, nil),
	}

	roots := BuildReplyTree(replies)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != 1 || roots[1].ID != 4 {
		t.Fatalf("roots out of order: %d, %d", roots[0].ID, roots[1].ID)
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("expected D to have no children, got %d", len(roots[1].Children))
	}

	a := roots[0]
	if len(a.Children) != 1 || a.Children[0].ID != 2 {
		t.Fatalf("expected B under A, got %+v", a.Children)
	}
	b := a.Children[0]
	if len(b.Children) != 1 || b.Children[0].ID != 3 {
		t.Fatalf("expected C under B, got %+v", b.Children)
	}
}

func TestBuildReplyTreePromotesOrphans(t *testing.T) {
	// B's parent A was soft-deleted and filtered out of the input, so B and
	// its subtree are flattened up to root level.
	replies := []models.Reply{
		reply(2, intp(1)),
		reply(3, intp(2)),
	}

	roots := BuildReplyTree(replies)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if roots[0].ID != 2 {
		t.Fatalf("expected orphan B promoted to root, got %d", roots[0].ID)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].ID != 3 {
		t.Fatalf("expected C kept under B, got %+v", roots[0].Children)
	}
}

func TestBuildReplyTreeKeepsSiblingOrder(t *testing.T) {
	replies := []models.Reply{
		reply(1, nil),
		reply(2, intp(1)),
		reply(3, intp(1)),
		reply(4, intp(1)),
	}

	roots := BuildReplyTree(replies)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	children := roots[0].Children
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	for i, want := range []int{2, 3, 4} {
		if children[i].ID != want {
			t.Errorf("child %d: expected id %d, got %d", i, want, children[i].ID)
		}
	}
}

func TestBuildReplyTreeEmpty(t *testing.T) {
	if roots := BuildReplyTree(nil); len(roots) != 0 {
		t.Fatalf("expected no roots, got %d", len(roots))
	}
}
