package discussion

import "github.com/paperpub/backend/internal/models"

// ReplyNode is a reply with its nested children, reconstructed from the flat
// parent pointers.
type ReplyNode struct {
	models.Reply
	Children []*ReplyNode `json:"children"`
}

// BuildReplyTree turns a flat, time-ordered reply list into a forest. Each
// reply attaches to its parent when the parent is present in the input;
// otherwise it becomes a root. Roots and children keep the input order.
//
// A reply whose parent was filtered out (soft-deleted, typically) is
// therefore promoted to root rather than dropped.
func BuildReplyTree(replies []models.Reply) []*ReplyNode {
	nodes := make(map[int]*ReplyNode, len(replies))
	for i := range replies {
		nodes[replies[i].ID] = &ReplyNode{Reply: replies[i], Children: []*ReplyNode{}}
	}

	roots := make([]*ReplyNode, 0, len(replies))
	for i := range replies {
		node := nodes[replies[i].ID]
		if pid := replies[i].ParentID; pid != nil {
			if parent, ok := nodes[*pid]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
