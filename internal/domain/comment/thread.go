package comment

import "sort"

// arena indexes a contract's comments by ID for cycle-free thread traversal.
type arena struct {
	byID     map[string]*Comment
	children map[string][]*Comment
}

func newArena(comments []Comment) *arena {
	a := &arena{
		byID:     make(map[string]*Comment, len(comments)),
		children: make(map[string][]*Comment),
	}
	for i := range comments {
		c := &comments[i]
		a.byID[c.ID] = c
		if c.ParentID != nil {
			a.children[*c.ParentID] = append(a.children[*c.ParentID], c)
		}
	}
	for parent := range a.children {
		siblings := a.children[parent]
		sort.Slice(siblings, func(i, j int) bool {
			return siblings[i].ThreadPosition < siblings[j].ThreadPosition
		})
	}
	return a
}

// depth returns the distance from the comment to its thread root.
func (a *arena) depth(id string) int {
	depth := 0
	seen := map[string]struct{}{}
	for {
		c, ok := a.byID[id]
		if !ok || c.ParentID == nil {
			return depth
		}
		if _, cycle := seen[id]; cycle {
			return depth
		}
		seen[id] = struct{}{}
		id = *c.ParentID
		depth++
	}
}

// descendants flattens the full reply tree below root, depth-first, siblings
// in thread-position order.
func (a *arena) descendants(rootID string) []Comment {
	var out []Comment
	var walk func(id string)
	walk = func(id string) {
		for _, child := range a.children[id] {
			out = append(out, *child)
			walk(child.ID)
		}
	}
	walk(rootID)
	return out
}
