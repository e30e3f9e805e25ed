package graph

import (
	"strings"

	"github.com/loamkb/loam/internal/model"
)

// pathTrie indexes notes by their "/"-separated path segments, keyed
// case-insensitively. It supports folder-scoped collection and per-segment
// glob matching without scanning the whole store.
type pathTrie struct {
	root *pathNode
}

type pathNode struct {
	children map[string]*pathNode

	// notes whose path terminates at this node. Paths are not identity, so
	// more than one note can share a path.
	notes []*model.Note
}

func newPathTrie() *pathTrie {
	return &pathTrie{root: newPathNode()}
}

func newPathNode() *pathNode {
	return &pathNode{children: make(map[string]*pathNode)}
}

func (t *pathTrie) insert(segments []string, n *model.Note) {
	node := t.root
	for _, seg := range segments {
		key := strings.ToLower(seg)
		child, ok := node.children[key]
		if !ok {
			child = newPathNode()
			node.children[key] = child
		}
		node = child
	}
	node.notes = append(node.notes, n)
}

func (t *pathTrie) remove(segments []string, n *model.Note) {
	// Walk down, remembering the path for pruning on the way back.
	type step struct {
		parent *pathNode
		key    string
	}
	var steps []step

	node := t.root
	for _, seg := range segments {
		key := strings.ToLower(seg)
		child, ok := node.children[key]
		if !ok {
			return
		}
		steps = append(steps, step{parent: node, key: key})
		node = child
	}

	for i, note := range node.notes {
		if note == n {
			node.notes = append(node.notes[:i], node.notes[i+1:]...)
			break
		}
	}

	// Prune now-empty nodes bottom-up.
	for i := len(steps) - 1; i >= 0; i-- {
		child := steps[i].parent.children[steps[i].key]
		if len(child.notes) == 0 && len(child.children) == 0 {
			delete(steps[i].parent.children, steps[i].key)
		}
	}
}

// collect returns every note at or under the given folder segments.
func (t *pathTrie) collect(segments []string) []*model.Note {
	node := t.root
	for _, seg := range segments {
		child, ok := node.children[strings.ToLower(seg)]
		if !ok {
			return nil
		}
		node = child
	}

	var out []*model.Note
	node.walk(func(n *model.Note) {
		out = append(out, n)
	})
	return out
}

func (node *pathNode) walk(fn func(*model.Note)) {
	for _, n := range node.notes {
		fn(n)
	}
	for _, child := range node.children {
		child.walk(fn)
	}
}

// match returns notes whose full path matches the pattern segments exactly
// (same segment count). Each pattern segment is a literal, "*", "prefix*",
// or "*suffix"; a wildcard never spans more than one segment.
func (t *pathTrie) match(patterns []string) []*model.Note {
	if len(patterns) == 0 {
		return nil
	}
	var out []*model.Note
	matchNode(t.root, patterns, &out)
	return out
}

func matchNode(node *pathNode, patterns []string, out *[]*model.Note) {
	if len(patterns) == 0 {
		*out = append(*out, node.notes...)
		return
	}

	pat := strings.ToLower(patterns[0])
	rest := patterns[1:]

	// Literal segments hit the child map directly.
	if !strings.Contains(pat, "*") {
		if child, ok := node.children[pat]; ok {
			matchNode(child, rest, out)
		}
		return
	}

	for key, child := range node.children {
		if segmentMatch(pat, key) {
			matchNode(child, rest, out)
		}
	}
}

// segmentMatch matches one lowercased pattern segment against one lowercased
// path segment.
func segmentMatch(pat, seg string) bool {
	switch {
	case pat == "*":
		return true
	case strings.HasPrefix(pat, "*") && strings.HasSuffix(pat, "*") && len(pat) > 1:
		return strings.Contains(seg, pat[1:len(pat)-1])
	case strings.HasSuffix(pat, "*"):
		return strings.HasPrefix(seg, pat[:len(pat)-1])
	case strings.HasPrefix(pat, "*"):
		return strings.HasSuffix(seg, pat[1:])
	default:
		return pat == seg
	}
}
