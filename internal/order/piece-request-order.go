// Package order holds the ordered-index half of the wishlist: a Btree-backed structure keyed by
// piece index, ordered by whichever comparator is currently active, supporting O(log n)
// insertion, removal, key update and ordered traversal.
package order

import (
	"iter"

	g "github.com/anacrolix/generics"
	"github.com/anacrolix/missinggo/v2/panicif"
)

// PieceIndex identifies a piece within a torrent.
type PieceIndex = int

// Btree is the pluggable backing store for an Index. Two implementations are provided:
// NewTidwallBtree and NewAjwernerBtree.
type Btree interface {
	Delete(Item)
	Add(Item)
	Scan(func(Item) bool)
	Contains(Item) bool
}

// State is the comparator-relevant projection of a candidate's fields. It mirrors the axes used
// by both the rarity-first and sequential comparators; SeqRank is only meaningful while the
// sequential comparator is active.
type State struct {
	Priority      int
	MissingBlocks int
	Replication   int
	Salt          uint32
	SeqRank       int
}

// Item is a single entry in the ordered index.
type Item struct {
	Piece PieceIndex
	State State
}

// NewIndex builds an empty Index over tree. cap is a size hint for the piece->state lookup map.
func NewIndex(tree Btree, cap int) *Index {
	return &Index{
		tree:   tree,
		states: make(map[PieceIndex]State, cap),
	}
}

// Index pairs a Btree (for ordered traversal) with a plain map (for O(1) point lookups), kept in
// lockstep. It contains exactly the current candidate set.
type Index struct {
	tree   Btree
	states map[PieceIndex]State
}

// Add inserts or replaces the state for piece, returning the previous state if piece was already
// present.
func (ix *Index) Add(piece PieceIndex, state State) (old g.Option[State]) {
	if old.Value, old.Ok = ix.states[piece]; old.Ok {
		if state == old.Value {
			return
		}
		ix.tree.Delete(Item{piece, old.Value})
	}
	ix.tree.Add(Item{piece, state})
	ix.states[piece] = state
	return
}

// Update repositions an existing piece under its new state. It panics if piece isn't present;
// callers that aren't sure should use Add instead.
func (ix *Index) Update(piece PieceIndex, state State) (changed bool) {
	old := ix.Add(piece, state)
	if !old.Ok {
		panic("piece should have already been present")
	}
	return old.Value != state
}

// Delete removes piece from the index, reporting whether it was present.
func (ix *Index) Delete(piece PieceIndex) (deleted bool) {
	state, ok := ix.states[piece]
	if !ok {
		return false
	}
	ix.tree.Delete(Item{piece, state})
	delete(ix.states, piece)
	return true
}

// Len returns the number of pieces currently indexed.
func (ix *Index) Len() int {
	return len(ix.states)
}

// Iter traverses the index from best to worst under its active comparator.
func (ix *Index) Iter() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		ix.tree.Scan(func(item Item) bool {
			return yield(item)
		})
	}
}

// Get returns the current state for piece, if it's indexed.
func (ix *Index) Get(piece PieceIndex) (ret g.Option[State]) {
	ret.Value, ret.Ok = ix.states[piece]
	panicif.NotEq(ret.Ok, ix.tree.Contains(Item{piece, ret.Value}))
	return
}
