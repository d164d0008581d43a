package order

import (
	"github.com/tidwall/btree"
)

// PathHint lets a caller that knows roughly where successive operations will land reuse the
// tree's internal iterator position across calls, avoiding a full root-to-leaf walk each time.
type PathHint = btree.PathHint

type tidwallBtree struct {
	tree     *btree.BTreeG[Item]
	PathHint *btree.PathHint
}

// NewTidwallBtree builds a Btree backed by github.com/tidwall/btree, ordered by less. NoLocks is
// safe because the Wishlist is single-threaded cooperative; Degree 64 matches the tuning used for
// equivalent ordered-candidate-set structures elsewhere in the ecosystem.
func NewTidwallBtree(less func(a, b Item) bool) *tidwallBtree {
	return &tidwallBtree{
		tree: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true, Degree: 64}),
	}
}

func (me *tidwallBtree) Add(item Item) {
	if _, ok := me.tree.SetHint(item, me.PathHint); ok {
		panic("shouldn't already have this")
	}
}

func (me *tidwallBtree) Delete(item Item) {
	_, deleted := me.tree.DeleteHint(item, me.PathHint)
	mustValue(deleted, item)
}

func (me *tidwallBtree) Contains(item Item) bool {
	_, ok := me.tree.Get(item)
	return ok
}

func (me *tidwallBtree) Scan(f func(Item) bool) {
	me.tree.Scan(f)
}

func mustValue[V any](b bool, panicValue V) {
	if !b {
		panic(panicValue)
	}
}
