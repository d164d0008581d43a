package order

import (
	"github.com/anacrolix/btree"
)

type ajwernerBtree struct {
	btree btree.Set[Item]
}

// NewAjwernerBtree builds a Btree backed by github.com/anacrolix/btree (the ajwerner/btree
// fork), ordered by less. It's offered as an alternative to NewTidwallBtree so that either
// backend can be selected with WithBtree without touching the rest of the package.
func NewAjwernerBtree(less func(a, b Item) bool) *ajwernerBtree {
	return &ajwernerBtree{
		btree: btree.MakeSet(func(a, b Item) int {
			switch {
			case less(a, b):
				return -1
			case less(b, a):
				return 1
			default:
				return 0
			}
		}),
	}
}

var _ Btree = (*ajwernerBtree)(nil)

func (a *ajwernerBtree) Contains(item Item) bool {
	_, ok := a.btree.Get(item)
	return ok
}

func (a *ajwernerBtree) Delete(item Item) {
	mustValue(a.btree.Delete(item), item)
}

func (a *ajwernerBtree) Add(item Item) {
	_, overwrote := a.btree.Upsert(item)
	mustValue(!overwrote, item)
}

func (a *ajwernerBtree) Scan(f func(Item) bool) {
	it := a.btree.Iterator()
	for it.First(); it.Valid(); it.Next() {
		if !f(it.Cur()) {
			break
		}
	}
}
