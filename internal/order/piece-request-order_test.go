package order

import (
	"testing"
)

func rarityLess(i, j Item) bool {
	switch {
	case i.State.Priority != j.State.Priority:
		return i.State.Priority > j.State.Priority
	case i.State.MissingBlocks != j.State.MissingBlocks:
		return i.State.MissingBlocks < j.State.MissingBlocks
	case i.State.Replication != j.State.Replication:
		return i.State.Replication < j.State.Replication
	default:
		return i.State.Salt < j.State.Salt
	}
}

func benchmarkIndex[B Btree](
	b *testing.B,
	newBtree func(less func(a, z Item) bool) B,
	numPieces int,
) {
	b.ReportAllocs()
	for b.Loop() {
		ix := NewIndex(newBtree(rarityLess), numPieces)
		state := State{}
		doPieces := func(m func(piece PieceIndex) bool) {
			for i := 0; i < numPieces; i++ {
				if !m(i) {
					break
				}
			}
		}
		doPieces(func(piece PieceIndex) bool {
			return !ix.Add(piece, state).Ok
		})
		state.Replication++
		doPieces(func(piece PieceIndex) bool {
			ix.Update(piece, state)
			return true
		})
		ix.tree.Scan(func(item Item) bool {
			return true
		})
		doPieces(func(piece PieceIndex) bool {
			state.Priority = piece / 4
			ix.Update(piece, state)
			return true
		})
		ix.tree.Scan(func(item Item) bool {
			return item.Piece < 1000
		})
		state.Priority = 0
		state.Replication++
		doPieces(func(piece PieceIndex) bool {
			ix.Update(piece, state)
			return true
		})
		ix.tree.Scan(func(item Item) bool {
			return item.Piece < 1000
		})
		state.Replication--
		doPieces(func(piece PieceIndex) bool {
			ix.Update(piece, state)
			return true
		})
		doPieces(func(piece PieceIndex) bool {
			ix.Delete(piece)
			return true
		})
		if ix.Len() != 0 {
			b.FailNow()
		}
	}
}

func BenchmarkIndex(b *testing.B) {
	const numPieces = 2000
	b.Run("TidwallBtree", func(b *testing.B) {
		benchmarkIndex(b, NewTidwallBtree, numPieces)
	})
	b.Run("AjwernerBtree", func(b *testing.B) {
		benchmarkIndex(b, NewAjwernerBtree, numPieces)
	})
}
