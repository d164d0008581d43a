package wishlist

import (
	"github.com/anacrolix/multiless"

	"github.com/anacrolix/wishlist/internal/order"
)

// rarityLess is the default comparator: priority descending, missing-blocks ascending,
// replication ascending, salt ascending. The final Int on the piece index breaks any remaining
// tie; the Btree backends require a strict order, and piece indices are always unique.
func rarityLess(i, j order.Item) bool {
	return multiless.New().Int(
		j.State.Priority, i.State.Priority,
	).Int(
		i.State.MissingBlocks, j.State.MissingBlocks,
	).Int(
		i.State.Replication, j.State.Replication,
	).Uint32(
		i.State.Salt, j.State.Salt,
	).Int(
		i.Piece, j.Piece,
	).Less()
}

// sequentialLess orders pieces by ascending index, except that a smaller-than-usual last piece
// sorts first. SeqRank carries that adjustment; see (*Wishlist).seqRank.
func sequentialLess(i, j order.Item) bool {
	return multiless.New().Int(
		i.State.SeqRank, j.State.SeqRank,
	).Int(
		i.Piece, j.Piece,
	).Less()
}
