package wishlist

import (
	"github.com/anacrolix/wishlist/internal/order"
)

// candidate holds the raw fields behind a single ordered-index entry. The index itself only ever
// sees the derived order.State projection of these; candidate is where the Wishlist keeps the
// values events mutate incrementally.
type candidate struct {
	priority Priority
	missing  int
	// replicationBase is replication on the same "frame" as every other candidate's
	// replicationBase: true replication equals replicationBase plus the Wishlist's current
	// replicationDelta. See (*Wishlist).effectiveReplication and the got_have_all handler.
	replicationBase int
	span            BlockSpan
	salt            uint32
}

func (w *Wishlist) effectiveReplication(c *candidate) int {
	return c.replicationBase + w.replicationDelta
}

// itemState projects a candidate's current fields into the order.State the active comparator
// sorts on.
func (w *Wishlist) itemState(piece PieceIndex, c *candidate) order.State {
	st := order.State{
		Priority:      int(c.priority),
		MissingBlocks: c.missing,
		Replication:   c.replicationBase,
		Salt:          c.salt,
	}
	if w.sequential {
		st.SeqRank = w.seqRank(piece)
	}
	return st
}

// seqRank gives the last piece top rank when it's smaller than the piece the torrent otherwise
// uses as its regular size (piece 0). Every other piece sorts by its own index.
func (w *Wishlist) seqRank(piece PieceIndex) int {
	if piece == w.lastPieceIndex && w.lastPieceSmaller {
		return -1
	}
	return piece
}
