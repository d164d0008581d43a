package wishlist

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/anacrolix/wishlist/internal/order"
)

// onPeerDisconnect applies the inverse of onGotBitfield: every piece the departing peer had is no
// longer backed by that peer's replication count.
func (w *Wishlist) onPeerDisconnect(_ TorrentHandle, peerHas *roaring.Bitmap) {
	if !w.populated {
		return
	}
	peerHas.Iterate(func(piece uint32) bool {
		w.adjustReplication(PieceIndex(piece), -1)
		return true
	})
}

// onGotBitfield increments replication for every piece in the peer's newly-learned bitfield.
func (w *Wishlist) onGotBitfield(_ TorrentHandle, peerHas *roaring.Bitmap) {
	if !w.populated {
		return
	}
	peerHas.Iterate(func(piece uint32) bool {
		w.adjustReplication(PieceIndex(piece), 1)
		return true
	})
}

// onGotHave increments replication for a single piece a peer has just announced.
func (w *Wishlist) onGotHave(_ TorrentHandle, piece PieceIndex) {
	if !w.populated {
		return
	}
	w.adjustReplication(piece, 1)
}

// onGotHaveAll is the O(1) uniform replication bump: every piece's replication increases by one,
// represented without touching a single candidate.
func (w *Wishlist) onGotHaveAll(_ TorrentHandle) {
	if !w.populated {
		return
	}
	w.replicationDelta++
}

// adjustReplication applies delta to piece's stored replicationBase, clamping and logging if that
// would take its effective replication (replicationBase plus replicationDelta) negative, and
// repositions the piece in the index if it's a current candidate.
func (w *Wishlist) adjustReplication(piece PieceIndex, delta int) {
	if !w.validPiece(piece) {
		return
	}
	c, ok := w.candidates[piece]
	if !ok {
		return
	}
	c.replicationBase += delta
	if w.effectiveReplication(c) < 0 {
		w.warnSelfHeal(piece, "replication went negative; clamping to zero")
		c.replicationBase = -w.replicationDelta
	}
	w.reindex(piece)
}

// onGotBlock records a newly-received block, shrinking the owning piece's missing-block count.
// Once a piece has nothing left to request it's dropped from the candidate set; verification is
// the embedder's business, signalled separately via onPieceCompleted.
func (w *Wishlist) onGotBlock(_ TorrentHandle, piece PieceIndex, _ BlockIndex) {
	if !w.populated || !w.validPiece(piece) {
		return
	}
	c, ok := w.candidates[piece]
	if !ok {
		return
	}
	c.missing--
	if c.missing <= 0 {
		if c.missing < 0 {
			w.warnSelfHeal(piece, "missing block count went negative; dropping it")
		}
		w.removeCandidate(piece)
		return
	}
	w.reindex(piece)
}

// onPieceCompleted drops piece from the candidate set unconditionally, covering completion paths
// that don't go through onGotBlock (out-of-band writes, re-verification of an already-complete
// piece, and so on).
func (w *Wishlist) onPieceCompleted(_ TorrentHandle, piece PieceIndex) {
	if !w.populated {
		return
	}
	w.removeCandidate(piece)
}

// onPriorityChanged re-syncs the candidate set against the Mediator. The event only tells us
// which files changed; since a Wishlist doesn't know the file/piece mapping, the only correct
// response is a full rebuild.
func (w *Wishlist) onPriorityChanged(_ TorrentHandle, _ []int, _ Priority) {
	if !w.populated {
		return
	}
	w.rebuildFromMediator()
}

// onSequentialDownloadChanged swaps the active comparator and rebuilds the index in place,
// leaving every candidate's identity and salt untouched.
func (w *Wishlist) onSequentialDownloadChanged(_ TorrentHandle, enabled bool) {
	w.sequential = enabled
	if !w.populated {
		return
	}
	w.recomputeSequentialHints()
	w.rebuildIndexOnly()
}

// rebuildFromMediator re-derives the candidate set from scratch against current Mediator state,
// without discarding the salt of any piece that's still a candidate afterwards.
func (w *Wishlist) rebuildFromMediator() {
	pieceCount := w.mediator.PieceCount()
	newIndex := order.NewIndex(w.newTree(w.activeLess()), pieceCount)
	for p := 0; p < pieceCount; p++ {
		wants := w.mediator.ClientWantsPiece(p)
		missing := 0
		if wants {
			missing = w.mediator.CountMissingBlocks(p)
		}
		if !wants || missing <= 0 {
			delete(w.candidates, p)
			continue
		}
		c, existed := w.candidates[p]
		if !existed {
			c = &candidate{salt: w.rng.Uint32()}
			w.candidates[p] = c
		}
		c.priority = w.mediator.Priority(p)
		c.missing = missing
		c.replicationBase = w.mediator.CountPieceReplication(p) - w.replicationDelta
		c.span = w.mediator.BlockSpan(p)
		newIndex.Add(p, w.itemState(p, c))
	}
	w.index = newIndex
}

// rebuildIndexOnly rebuilds the ordered index from the existing candidate set under the active
// comparator, without consulting the Mediator. Used when only the comparator changed.
func (w *Wishlist) rebuildIndexOnly() {
	newIndex := order.NewIndex(w.newTree(w.activeLess()), len(w.candidates))
	for piece, c := range w.candidates {
		newIndex.Add(piece, w.itemState(piece, c))
	}
	w.index = newIndex
}
