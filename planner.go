package wishlist

// Next returns up to nWanted blocks to request from a specific peer, as disjoint BlockSpans in
// the order their pieces rank (best first); within a piece, spans ascend. peerHas reports whether
// the peer has a given piece; peerRequested reports whether a given block is already outstanding
// to this same peer. The candidate set is populated on first use if it hasn't been already.
//
// Next walks the ordered index from best candidate to worst, and within each piece walks its
// blocks in ascending order, skipping anything the client already has, anything the peer lacks or
// has already been asked for, and — outside endgame — anything already requested from some other
// peer. Accepted runs of contiguous blocks within a piece are coalesced into a single span; spans
// from different pieces are never merged, even when adjacent.
func (w *Wishlist) Next(nWanted int, peerHas func(piece PieceIndex) bool, peerRequested func(block BlockIndex) bool) []BlockSpan {
	if nWanted <= 0 {
		return nil
	}
	if !w.populated {
		w.populate()
	}
	endgame := w.mediator.IsEndgame()
	var spans []BlockSpan
	taken := 0
	for item := range w.index.Iter() {
		c := w.candidates[item.Piece]
		if !peerHas(item.Piece) {
			continue
		}
		spanStart := -1
		for b := c.span.Begin; b < c.span.End; b++ {
			if !w.blockRequestable(b, endgame, peerRequested) {
				if spanStart != -1 {
					spans = append(spans, BlockSpan{spanStart, b})
					spanStart = -1
				}
				continue
			}
			if spanStart == -1 {
				spanStart = b
			}
			taken++
			if taken >= nWanted {
				spans = append(spans, BlockSpan{spanStart, b + 1})
				return spans
			}
		}
		if spanStart != -1 {
			spans = append(spans, BlockSpan{spanStart, c.span.End})
		}
	}
	return spans
}

// maxActiveRequestsDuringEndgame caps how many peers may simultaneously hold a request for the
// same block once endgame allows duplicates at all: two outstanding requests for a block is
// already enough to race it to completion without flooding every peer with the same ask.
const maxActiveRequestsDuringEndgame = 2

// blockRequestable applies the per-block skip rules: the client already has it, this peer's
// already been asked for it, or some other peer already holds as many active requests for it as
// policy allows (one outside endgame, two during endgame).
func (w *Wishlist) blockRequestable(b BlockIndex, endgame bool, peerRequested func(BlockIndex) bool) bool {
	if w.mediator.ClientHasBlock(b) {
		return false
	}
	if peerRequested(b) {
		return false
	}
	if endgame {
		return w.mediator.CountActiveRequests(b) < maxActiveRequestsDuringEndgame
	}
	return w.mediator.CountActiveRequests(b) == 0
}
