// Package wishlist decides which block spans a client should next request from a given peer for
// a single torrent: a multi-criteria ranking over pieces, an incrementally-maintained ordered
// index of the candidate set, and a per-call filter-and-slice that turns that ranking into
// disjoint BlockSpans honouring duplication, ownership and sequencing policy.
//
// Storage, hashing, wire protocol I/O, priority assignment and request timeouts/retries are all
// external collaborators reached through the Mediator interface; the Wishlist itself does no I/O
// and decides nothing about when it's called.
package wishlist

import (
	"math/rand/v2"

	"github.com/anacrolix/log"

	"github.com/anacrolix/wishlist/internal/order"
)

// Wishlist is a single, per-torrent scheduler. It's single-threaded cooperative: New, Next,
// Close and the Mediator's event callbacks must all run in the embedder's own serialization
// domain, and none of them suspend partway through.
type Wishlist struct {
	mediator Mediator
	logger   log.Logger
	newTree  func(less func(a, b order.Item) bool) order.Btree
	rng      *rand.Rand

	handles []ObserverHandle

	populated  bool
	sequential bool

	candidates map[PieceIndex]*candidate
	index      *order.Index

	// replicationDelta is the number of got_have_all events applied since population, held back
	// from every candidate's stored replicationBase so that got_have_all is O(1). See
	// (*Wishlist).effectiveReplication.
	replicationDelta int

	lastPieceIndex   PieceIndex
	lastPieceSmaller bool
}

// Option configures a Wishlist at construction.
type Option func(*Wishlist)

// WithLogger overrides the default logger (log.Default), used only to report invariant
// violations that the Wishlist self-heals from.
func WithLogger(l log.Logger) Option {
	return func(w *Wishlist) { w.logger = l }
}

// WithBtree selects the ordered-index backend, e.g. order.NewAjwernerBtree in place of the
// default order.NewTidwallBtree.
func WithBtree(newTree func(less func(a, b order.Item) bool) order.Btree) Option {
	return func(w *Wishlist) { w.newTree = newTree }
}

// WithRNG overrides the source of per-piece salts. Mostly useful for tests that need
// deterministic tie-breaking; production callers should leave this to the default.
func WithRNG(r *rand.Rand) Option {
	return func(w *Wishlist) { w.rng = r }
}

// New takes exclusive ownership of mediator, subscribing to its eight change events, and returns
// a Wishlist ready to serve Next calls. The candidate set is left unpopulated until the first
// Next call.
func New(mediator Mediator, opts ...Option) *Wishlist {
	w := &Wishlist{
		mediator: mediator,
		logger:   log.Default,
		newTree: func(less func(a, b order.Item) bool) order.Btree {
			return order.NewTidwallBtree(less)
		},
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.handles = []ObserverHandle{
		mediator.ObservePeerDisconnect(w.onPeerDisconnect),
		mediator.ObserveGotBitfield(w.onGotBitfield),
		mediator.ObserveGotBlock(w.onGotBlock),
		mediator.ObserveGotHave(w.onGotHave),
		mediator.ObserveGotHaveAll(w.onGotHaveAll),
		mediator.ObservePieceCompleted(w.onPieceCompleted),
		mediator.ObservePriorityChanged(w.onPriorityChanged),
		mediator.ObserveSequentialDownloadChanged(w.onSequentialDownloadChanged),
	}
	return w
}

// Close releases all eight observer subscriptions before returning, guaranteeing no further
// callback fires into this Wishlist. The Mediator itself isn't otherwise touched; it's up to the
// embedder to drop its reference.
func (w *Wishlist) Close() {
	for _, h := range w.handles {
		h.Close()
	}
	w.handles = nil
}

// populate performs the lazy cache warm-up: a single full scan of the Mediator, after which the
// candidate set and index are maintained incrementally.
func (w *Wishlist) populate() {
	w.populated = true
	w.sequential = w.mediator.IsSequentialDownload()
	w.recomputeSequentialHints()
	pieceCount := w.mediator.PieceCount()
	w.candidates = make(map[PieceIndex]*candidate, pieceCount)
	w.index = order.NewIndex(w.newTree(w.activeLess()), pieceCount)
	for p := 0; p < pieceCount; p++ {
		if !w.mediator.ClientWantsPiece(p) {
			continue
		}
		missing := w.mediator.CountMissingBlocks(p)
		if missing <= 0 {
			continue
		}
		w.insertCandidate(p, missing)
	}
}

func (w *Wishlist) activeLess() func(a, b order.Item) bool {
	if w.sequential {
		return sequentialLess
	}
	return rarityLess
}

// recomputeSequentialHints refreshes the state seqRank depends on. It's cheap (three Mediator
// queries) and safe to call whenever the piece count or sizes might have changed.
func (w *Wishlist) recomputeSequentialHints() {
	pieceCount := w.mediator.PieceCount()
	w.lastPieceIndex = pieceCount - 1
	if pieceCount <= 1 {
		w.lastPieceSmaller = false
		return
	}
	w.lastPieceSmaller = w.mediator.BlockSpan(w.lastPieceIndex).Len() < w.mediator.BlockSpan(0).Len()
}

// insertCandidate creates a fresh candidate for piece, with a new salt every time, including on
// re-insertion after the piece was previously removed.
func (w *Wishlist) insertCandidate(piece PieceIndex, missing int) {
	c := &candidate{
		priority:        w.mediator.Priority(piece),
		missing:         missing,
		replicationBase: w.mediator.CountPieceReplication(piece) - w.replicationDelta,
		span:            w.mediator.BlockSpan(piece),
		salt:            w.rng.Uint32(),
	}
	w.candidates[piece] = c
	w.index.Add(piece, w.itemState(piece, c))
}

func (w *Wishlist) removeCandidate(piece PieceIndex) {
	if _, ok := w.candidates[piece]; !ok {
		return
	}
	delete(w.candidates, piece)
	w.index.Delete(piece)
}

// reindex repositions piece in the ordered index after one of its fields changed in place.
func (w *Wishlist) reindex(piece PieceIndex) {
	c, ok := w.candidates[piece]
	if !ok {
		return
	}
	w.index.Update(piece, w.itemState(piece, c))
}

// validPiece reports whether piece is a piece index the torrent actually has. Events naming an
// out-of-range piece index are silently ignored.
func (w *Wishlist) validPiece(piece PieceIndex) bool {
	return piece >= 0 && piece < w.mediator.PieceCount()
}

// warnSelfHeal logs an invariant violation the Wishlist is about to self-heal from; reason says
// what went wrong and how it is healed (dropping the candidate, or clamping the value).
func (w *Wishlist) warnSelfHeal(piece PieceIndex, reason string) {
	w.logger.Levelf(log.Warning, "wishlist: piece %d: %s", piece, reason)
}
