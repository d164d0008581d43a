package wishlist

import (
	"github.com/RoaringBitmap/roaring"
)

// TorrentHandle is opaque to the Wishlist: it's whatever the embedder's Mediator implementation
// chooses to pass through its event callbacks, and the Wishlist never inspects it.
type TorrentHandle any

type (
	PeerDisconnectFunc            func(t TorrentHandle, peerHas *roaring.Bitmap)
	GotBitfieldFunc               func(t TorrentHandle, peerHas *roaring.Bitmap)
	GotBlockFunc                  func(t TorrentHandle, piece PieceIndex, block BlockIndex)
	GotHaveFunc                   func(t TorrentHandle, piece PieceIndex)
	GotHaveAllFunc                func(t TorrentHandle)
	PieceCompletedFunc            func(t TorrentHandle, piece PieceIndex)
	PriorityChangedFunc           func(t TorrentHandle, fileIndices []int, newPriority Priority)
	SequentialDownloadChangedFunc func(t TorrentHandle, enabled bool)
)

// Mediator is the read-only view of torrent state, plus the event subscriptions, that the
// embedding torrent implements and hands to New. The Wishlist never writes through it: the
// Mediator owns the authoritative state and the Wishlist only mirrors the slice of it that
// affects request ordering.
type Mediator interface {
	ClientHasBlock(b BlockIndex) bool
	ClientWantsPiece(p PieceIndex) bool
	IsEndgame() bool
	IsSequentialDownload() bool
	// CountActiveRequests is the number of in-flight requests across all peers for block b.
	CountActiveRequests(b BlockIndex) int
	CountMissingBlocks(p PieceIndex) int
	CountPieceReplication(p PieceIndex) int
	BlockSpan(p PieceIndex) BlockSpan
	PieceCount() PieceIndex
	Priority(p PieceIndex) Priority

	ObservePeerDisconnect(PeerDisconnectFunc) ObserverHandle
	ObserveGotBitfield(GotBitfieldFunc) ObserverHandle
	ObserveGotBlock(GotBlockFunc) ObserverHandle
	ObserveGotHave(GotHaveFunc) ObserverHandle
	ObserveGotHaveAll(GotHaveAllFunc) ObserverHandle
	ObservePieceCompleted(PieceCompletedFunc) ObserverHandle
	ObservePriorityChanged(PriorityChangedFunc) ObserverHandle
	ObserveSequentialDownloadChanged(SequentialDownloadChangedFunc) ObserverHandle
}
