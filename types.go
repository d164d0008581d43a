package wishlist

// PieceIndex identifies a piece within a torrent.
type PieceIndex = int

// BlockIndex identifies a block within a torrent. Blocks are numbered globally, not per-piece.
type BlockIndex = int

// BlockSpan is a half-open range of blocks, [Begin, End).
type BlockSpan struct {
	Begin, End BlockIndex
}

// Len returns the number of blocks covered by the span.
func (s BlockSpan) Len() int {
	return s.End - s.Begin
}

// Empty reports whether the span contains no blocks.
func (s BlockSpan) Empty() bool {
	return s.End <= s.Begin
}

// Priority is the user/file-derived importance of obtaining a piece. Higher is preferred.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// Replication is the number of peers, other than the client, known to hold a piece.
type Replication = int
