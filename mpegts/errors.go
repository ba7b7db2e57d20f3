package mpegts

import "errors"

// Sentinel errors for packet and payload I/O. Callers distinguish failure
// modes with errors.Is; end of stream is not an error and is reported via
// Decode's boolean result instead.
var (
	ErrBadSync          = errors.New("mpegts: bad packet sync")
	ErrShortRead        = errors.New("mpegts: short read of transport stream packet")
	ErrShortWrite       = errors.New("mpegts: short write of transport stream packet")
	ErrUnreadableSource = errors.New("mpegts: unable to read data source")
)
