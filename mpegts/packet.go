// Package mpegts embeds named binary payloads into MPEG transport streams
// and recovers them again. Payloads ride in extra 188-byte TS packets
// appended after the original stream; each carries a 12-byte tag so that
// ordinary TS tooling treats them as opaque packets on a reserved PID while
// this package can find them again. Original packets pass through untouched.
package mpegts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	// PacketSize is the fixed size of an MPEG-TS packet.
	PacketSize = 188

	// PayloadSize is the number of payload bytes a tagged packet carries
	// after its 12-byte tag region.
	PayloadSize = PacketSize - tagSize

	syncByte = 'G' // 0x47
	tagSize  = 12
)

// Kind classifies a packet by its tag region.
type Kind uint8

const (
	// KindUnknown marks a packet that does not carry one of our tags.
	// All normal transport-stream content classifies as unknown.
	KindUnknown Kind = iota
	// KindFile marks the first packet of an embedded entry.
	KindFile
	// KindData marks a continuation packet of an embedded entry.
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Tag layout: sync byte, a PID/flags pattern parking the packet on a
// reserved PID, the "AWMK" marker, then the kind marker.
var (
	tagFile = [tagSize]byte{'G', 0x1F, 0xFF, 0x10, 'A', 'W', 'M', 'K', 'f', 'i', 'l', 'e'}
	tagData = [tagSize]byte{'G', 0x1F, 0xFF, 0x10, 'A', 'W', 'M', 'K', 'd', 'a', 't', 'a'}
)

// Packet is one fixed-size transport-stream packet. The zero value is an
// all-zero packet; call Clear or Decode before use.
type Packet struct {
	buf [PacketSize]byte
}

// Decode reads exactly one packet from r. It returns (false, nil) on a
// clean end of stream (zero bytes available), an error wrapping
// ErrShortRead if the stream ends mid-packet, and an error wrapping
// ErrBadSync if a full packet does not start with the sync byte.
func (p *Packet) Decode(r io.Reader) (bool, error) {
	n, err := io.ReadFull(r, p.buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return false, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return false, fmt.Errorf("%w: got %d of %d bytes", ErrShortRead, n, PacketSize)
		}
		return false, err
	}
	if p.buf[0] != syncByte {
		return false, fmt.Errorf("%w: 0x%02X", ErrBadSync, p.buf[0])
	}
	return true, nil
}

// Encode writes the full packet to w. A partial write is reported as an
// error wrapping ErrShortWrite.
func (p *Packet) Encode(w io.Writer) error {
	n, err := w.Write(p.buf[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShortWrite, err)
	}
	if n != PacketSize {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, PacketSize)
	}
	return nil
}

// Clear zero-fills the packet and stamps the tag region for kind.
// KindUnknown leaves the tag region all zero; such packets are never
// written by this package.
func (p *Packet) Clear(kind Kind) {
	p.buf = [PacketSize]byte{}
	switch kind {
	case KindFile:
		copy(p.buf[:tagSize], tagFile[:])
	case KindData:
		copy(p.buf[:tagSize], tagData[:])
	}
}

// Kind classifies the packet by exact match of its tag region.
func (p *Packet) Kind() Kind {
	if !bytes.Equal(p.buf[:8], tagFile[:8]) {
		return KindUnknown
	}
	switch {
	case bytes.Equal(p.buf[8:tagSize], tagFile[8:]):
		return KindFile
	case bytes.Equal(p.buf[8:tagSize], tagData[8:]):
		return KindData
	}
	return KindUnknown
}

// Payload returns the mutable payload region, bytes [12,188) of the packet.
func (p *Packet) Payload() []byte {
	return p.buf[tagSize:]
}

// Bytes returns the raw 188 bytes of the packet.
func (p *Packet) Bytes() []byte {
	return p.buf[:]
}
