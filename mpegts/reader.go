package mpegts

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"
	"slices"
)

// Reader scans a transport stream for tagged packets and reassembles the
// entries they carry. Untagged packets are ignored.
type Reader struct {
	asm     assembler
	entries []Entry
}

// NewReader returns an empty Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Load reads packets from in until end of stream, collecting every
// completed entry. An entry still in flight when the stream ends is
// dropped without error. Load may be called multiple times; entries
// accumulate across calls.
func (r *Reader) Load(in io.Reader) error {
	var p Packet
	for {
		ok, err := p.Decode(in)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch p.Kind() {
		case KindUnknown:
			// Original stream content; not ours.
		case KindFile:
			// Entry start always resets: an unfinished previous
			// entry is discarded, never emitted.
			r.asm.reset()
			if e, done := r.asm.feed(p.Payload()); done {
				r.entries = append(r.entries, e)
			}
		case KindData:
			if e, done := r.asm.feed(p.Payload()); done {
				r.entries = append(r.entries, e)
			}
		}
	}
}

// LoadFile runs Load on the named file, closing it on every return path.
func (r *Reader) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Load(bufio.NewReader(f))
}

// Entries returns the recovered entries in completion order, which for
// streams produced by Writer equals registration order.
func (r *Reader) Entries() []Entry {
	return r.entries
}

// header is the parsed "<size>:<name>" prefix of an entry.
type header struct {
	dataSize int
	filename string
}

// assembler holds the reassembly state for the entry currently in flight:
// the accumulated payload bytes and the header, once one has parsed.
type assembler struct {
	buf      []byte
	hdr      header
	valid    bool // header parsed, buf holds payload bytes only
	rejected bool // header text malformed; ignore until next reset
}

func (a *assembler) reset() {
	a.buf = a.buf[:0]
	a.valid = false
	a.rejected = false
}

// feed appends one packet's payload region and returns the completed entry,
// if this payload finished one.
func (a *assembler) feed(payload []byte) (Entry, bool) {
	a.buf = append(a.buf, payload...)

	if !a.valid && !a.rejected {
		hdr, n, res := parseHeader(a.buf)
		switch res {
		case headerIncomplete:
			return Entry{}, false
		case headerInvalid:
			// A NUL was seen but the text before it is not a
			// valid header. The run cannot be recovered; skip
			// its packets until the next entry start.
			a.rejected = true
			return Entry{}, false
		case headerOK:
			a.hdr = hdr
			a.valid = true
			a.buf = append(a.buf[:0], a.buf[n:]...)
			// Preallocation is a hint only; the declared size is
			// untrusted input, so cap what we grow ahead of time.
			a.buf = slices.Grow(a.buf, min(hdr.dataSize, 1<<20))
		}
	}

	if a.valid && len(a.buf) >= a.hdr.dataSize {
		data := make([]byte, a.hdr.dataSize)
		copy(data, a.buf)
		e := Entry{Name: a.hdr.filename, Data: data}
		a.reset()
		return e, true
	}
	return Entry{}, false
}

type parseResult int

const (
	headerIncomplete parseResult = iota // no NUL terminator yet
	headerOK
	headerInvalid
)

// parseHeader looks for the NUL-terminated "<decimal size>:<name>" prefix
// in buf. On success it returns the header and the number of bytes it
// occupied, terminator included.
func parseHeader(buf []byte) (header, int, parseResult) {
	end := bytes.IndexByte(buf, 0)
	if end < 0 {
		return header{}, 0, headerIncomplete
	}
	text := buf[:end]

	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i >= len(text) || text[i] != ':' {
		return header{}, 0, headerInvalid
	}

	size := 0
	for _, c := range text[:i] {
		d := int(c - '0')
		if size > (math.MaxInt-d)/10 {
			return header{}, 0, headerInvalid
		}
		size = size*10 + d
	}
	return header{dataSize: size, filename: string(text[i+1:])}, end + 1, headerOK
}
