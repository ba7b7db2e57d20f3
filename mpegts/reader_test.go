package mpegts

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// embed runs the writer over an n-packet carrier and returns the output.
func embed(t *testing.T, n int, entries ...Entry) []byte {
	t.Helper()
	w := NewWriter()
	for _, e := range entries {
		if err := w.AppendEntry(e.Name, bytes.NewReader(e.Data)); err != nil {
			t.Fatal(err)
		}
	}
	var out bytes.Buffer
	if err := w.Process(bytes.NewReader(carrier(n)), &out); err != nil {
		t.Fatal(err)
	}
	return out.Bytes()
}

func TestReaderRoundTrip(t *testing.T) {
	t.Parallel()
	entries := []Entry{
		{Name: "a", Data: []byte{0x01, 0x02, 0x03}},
		{Name: "big.bin", Data: bytes.Repeat([]byte{0xAA, 0x00, 0x55}, 300)},
		{Name: "empty", Data: []byte{}},
	}

	for _, n := range []int{0, 1, 7} {
		n := n
		t.Run(fmt.Sprintf("%d-packet carrier", n), func(t *testing.T) {
			t.Parallel()
			stream := embed(t, n, entries...)

			r := NewReader()
			if err := r.Load(bytes.NewReader(stream)); err != nil {
				t.Fatal(err)
			}
			got := r.Entries()
			if len(got) != len(entries) {
				t.Fatalf("recovered %d entries, want %d", len(got), len(entries))
			}
			for i, want := range entries {
				if got[i].Name != want.Name {
					t.Errorf("entry %d name = %q, want %q", i, got[i].Name, want.Name)
				}
				if !bytes.Equal(got[i].Data, want.Data) {
					t.Errorf("entry %d data mismatch: %d bytes vs %d", i, len(got[i].Data), len(want.Data))
				}
			}
		})
	}
}

func TestReader_EmptyDataEntry(t *testing.T) {
	t.Parallel()
	stream := embed(t, 1, Entry{Name: "nothing.dat", Data: nil})

	r := NewReader()
	if err := r.Load(bytes.NewReader(stream)); err != nil {
		t.Fatal(err)
	}
	got := r.Entries()
	if len(got) != 1 {
		t.Fatalf("recovered %d entries, want 1", len(got))
	}
	if got[0].Name != "nothing.dat" || len(got[0].Data) != 0 {
		t.Errorf("got %q with %d bytes, want empty nothing.dat", got[0].Name, len(got[0].Data))
	}
}

func TestReader_IgnoresPassthrough(t *testing.T) {
	t.Parallel()
	r := NewReader()
	if err := r.Load(bytes.NewReader(carrier(5))); err != nil {
		t.Fatal(err)
	}
	if len(r.Entries()) != 0 {
		t.Fatalf("recovered %d entries from plain carrier, want 0", len(r.Entries()))
	}
}

func TestReader_BadSync(t *testing.T) {
	t.Parallel()
	stream := carrier(2)
	stream[0] = 0x00

	r := NewReader()
	err := r.Load(bytes.NewReader(stream))
	if !errors.Is(err, ErrBadSync) {
		t.Fatalf("err = %v, want ErrBadSync", err)
	}
	if len(r.Entries()) != 0 {
		t.Error("entries recovered despite bad sync")
	}
}

func TestReader_TruncatedEntryDropped(t *testing.T) {
	t.Parallel()
	// 400 bytes spans three packets; drop the last one.
	stream := embed(t, 1, Entry{Name: "t", Data: make([]byte, 400)})
	stream = stream[:len(stream)-PacketSize]

	r := NewReader()
	if err := r.Load(bytes.NewReader(stream)); err != nil {
		t.Fatal(err)
	}
	if len(r.Entries()) != 0 {
		t.Fatalf("recovered %d entries from truncated stream, want 0", len(r.Entries()))
	}
}

func TestReader_FilePacketResetsUnfinished(t *testing.T) {
	t.Parallel()
	// First entry spans two packets; keep only its first packet, then
	// follow with a complete small entry. The unfinished one must be
	// discarded, not emitted.
	big := embed(t, 0, Entry{Name: "big", Data: make([]byte, 400)})
	small := embed(t, 0, Entry{Name: "small", Data: []byte("ok")})
	stream := append(big[:PacketSize:PacketSize], small...)

	r := NewReader()
	if err := r.Load(bytes.NewReader(stream)); err != nil {
		t.Fatal(err)
	}
	got := r.Entries()
	if len(got) != 1 {
		t.Fatalf("recovered %d entries, want 1", len(got))
	}
	if got[0].Name != "small" || string(got[0].Data) != "ok" {
		t.Errorf("got %q/%q, want small/ok", got[0].Name, got[0].Data)
	}
}

func TestReader_StrayDataPacketsIgnored(t *testing.T) {
	t.Parallel()
	// Data packets with no preceding file packet: their all-zero payload
	// can never form a valid header, so nothing is recovered.
	var p Packet
	p.Clear(KindData)
	var stream bytes.Buffer
	stream.Write(p.Bytes())
	stream.Write(p.Bytes())

	r := NewReader()
	if err := r.Load(&stream); err != nil {
		t.Fatal(err)
	}
	if len(r.Entries()) != 0 {
		t.Fatalf("recovered %d entries from stray data packets, want 0", len(r.Entries()))
	}
}

func TestReader_MalformedHeaderRejected(t *testing.T) {
	t.Parallel()
	var p Packet
	p.Clear(KindFile)
	copy(p.Payload(), "not-a-header\x00trailing bytes")

	var stream bytes.Buffer
	if err := p.Encode(&stream); err != nil {
		t.Fatal(err)
	}
	r := NewReader()
	if err := r.Load(&stream); err != nil {
		t.Fatal(err)
	}
	if len(r.Entries()) != 0 {
		t.Fatalf("recovered %d entries from malformed header, want 0", len(r.Entries()))
	}
}

func TestReader_ExcessBufferedBytesTruncated(t *testing.T) {
	t.Parallel()
	// The final packet is zero padded; recovered data must be cut to the
	// declared size exactly.
	stream := embed(t, 0, Entry{Name: "n", Data: []byte{0xFF}})

	r := NewReader()
	if err := r.Load(bytes.NewReader(stream)); err != nil {
		t.Fatal(err)
	}
	got := r.Entries()
	if len(got) != 1 {
		t.Fatalf("recovered %d entries, want 1", len(got))
	}
	if len(got[0].Data) != 1 || got[0].Data[0] != 0xFF {
		t.Errorf("data = % X, want FF", got[0].Data)
	}
}

func TestReader_LoadAccumulatesAcrossCalls(t *testing.T) {
	t.Parallel()
	first := embed(t, 1, Entry{Name: "one", Data: []byte("1")})
	second := embed(t, 0, Entry{Name: "two", Data: []byte("2")})

	r := NewReader()
	if err := r.Load(bytes.NewReader(first)); err != nil {
		t.Fatal(err)
	}
	if err := r.Load(bytes.NewReader(second)); err != nil {
		t.Fatal(err)
	}
	if len(r.Entries()) != 2 {
		t.Fatalf("recovered %d entries across two loads, want 2", len(r.Entries()))
	}
}

func TestParseHeader(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		buf      []byte
		wantRes  parseResult
		wantSize int
		wantName string
		wantN    int
	}{
		{"simple", []byte("3:a\x00rest"), headerOK, 3, "a", 4},
		{"empty digits", []byte(":name\x00"), headerOK, 0, "name", 6},
		{"colon in name", []byte("12:a:b\x00"), headerOK, 12, "a:b", 7},
		{"empty name", []byte("7:\x00"), headerOK, 7, "", 3},
		{"no terminator yet", []byte("123:partial"), headerIncomplete, 0, "", 0},
		{"empty buffer", nil, headerIncomplete, 0, "", 0},
		{"no colon", []byte("123\x00"), headerInvalid, 0, "", 0},
		{"immediate NUL", []byte("\x00"), headerInvalid, 0, "", 0},
		{"junk before colon", []byte("1x2:a\x00"), headerInvalid, 0, "", 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hdr, n, res := parseHeader(tt.buf)
			if res != tt.wantRes {
				t.Fatalf("result = %v, want %v", res, tt.wantRes)
			}
			if res != headerOK {
				return
			}
			if hdr.dataSize != tt.wantSize {
				t.Errorf("dataSize = %d, want %d", hdr.dataSize, tt.wantSize)
			}
			if hdr.filename != tt.wantName {
				t.Errorf("filename = %q, want %q", hdr.filename, tt.wantName)
			}
			if n != tt.wantN {
				t.Errorf("consumed = %d, want %d", n, tt.wantN)
			}
		})
	}
}
