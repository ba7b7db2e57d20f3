package mpegts

import (
	"bytes"
	"testing"
)

func FuzzParseHeader(f *testing.F) {
	f.Add([]byte("3:a\x00abc"))
	f.Add([]byte("0:\x00"))
	f.Add([]byte(":name\x00"))
	f.Add([]byte("123:partial"))
	f.Add([]byte("\x00"))
	f.Add([]byte("1x2:a\x00"))

	f.Fuzz(func(t *testing.T, buf []byte) {
		hdr, n, res := parseHeader(buf)
		switch res {
		case headerOK:
			if n < 1 || n > len(buf) {
				t.Fatalf("consumed %d bytes of %d", n, len(buf))
			}
			if buf[n-1] != 0 {
				t.Fatal("consumed region does not end at the NUL terminator")
			}
			if hdr.dataSize < 0 {
				t.Fatalf("negative data size %d", hdr.dataSize)
			}
			if bytes.IndexByte([]byte(hdr.filename), 0) >= 0 {
				t.Fatal("filename contains NUL")
			}
		case headerIncomplete:
			if bytes.IndexByte(buf, 0) >= 0 {
				t.Fatal("incomplete result despite NUL terminator present")
			}
		case headerInvalid:
			if bytes.IndexByte(buf, 0) < 0 {
				t.Fatal("invalid result without a NUL terminator")
			}
		}
	})
}
