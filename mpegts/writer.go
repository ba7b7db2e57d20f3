package mpegts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry is one named payload. The writer serializes it as the header
// "<size>:<name>" plus a NUL byte, followed by the raw data bytes, split
// across tagged packets. The reader returns recovered payloads in the same
// form.
type Entry struct {
	Name string
	Data []byte
}

// Writer copies a transport stream through unchanged and appends registered
// entries after it as runs of tagged packets.
type Writer struct {
	entries []Entry
}

// NewWriter returns a Writer with no registered entries.
func NewWriter() *Writer {
	return &Writer{}
}

// AppendEntry registers a payload to be embedded on the next Process call.
// All bytes of src are read immediately; a read failure wraps
// ErrUnreadableSource. The name must not contain a NUL byte, since NUL
// terminates the entry header on the wire.
func (w *Writer) AppendEntry(name string, src io.Reader) error {
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("mpegts: entry name %q contains NUL", name)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
	w.entries = append(w.entries, Entry{Name: name, Data: data})
	return nil
}

// AppendFile registers the contents of the file at path under name.
func (w *Writer) AppendFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
	defer f.Close()
	return w.AppendEntry(name, f)
}

// Process copies every packet of in to out unmodified, then appends one
// packet run per registered entry, in registration order. Any read or
// write error aborts the whole operation.
func (w *Writer) Process(in io.Reader, out io.Writer) error {
	var p Packet
	for {
		ok, err := p.Decode(in)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := p.Encode(out); err != nil {
			return err
		}
	}

	for _, e := range w.entries {
		if err := writeEntry(out, e); err != nil {
			return err
		}
	}
	return nil
}

// ProcessFile runs Process between the named files. Both files are closed
// on every return path; the output file is created or truncated.
func (w *Writer) ProcessFile(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	if err := w.Process(bufio.NewReader(in), bw); err != nil {
		out.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeEntry emits one entry as a KindFile packet followed by as many
// KindData packets as the header and data need. The final packet may be
// partially filled; its unused tail stays zero from Clear.
func writeEntry(out io.Writer, e Entry) error {
	header := strconv.Itoa(len(e.Data)) + ":" + e.Name

	combined := make([]byte, 0, len(header)+1+len(e.Data))
	combined = append(combined, header...)
	combined = append(combined, 0)
	combined = append(combined, e.Data...)

	var p Packet
	p.Clear(KindFile)
	payload := p.Payload()
	pos := 0
	for _, b := range combined {
		payload[pos] = b
		pos++
		if pos == len(payload) {
			if err := p.Encode(out); err != nil {
				return err
			}
			p.Clear(KindData)
			payload = p.Payload()
			pos = 0
		}
	}
	if pos != 0 {
		if err := p.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
