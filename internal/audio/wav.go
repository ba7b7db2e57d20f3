package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrBadRIFF reports a file that is not a PCM RIFF/WAVE container this
// package can handle.
var ErrBadRIFF = errors.New("audio: not a PCM RIFF/WAVE file")

// Sample normalization factor. Integer samples of every supported depth
// are shifted into the int32 range first, so read and write use the same
// factor and round-trip exactly.
const norm = 1.0 / (1 << 31)

// WAVReader reads interleaved PCM frames from a RIFF/WAVE stream.
// It implements InputStream.
type WAVReader struct {
	r          io.Reader
	closer     io.Closer
	channels   int
	sampleRate int
	bitDepth   int
	remaining  int // data bytes not yet consumed
}

// OpenWAV opens the WAV file at path and positions the reader at its
// first frame.
func OpenWAV(path string) (*WAVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewWAVReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewWAVReader parses the RIFF header and chunk list from r, stopping at
// the start of the data chunk.
func NewWAVReader(r io.Reader) (*WAVReader, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRIFF, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE magic", ErrBadRIFF)
	}

	w := &WAVReader{r: r}
	haveFmt := false
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: truncated chunk list: %v", ErrBadRIFF, err)
		}
		id := string(hdr[0:4])
		size := int(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: fmt chunk too short", ErrBadRIFF)
			}
			buf := make([]byte, size+size%2)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("%w: truncated fmt chunk: %v", ErrBadRIFF, err)
			}
			format := binary.LittleEndian.Uint16(buf[0:2])
			if format != 1 { // PCM only
				return nil, fmt.Errorf("%w: unsupported format tag %d", ErrBadRIFF, format)
			}
			w.channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			w.sampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			w.bitDepth = int(binary.LittleEndian.Uint16(buf[14:16]))
			if w.channels < 1 || w.sampleRate < 1 {
				return nil, fmt.Errorf("%w: bad fmt fields", ErrBadRIFF)
			}
			switch w.bitDepth {
			case 16, 24, 32:
			default:
				return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrBadRIFF, w.bitDepth)
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt", ErrBadRIFF)
			}
			w.remaining = size
			return w, nil

		default:
			// Skip unknown chunks, padded to even length.
			if _, err := io.CopyN(io.Discard, r, int64(size+size%2)); err != nil {
				return nil, fmt.Errorf("%w: truncated %q chunk: %v", ErrBadRIFF, id, err)
			}
		}
	}
}

func (w *WAVReader) Channels() int   { return w.channels }
func (w *WAVReader) SampleRate() int { return w.sampleRate }
func (w *WAVReader) BitDepth() int   { return w.bitDepth }

// ReadFrames decodes up to n frames. A short or empty result with nil
// error means the data chunk is exhausted.
func (w *WAVReader) ReadFrames(n int) ([]float64, error) {
	bps := w.bitDepth / 8
	frameSize := bps * w.channels

	want := n * frameSize
	if want > w.remaining {
		want = w.remaining - w.remaining%frameSize
	}
	if want == 0 {
		return nil, nil
	}

	buf := make([]byte, want)
	got, err := io.ReadFull(w.r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("audio: reading samples: %w", err)
	}
	w.remaining -= got
	buf = buf[:got-got%frameSize]

	samples := make([]float64, 0, len(buf)/bps)
	for off := 0; off+bps <= len(buf); off += bps {
		var v int32
		switch w.bitDepth {
		case 16:
			v = int32(int16(binary.LittleEndian.Uint16(buf[off:]))) << 16
		case 24:
			u := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16
			v = int32(u << 8) // sign extend via the top byte
		case 32:
			v = int32(binary.LittleEndian.Uint32(buf[off:]))
		}
		samples = append(samples, float64(v)*norm)
	}
	return samples, nil
}

// Close closes the underlying file, if the reader owns one.
func (w *WAVReader) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

// WAVWriter writes interleaved PCM frames into a RIFF/WAVE file, fixing
// up the chunk sizes on Close. It implements OutputStream.
type WAVWriter struct {
	f         *os.File
	bitDepth  int
	dataBytes int
}

// CreateWAV creates (or truncates) a WAV file at path and writes its
// headers with placeholder sizes.
func CreateWAV(path string, channels, sampleRate, bitDepth int) (*WAVWriter, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("audio: unsupported bit depth %d", bitDepth)
	}
	if channels < 1 {
		return nil, fmt.Errorf("audio: bad channel count %d", channels)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	bps := bitDepth / 8
	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	// hdr[4:8] riff size, patched on Close
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(sampleRate*channels*bps))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(channels*bps))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(bitDepth))
	copy(hdr[36:40], "data")
	// hdr[40:44] data size, patched on Close

	if _, err := f.Write(hdr); err != nil {
		f.Close()
		return nil, err
	}
	return &WAVWriter{f: f, bitDepth: bitDepth}, nil
}

// WriteFrames encodes and appends interleaved samples.
func (w *WAVWriter) WriteFrames(samples []float64) error {
	bps := w.bitDepth / 8
	buf := make([]byte, len(samples)*bps)
	for i, s := range samples {
		v := quantize(s)
		switch w.bitDepth {
		case 16:
			binary.LittleEndian.PutUint16(buf[i*bps:], uint16(int16(v>>16)))
		case 24:
			u := uint32(v) >> 8
			buf[i*bps] = byte(u)
			buf[i*bps+1] = byte(u >> 8)
			buf[i*bps+2] = byte(u >> 16)
		case 32:
			binary.LittleEndian.PutUint32(buf[i*bps:], uint32(v))
		}
	}
	n, err := w.f.Write(buf)
	w.dataBytes += n
	if err != nil {
		return fmt.Errorf("audio: writing samples: %w", err)
	}
	return nil
}

// Close patches the RIFF and data chunk sizes and closes the file.
func (w *WAVWriter) Close() error {
	var sizes [4]byte

	binary.LittleEndian.PutUint32(sizes[:], uint32(36+w.dataBytes))
	if _, err := w.f.WriteAt(sizes[:], 4); err != nil {
		w.f.Close()
		return err
	}
	binary.LittleEndian.PutUint32(sizes[:], uint32(w.dataBytes))
	if _, err := w.f.WriteAt(sizes[:], 40); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// quantize maps a normalized sample back to the int32 domain, clamping
// out-of-range values.
func quantize(s float64) int32 {
	v := s * (1 << 31)
	if v >= (1<<31)-1 {
		return (1 << 31) - 1
	}
	if v < -(1 << 31) {
		return -(1 << 31)
	}
	return int32(v)
}

// ReadAll decodes the whole WAV file at path into a Buffer.
func ReadAll(path string) (*Buffer, error) {
	in, err := OpenWAV(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	b := &Buffer{
		Channels:   in.Channels(),
		SampleRate: in.SampleRate(),
		BitDepth:   in.BitDepth(),
	}
	for {
		frames, err := in.ReadFrames(1024)
		if err != nil {
			return nil, err
		}
		if len(frames) == 0 {
			return b, nil
		}
		b.Samples = append(b.Samples, frames...)
	}
}

// Save writes the buffer to a WAV file at path.
func (b *Buffer) Save(path string) error {
	out, err := CreateWAV(path, b.Channels, b.SampleRate, b.BitDepth)
	if err != nil {
		return err
	}
	if err := out.WriteFrames(b.Samples); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
