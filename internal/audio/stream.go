// Package audio provides the sound-file collaborator for the watermark
// tooling: PCM frame producers and consumers with sample-rate, channel and
// bit-depth metadata. Only RIFF/WAV containers are implemented; the
// embedding codec itself never looks at audio data.
package audio

// InputStream produces PCM frames from a sound source. Samples are
// interleaved by channel and normalized to [-1, 1) with the factor 1/2^31
// so that the write path reproduces the original integer samples exactly.
type InputStream interface {
	// ReadFrames returns up to n frames of interleaved samples. A
	// zero-length result with nil error means the stream is exhausted.
	ReadFrames(n int) ([]float64, error)
	Channels() int
	SampleRate() int
	BitDepth() int
	Close() error
}

// OutputStream consumes interleaved PCM frames.
type OutputStream interface {
	WriteFrames(samples []float64) error
	Close() error
}

// Buffer is a fully decoded sound file.
type Buffer struct {
	Samples    []float64
	Channels   int
	SampleRate int
	BitDepth   int
}

// Frames returns the number of frames in the buffer.
func (b *Buffer) Frames() int {
	if b.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}
