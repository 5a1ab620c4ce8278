package stt

import "context"

// Encoding is the audio encoding declared to the recognizer.
type Encoding string

const (
	EncodingLinear16 Encoding = "LINEAR16"
	EncodingMP3      Encoding = "MP3"
)

// Provider transcribes a remote-accessible audio object in full. The
// returned text is the whole recording; implementations block until the
// remote operation finishes or a bound is hit.
type Provider interface {
	TranscribeURI(ctx context.Context, uri string, enc Encoding, language string) (string, error)
	Close() error
}
