package transcode

import (
	"context"
	"fmt"
	"os/exec"
)

// Transcoder normalizes an audio file into the recognizer's preferred
// format: 16-bit PCM WAV, 16 kHz, mono.
type Transcoder interface {
	ToWAV(ctx context.Context, src, dest string) error
}

// FFmpeg shells out to the ffmpeg binary. A non-zero exit is a conversion
// failure; stderr is folded into the returned error.
type FFmpeg struct {
	Bin string // defaults to "ffmpeg" when empty
}

func (f FFmpeg) ToWAV(ctx context.Context, src, dest string) error {
	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, wavArgs(src, dest)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %v: %w: %s", bin, wavArgs(src, dest), err, tail(out))
	}
	return nil
}

func wavArgs(src, dest string) []string {
	return []string{"-y", "-i", src, "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", dest}
}

// tail keeps error payloads bounded; ffmpeg is chatty on stderr.
func tail(b []byte) string {
	const max = 512
	if len(b) <= max {
		return string(b)
	}
	return "..." + string(b[len(b)-max:])
}
