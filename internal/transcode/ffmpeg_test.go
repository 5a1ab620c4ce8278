package transcode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWavArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-y", "-i", "/tmp/call.m4a", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", "/tmp/call.m4a_converted.wav"},
		wavArgs("/tmp/call.m4a", "/tmp/call.m4a_converted.wav"))
}

func TestToWAVReportsNonZeroExit(t *testing.T) {
	f := FFmpeg{Bin: "false"}
	err := f.ToWAV(context.Background(), "in.m4a", "out.wav")
	assert.Error(t, err)
}

func TestToWAVZeroExit(t *testing.T) {
	f := FFmpeg{Bin: "true"}
	assert.NoError(t, f.ToWAV(context.Background(), "in.m4a", "out.wav"))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "short", tail([]byte("short")))

	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'x'
	}
	got := tail(long)
	assert.Len(t, got, 515) // "..." + last 512 bytes
}
