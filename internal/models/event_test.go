package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerEventValid(t *testing.T) {
	assert.True(t, TriggerEvent{Bucket: "b1", Name: "call.m4a"}.Valid())
	assert.False(t, TriggerEvent{Bucket: "", Name: "call.m4a"}.Valid())
	assert.False(t, TriggerEvent{Bucket: "b1", Name: ""}.Valid())
	assert.False(t, TriggerEvent{}.Valid())
}

func TestFormatFromKey(t *testing.T) {
	cases := []struct {
		key  string
		want AudioFormat
	}{
		{"call.wav", FormatWAV},
		{"call.WAV", FormatWAV},
		{"voice/memo.M4A", FormatM4A},
		{"episode.mp3", FormatMP3},
		{"notes.ogg", FormatUnknown},
		{"README", FormatUnknown},
		{"archive.tar.wav", FormatWAV},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatFromKey(tc.key), tc.key)
	}
}

func TestIsConvertedArtifact(t *testing.T) {
	assert.True(t, IsConvertedArtifact("call.m4a_converted.wav"))
	assert.True(t, IsConvertedArtifact(ConvertedKey("call.m4a")))
	assert.False(t, IsConvertedArtifact("call.m4a"), "marker without wav extension")
	assert.False(t, IsConvertedArtifact("call_converted.mp3"))
	assert.False(t, IsConvertedArtifact("call.wav"))
}

func TestDerivedKeys(t *testing.T) {
	assert.Equal(t, "call.m4a_converted.wav", ConvertedKey("call.m4a"))
	assert.Equal(t, "call.m4a.txt", TranscriptKey("call.m4a"))
	assert.Equal(t, "gs://b1/call.m4a_converted.wav", GSURI("b1", ConvertedKey("call.m4a")))
}

func TestStagingPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp", "call.m4a"), StagingPath("/tmp", "call.m4a"))
	assert.Equal(t, filepath.Join("/tmp", "voice", "memo.wav"), StagingPath("/tmp", "voice/memo.wav"))
}
