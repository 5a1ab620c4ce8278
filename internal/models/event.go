package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ConvertedMarker tags WAV objects this service produced itself, so a
// storage notification for one of them is skipped instead of reprocessed.
const ConvertedMarker = "_converted"

// TriggerEvent is the storage-change notification that starts an invocation.
type TriggerEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

func (e TriggerEvent) Valid() bool {
	return e.Bucket != "" && e.Name != ""
}

// AudioFormat is the recognized source encoding, derived from the object
// key's extension.
type AudioFormat string

const (
	FormatWAV     AudioFormat = "wav"
	FormatM4A     AudioFormat = "m4a"
	FormatMP3     AudioFormat = "mp3"
	FormatUnknown AudioFormat = ""
)

// FormatFromKey maps the key's extension (case-insensitive) to a format.
func FormatFromKey(key string) AudioFormat {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(key), "."))
	switch ext {
	case "wav":
		return FormatWAV
	case "m4a":
		return FormatM4A
	case "mp3":
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// IsConvertedArtifact reports whether the key names a WAV object that this
// service wrote as a transcode output.
func IsConvertedArtifact(key string) bool {
	return FormatFromKey(key) == FormatWAV && strings.Contains(key, ConvertedMarker)
}

// ConvertedKey derives the object key for the transcoded WAV counterpart of
// an m4a source ("call.m4a" -> "call.m4a_converted.wav").
func ConvertedKey(key string) string {
	return key + ConvertedMarker + ".wav"
}

// TranscriptKey derives the object key the transcript is written under.
func TranscriptKey(key string) string {
	return key + ".txt"
}

// StagingPath is the local ephemeral path for a downloaded object,
// namespaced by the object key so concurrent invocations over different
// objects do not collide.
func StagingPath(dir, key string) string {
	return filepath.Join(dir, key)
}

// GSURI renders the gs:// location the recognizer reads from.
func GSURI(bucket, key string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, key)
}
