package stt

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GoogleSpeech runs long-running recognition against Google Cloud
// Speech-to-Text. Large objects take minutes, so the operation is polled on
// a fixed interval; MaxPolls bounds the loop and ResultTimeout bounds the
// final result fetch.
type GoogleSpeech struct {
	c   *speech.Client
	log *logrus.Logger

	SampleRateHz  int32
	PollInterval  time.Duration
	MaxPolls      int
	ResultTimeout time.Duration
}

func NewGoogleSpeech(ctx context.Context, log *logrus.Logger, opts ...option.ClientOption) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:             c,
		log:           log,
		SampleRateHz:  16000,
		PollInterval:  5 * time.Second,
		MaxPolls:      240,
		ResultTimeout: 1000 * time.Second,
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

// language example: "de-DE", "en-US"
func (g *GoogleSpeech) TranscribeURI(ctx context.Context, uri string, enc Encoding, language string) (string, error) {
	var penc speechpb.RecognitionConfig_AudioEncoding
	switch enc {
	case EncodingLinear16:
		penc = speechpb.RecognitionConfig_LINEAR16
	case EncodingMP3:
		penc = speechpb.RecognitionConfig_MP3
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
	if language == "" {
		language = "de-DE"
	}

	op, err := g.c.LongRunningRecognize(ctx, &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   penc,
			SampleRateHertz:            g.SampleRateHz,
			LanguageCode:               language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: uri},
		},
	})
	if err != nil {
		return "", err
	}

	log := g.log.WithFields(logrus.Fields{"operation": op.Name(), "uri": uri})
	log.Info("recognition submitted")

	for polls := 0; !op.Done(); polls++ {
		if g.MaxPolls > 0 && polls >= g.MaxPolls {
			return "", fmt.Errorf("recognition %s not done after %d polls", op.Name(), g.MaxPolls)
		}

		// Progress metadata is best-effort; it may be absent early on.
		if md, merr := op.Metadata(); merr == nil && md != nil {
			log.WithField("progress_percent", md.GetProgressPercent()).Info("recognition in progress")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.PollInterval):
		}

		if _, err := op.Poll(ctx); err != nil {
			return "", err
		}
	}

	wctx, cancel := context.WithTimeout(ctx, g.ResultTimeout)
	defer cancel()

	resp, err := op.Wait(wctx)
	if err != nil {
		return "", err
	}
	return joinTranscript(resp.GetResults()), nil
}

// joinTranscript takes the top alternative of each recognition segment and
// joins them with newlines, preserving the service's (chronological) order.
func joinTranscript(results []*speechpb.SpeechRecognitionResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		parts = append(parts, alts[0].GetTranscript())
	}
	return strings.Join(parts, "\n")
}
