package stt

import (
	"context"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	longrunningpb "cloud.google.com/go/longrunning/autogen/longrunningpb"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/anypb"
)

type fakeSpeech struct {
	speechpb.UnimplementedSpeechServer
	lastReq *speechpb.LongRunningRecognizeRequest
}

func (s *fakeSpeech) LongRunningRecognize(_ context.Context, req *speechpb.LongRunningRecognizeRequest) (*longrunningpb.Operation, error) {
	s.lastReq = req
	md, err := anypb.New(&speechpb.LongRunningRecognizeMetadata{ProgressPercent: 5})
	if err != nil {
		return nil, err
	}
	return &longrunningpb.Operation{Name: "operations/test-1", Metadata: md}, nil
}

type fakeOps struct {
	longrunningpb.UnimplementedOperationsServer
	pollsUntilDone int32
	gets           atomic.Int32
	resp           *speechpb.LongRunningRecognizeResponse
}

func (s *fakeOps) GetOperation(_ context.Context, req *longrunningpb.GetOperationRequest) (*longrunningpb.Operation, error) {
	if s.gets.Add(1) <= s.pollsUntilDone {
		md, err := anypb.New(&speechpb.LongRunningRecognizeMetadata{ProgressPercent: 50})
		if err != nil {
			return nil, err
		}
		return &longrunningpb.Operation{Name: req.Name, Metadata: md}, nil
	}

	respAny, err := anypb.New(s.resp)
	if err != nil {
		return nil, err
	}
	return &longrunningpb.Operation{
		Name:   req.Name,
		Done:   true,
		Result: &longrunningpb.Operation_Response{Response: respAny},
	}, nil
}

func newTestProvider(t *testing.T, sp *fakeSpeech, ops *fakeOps) *GoogleSpeech {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	speechpb.RegisterSpeechServer(srv, sp)
	longrunningpb.RegisterOperationsServer(srv, ops)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	g, err := NewGoogleSpeech(context.Background(), log, option.WithGRPCConn(conn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	g.PollInterval = time.Millisecond
	return g
}

func twoSegments() *speechpb.LongRunningRecognizeResponse {
	return &speechpb.LongRunningRecognizeResponse{
		Results: []*speechpb.SpeechRecognitionResult{
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{
				{Transcript: "hallo welt", Confidence: 0.92},
				{Transcript: "hallo weld", Confidence: 0.41},
			}},
			{Alternatives: []*speechpb.SpeechRecognitionAlternative{
				{Transcript: "zweiter satz", Confidence: 0.88},
			}},
		},
	}
}

func TestTranscribeURI(t *testing.T) {
	sp := &fakeSpeech{}
	g := newTestProvider(t, sp, &fakeOps{pollsUntilDone: 2, resp: twoSegments()})

	text, err := g.TranscribeURI(context.Background(), "gs://b1/call.wav", EncodingLinear16, "de-DE")
	require.NoError(t, err)
	assert.Equal(t, "hallo welt\nzweiter satz", text)

	req := sp.lastReq
	require.NotNil(t, req)
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, req.GetConfig().GetEncoding())
	assert.Equal(t, int32(16000), req.GetConfig().GetSampleRateHertz())
	assert.Equal(t, "de-DE", req.GetConfig().GetLanguageCode())
	assert.True(t, req.GetConfig().GetEnableAutomaticPunctuation())
	assert.Equal(t, "gs://b1/call.wav", req.GetAudio().GetUri())
}

func TestTranscribeURIMP3Encoding(t *testing.T) {
	sp := &fakeSpeech{}
	g := newTestProvider(t, sp, &fakeOps{resp: twoSegments()})

	_, err := g.TranscribeURI(context.Background(), "gs://b1/episode.mp3", EncodingMP3, "de-DE")
	require.NoError(t, err)
	assert.Equal(t, speechpb.RecognitionConfig_MP3, sp.lastReq.GetConfig().GetEncoding())
}

func TestTranscribeURIUnknownEncoding(t *testing.T) {
	sp := &fakeSpeech{}
	g := newTestProvider(t, sp, &fakeOps{resp: twoSegments()})

	_, err := g.TranscribeURI(context.Background(), "gs://b1/x.flac", Encoding("FLAC"), "de-DE")
	require.Error(t, err)
	assert.Nil(t, sp.lastReq)
}

func TestTranscribeURIPollBudgetExhausted(t *testing.T) {
	g := newTestProvider(t, &fakeSpeech{}, &fakeOps{pollsUntilDone: 1 << 20, resp: twoSegments()})
	g.MaxPolls = 3

	_, err := g.TranscribeURI(context.Background(), "gs://b1/long.wav", EncodingLinear16, "de-DE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not done after 3 polls")
}

func TestJoinTranscript(t *testing.T) {
	assert.Equal(t, "", joinTranscript(nil))

	results := []*speechpb.SpeechRecognitionResult{
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "a"}}},
		{}, // segment without alternatives is dropped, not a blank line
		{Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: "b"}, {Transcript: "x"}}},
	}
	assert.Equal(t, "a\nb", joinTranscript(results))
}
