package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/soundpost/transcriptor/internal/cache"
	"github.com/soundpost/transcriptor/internal/models"
	"github.com/soundpost/transcriptor/internal/providers/stt"
	pgrepo "github.com/soundpost/transcriptor/internal/repositories/postgres"
	"github.com/soundpost/transcriptor/internal/storage"
	"github.com/soundpost/transcriptor/internal/transcode"
	"github.com/soundpost/transcriptor/internal/utils"
)

// IngestionService runs one storage notification through the pipeline:
// validate, branch on format, transcode m4a, transcribe, write the
// transcript back. Every accepted event leaves a TranscriptionJob row, so a
// failed run is distinguishable from one that never happened.
type IngestionService interface {
	Process(ctx context.Context, ev models.TriggerEvent) (*models.TranscriptionJob, error)
}

type IngestionDeps struct {
	Store      storage.ObjectStore
	STT        stt.Provider
	Transcoder transcode.Transcoder
	Jobs       pgrepo.JobRepository
	Cache      cache.Cache      // optional; enables the duplicate-delivery guard
	Notifier   Notifier         // optional; progress events for the WS feed
	Log        *logrus.Logger

	Language   string
	StagingDir string
	DedupTTL   time.Duration
}

type ingestionService struct {
	d IngestionDeps
}

func NewIngestionService(d IngestionDeps) IngestionService {
	if d.Log == nil {
		d.Log = logrus.New()
	}
	if d.StagingDir == "" {
		d.StagingDir = os.TempDir()
	}
	return &ingestionService{d: d}
}

func (s *ingestionService) Process(ctx context.Context, ev models.TriggerEvent) (*models.TranscriptionJob, error) {
	const op = "IngestionService.Process"

	if !ev.Valid() {
		return nil, utils.E(utils.CodeInvalidEvent, op, "event is missing bucket or object name", nil)
	}

	log := s.d.Log.WithFields(logrus.Fields{"bucket": ev.Bucket, "object": ev.Name})

	format := models.FormatFromKey(ev.Name)
	job := &models.TranscriptionJob{
		ID:        uuid.NewString(),
		Bucket:    ev.Bucket,
		Object:    ev.Name,
		Format:    string(format),
		Status:    models.JobProcessing,
		StartedAt: time.Now().UTC(),
	}
	log = log.WithField("job_id", job.ID)

	if format == models.FormatUnknown {
		err := utils.E(utils.CodeUnsupportedFormat, op, fmt.Sprintf("unsupported file format: %s", ev.Name), nil)
		s.close(ctx, log, job, false, err)
		return job, err
	}

	if models.IsConvertedArtifact(ev.Name) {
		log.Info("skipping already processed converted file")
		job.Status = models.JobSkipped
		s.close(ctx, log, job, false, nil)
		return job, nil
	}

	if s.d.Cache != nil && s.d.DedupTTL > 0 {
		guard := "ingest:inflight:" + ev.Bucket + "/" + ev.Name
		ok, err := s.d.Cache.Acquire(ctx, guard, s.d.DedupTTL)
		switch {
		case err != nil:
			// Guard is advisory; a redis outage must not stop ingestion.
			log.WithError(err).Warn("duplicate-delivery guard unavailable")
		case !ok:
			log.Warn("duplicate delivery suppressed, object already in flight")
			job.Status = models.JobSkipped
			s.close(ctx, log, job, false, nil)
			return job, nil
		default:
			defer func() { _ = s.d.Cache.Release(context.WithoutCancel(ctx), guard) }()
		}
	}

	if err := s.d.Jobs.Insert(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record job", err)
	}
	s.notify(ctx, job.ID, "submitted", map[string]any{"object": ev.Name, "format": string(format)})
	log.Info("processing file")

	err := s.run(ctx, log, job, ev, format)
	s.close(ctx, log, job, true, err)
	if err != nil {
		return job, err
	}
	return job, nil
}

// run is the pipeline proper; it mutates job with the produced artifact
// keys and returns the first failure.
func (s *ingestionService) run(ctx context.Context, log *logrus.Entry, job *models.TranscriptionJob, ev models.TriggerEvent, format models.AudioFormat) error {
	const op = "IngestionService.Process"

	staging := models.StagingPath(s.d.StagingDir, ev.Name)
	if err := s.d.Store.DownloadToFile(ctx, ev.Bucket, ev.Name, staging); err != nil {
		return utils.E(utils.CodeStorageFailed, op, "failed to download source object", err)
	}
	defer os.Remove(staging) // best effort; already gone on the m4a path

	inputObject := ev.Name
	encoding := stt.EncodingLinear16

	switch format {
	case models.FormatMP3:
		encoding = stt.EncodingMP3

	case models.FormatM4A:
		converted := models.StagingPath(s.d.StagingDir, models.ConvertedKey(ev.Name))
		s.notify(ctx, job.ID, "transcoding", nil)
		log.Info("converting m4a to wav")

		if err := s.d.Transcoder.ToWAV(ctx, staging, converted); err != nil {
			_ = os.Remove(converted)
			return utils.E(utils.CodeTranscodeFailed, op, "audio conversion failed", err)
		}
		// Free the original before pushing the conversion; staging space is
		// the tightest resource in the invocation.
		_ = os.Remove(staging)

		if err := s.d.Store.UploadFile(ctx, ev.Bucket, models.ConvertedKey(ev.Name), "application/octet-stream", converted); err != nil {
			_ = os.Remove(converted)
			return utils.E(utils.CodeStorageFailed, op, "failed to upload converted audio", err)
		}
		_ = os.Remove(converted)

		inputObject = models.ConvertedKey(ev.Name)
		job.ConvertedObject = inputObject
	}

	uri := models.GSURI(ev.Bucket, inputObject)
	s.notify(ctx, job.ID, "transcribing", map[string]any{"uri": uri})
	log.WithField("uri", uri).Info("starting transcription")

	text, err := s.d.STT.TranscribeURI(ctx, uri, encoding, s.d.Language)
	if err != nil {
		return utils.E(utils.CodeTranscriptionFailed, op, "transcription failed", err)
	}

	transcriptKey := models.TranscriptKey(ev.Name)
	if err := s.d.Store.Upload(ctx, ev.Bucket, transcriptKey, "text/plain", strings.NewReader(text)); err != nil {
		return utils.E(utils.CodeStorageFailed, op, "failed to upload transcript", err)
	}

	job.TranscriptObject = transcriptKey
	job.TranscriptChars = len(text)
	log.WithField("transcript_object", transcriptKey).Info("transcript saved")
	return nil
}

// close stamps the terminal state onto the job row and emits the terminal
// progress event. Persistence problems here are logged, not raised; the
// pipeline outcome already stands.
func (s *ingestionService) close(ctx context.Context, log *logrus.Entry, job *models.TranscriptionJob, inserted bool, perr error) {
	now := time.Now().UTC()
	job.FinishedAt = &now
	job.DurationMS = now.Sub(job.StartedAt).Milliseconds()

	event := "completed"
	switch {
	case perr != nil:
		job.Status = models.JobFailed
		job.ErrorCode = string(utils.CodeOf(perr))
		job.ErrorMessage = perr.Error()
		event = "failed"
	case job.Status == models.JobSkipped:
		event = "skipped"
	default:
		job.Status = models.JobCompleted
	}

	var err error
	if inserted {
		err = s.d.Jobs.Update(ctx, job)
	} else {
		err = s.d.Jobs.Insert(ctx, job)
	}
	if err != nil {
		log.WithError(err).Error("failed to persist job outcome")
	}

	fields := map[string]any{"status": job.Status}
	if job.ErrorCode != "" {
		fields["error_code"] = job.ErrorCode
	}
	s.notify(ctx, job.ID, event, fields)
}

func (s *ingestionService) notify(ctx context.Context, jobID, event string, fields map[string]any) {
	if s.d.Notifier == nil {
		return
	}
	s.d.Notifier.JobEvent(ctx, jobID, event, fields)
}
