package postgres

import (
	"context"
	"errors"

	"github.com/soundpost/transcriptor/internal/models"
	"github.com/soundpost/transcriptor/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	Insert(ctx context.Context, j *models.TranscriptionJob) error
	Update(ctx context.Context, j *models.TranscriptionJob) error
	GetByID(ctx context.Context, id string) (*models.TranscriptionJob, error)
	ListRecent(ctx context.Context, limit int) ([]models.TranscriptionJob, error)
	ListByObject(ctx context.Context, bucket, object string) ([]models.TranscriptionJob, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Insert(ctx context.Context, j *models.TranscriptionJob) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) Update(ctx context.Context, j *models.TranscriptionJob) error {
	return r.db.WithContext(ctx).Save(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.TranscriptionJob, error) {
	var row models.TranscriptionJob
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeNotFound, "JobRepo.GetByID", "job not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *jobRepo) ListRecent(ctx context.Context, limit int) ([]models.TranscriptionJob, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.TranscriptionJob
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *jobRepo) ListByObject(ctx context.Context, bucket, object string) ([]models.TranscriptionJob, error) {
	var rows []models.TranscriptionJob
	err := r.db.WithContext(ctx).
		Where("bucket = ? AND object = ?", bucket, object).
		Order("started_at DESC").
		Find(&rows).Error
	return rows, err
}
