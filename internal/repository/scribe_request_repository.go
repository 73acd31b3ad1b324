package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"scribefinder/internal/model"
)

// ScribeRequestRepository defines scribe request persistence operations.
type ScribeRequestRepository interface {
	Create(ctx context.Context, req *model.ScribeRequest) error
	Update(ctx context.Context, req *model.ScribeRequest) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.ScribeRequest, error)
	// List returns one window of requests, newest first, and the total count.
	List(ctx context.Context, offset, limit int) ([]model.ScribeRequest, int64, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.ScribeRequest, int64, error)
	// MarkAccepted moves an open request to accepted. It reports false when the
	// request was not open.
	MarkAccepted(ctx context.Context, id, volunteerID uint, at time.Time) (bool, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ScribeRequestRepository) error) error
}

type scribeRequestRepository struct {
	db *gorm.DB
}

// NewScribeRequestRepository creates a new scribe request repository.
func NewScribeRequestRepository(db *gorm.DB) ScribeRequestRepository {
	return &scribeRequestRepository{db: db}
}

func (r *scribeRequestRepository) Create(ctx context.Context, req *model.ScribeRequest) error {
	if req.Status == "" {
		req.Status = model.RequestStatusOpen
	}
	if err := r.db.WithContext(ctx).Omit("Author").Create(req).Error; err != nil {
		return err
	}
	return nil
}

// Update overwrites the editable fields only; owner and creation time never change.
func (r *scribeRequestRepository) Update(ctx context.Context, req *model.ScribeRequest) error {
	return r.db.WithContext(ctx).Model(&model.ScribeRequest{ID: req.ID}).
		Select("ExamDate", "PhoneNumber", "Address").
		Updates(req).Error
}

func (r *scribeRequestRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.ScribeRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scribeRequestRepository) FindByID(ctx context.Context, id uint) (*model.ScribeRequest, error) {
	var req model.ScribeRequest
	if err := r.db.WithContext(ctx).Preload("Author").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *scribeRequestRepository) List(ctx context.Context, offset, limit int) ([]model.ScribeRequest, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.ScribeRequest{}), offset, limit)
}

func (r *scribeRequestRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.ScribeRequest, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.ScribeRequest{}).Where("user_id = ?", userID), offset, limit)
}

func (r *scribeRequestRepository) page(q *gorm.DB, offset, limit int) ([]model.ScribeRequest, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []model.ScribeRequest
	err := q.Session(&gorm.Session{}).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reqs).Error
	if err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (r *scribeRequestRepository) MarkAccepted(ctx context.Context, id, volunteerID uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ScribeRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusOpen).
		Updates(map[string]interface{}{
			"status":         model.RequestStatusAccepted,
			"accepted_by_id": volunteerID,
			"accepted_at":    at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// WithTransaction executes a function within a database transaction.
func (r *scribeRequestRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ScribeRequestRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &scribeRequestRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
