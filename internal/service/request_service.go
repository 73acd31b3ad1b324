package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"scribefinder/internal/auth"
	apperrors "scribefinder/internal/errors"
	"scribefinder/internal/model"
	"scribefinder/internal/repository"
	"scribefinder/internal/validation"
)

// RequestService manages scribe requests and their listings.
type RequestService interface {
	Create(ctx context.Context, sess *auth.Session, in RequestInput) (*model.ScribeRequest, error)
	Get(ctx context.Context, id uint) (*model.ScribeRequest, error)
	Update(ctx context.Context, sess *auth.Session, id uint, in RequestInput) (*model.ScribeRequest, error)
	Delete(ctx context.Context, sess *auth.Session, id uint) error
	List(ctx context.Context, page int) (*model.Page[model.ScribeRequest], error)
	ListByUser(ctx context.Context, username string, page int) (*model.Page[model.ScribeRequest], *model.User, error)
}

type requestService struct {
	requests repository.ScribeRequestRepository
	users    repository.UserRepository
	perPage  int
}

// NewRequestService creates a new request service. perPage <= 0 selects
// model.DefaultPerPage.
func NewRequestService(requests repository.ScribeRequestRepository, users repository.UserRepository, perPage int) RequestService {
	if perPage <= 0 {
		perPage = model.DefaultPerPage
	}
	return &requestService{requests: requests, users: users, perPage: perPage}
}

// Create stores a new open request authored by the session user.
func (s *requestService) Create(ctx context.Context, sess *auth.Session, in RequestInput) (*model.ScribeRequest, error) {
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	in = trimRequest(in)
	if verr := validation.Validate(in); verr != nil {
		return nil, verr
	}

	req := &model.ScribeRequest{
		UserID:      sess.UserID,
		ExamDate:    in.ExamDate,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		Status:      model.RequestStatusOpen,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return s.Get(ctx, req.ID)
}

// Get loads a request together with its author.
func (s *requestService) Get(ctx context.Context, id uint) (*model.ScribeRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return req, nil
}

// Update overwrites the editable fields. Only the author may update.
func (s *requestService) Update(ctx context.Context, sess *auth.Session, id uint, in RequestInput) (*model.ScribeRequest, error) {
	req, err := s.owned(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	in = trimRequest(in)
	if verr := validation.Validate(in); verr != nil {
		return nil, verr
	}

	req.ExamDate = in.ExamDate
	req.PhoneNumber = in.PhoneNumber
	req.Address = in.Address
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	return req, nil
}

// Delete removes a request. Only the author may delete.
func (s *requestService) Delete(ctx context.Context, sess *auth.Session, id uint) error {
	if _, err := s.owned(ctx, sess, id); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
		}
		return fmt.Errorf("delete request: %w", err)
	}
	return nil
}

// List returns one page of every request, newest first.
func (s *requestService) List(ctx context.Context, page int) (*model.Page[model.ScribeRequest], error) {
	if page < 1 {
		return nil, fmt.Errorf("page %d: %w", page, apperrors.ErrNotFound)
	}
	items, total, err := s.requests.List(ctx, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return s.toPage(items, page, total)
}

// ListByUser returns one page of the requests authored by username.
func (s *requestService) ListByUser(ctx context.Context, username string, page int) (*model.Page[model.ScribeRequest], *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if page < 1 {
		return nil, nil, fmt.Errorf("page %d: %w", page, apperrors.ErrNotFound)
	}

	items, total, err := s.requests.ListByUser(ctx, user.ID, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list requests: %w", err)
	}
	p, err := s.toPage(items, page, total)
	if err != nil {
		return nil, nil, err
	}
	return p, user, nil
}

// toPage rejects pages past the end. Page 1 of an empty listing is valid.
func (s *requestService) toPage(items []model.ScribeRequest, page int, total int64) (*model.Page[model.ScribeRequest], error) {
	if page > 1 && len(items) == 0 {
		return nil, fmt.Errorf("page %d: %w", page, apperrors.ErrNotFound)
	}
	p := model.NewPage(items, page, s.perPage, total)
	return &p, nil
}

func (s *requestService) owned(ctx context.Context, sess *auth.Session, id uint) (*model.ScribeRequest, error) {
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.OwnedBy(sess.UserID) {
		return nil, apperrors.ErrForbidden
	}
	return req, nil
}

func trimRequest(in RequestInput) RequestInput {
	in.ExamDate = strings.TrimSpace(in.ExamDate)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Address = strings.TrimSpace(in.Address)
	return in
}
