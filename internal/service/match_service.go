package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"scribefinder/internal/auth"
	apperrors "scribefinder/internal/errors"
	"scribefinder/internal/mail"
	"scribefinder/internal/model"
	"scribefinder/internal/repository"
)

const (
	requesterSubject = "Scribe Connect"
	volunteerSubject = "Scribe Finder"
)

// Match is the outcome of a volunteer accepting a requester.
type Match struct {
	Requester *model.User `json:"requester"`
	Volunteer *model.User `json:"volunteer"`
}

// MatchService connects volunteers with requesters and notifies both.
type MatchService interface {
	// AcceptRequest notifies both parties by email. Both users are resolved
	// before anything is sent.
	AcceptRequest(ctx context.Context, requesterEmail, volunteerEmail string) (*Match, error)
	// AcceptPost marks a request accepted by the session user and notifies
	// both parties. A failed notification leaves the request open.
	AcceptPost(ctx context.Context, sess *auth.Session, id uint) (*model.ScribeRequest, error)
}

type matchService struct {
	users    repository.UserRepository
	requests repository.ScribeRequestRepository
	mailer   mail.Sender
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewMatchService creates a new match service.
func NewMatchService(
	users repository.UserRepository,
	requests repository.ScribeRequestRepository,
	mailer mail.Sender,
	logger logrus.FieldLogger,
) MatchService {
	return &matchService{
		users:    users,
		requests: requests,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *matchService) AcceptRequest(ctx context.Context, requesterEmail, volunteerEmail string) (*Match, error) {
	requester, err := s.userByEmail(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}
	volunteer, err := s.userByEmail(ctx, volunteerEmail)
	if err != nil {
		return nil, err
	}

	if err := s.notify(ctx, requester, volunteer); err != nil {
		return nil, err
	}
	return &Match{Requester: requester, Volunteer: volunteer}, nil
}

func (s *matchService) AcceptPost(ctx context.Context, sess *auth.Session, id uint) (*model.ScribeRequest, error) {
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	volunteer, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find volunteer: %w", err)
	}
	if volunteer.Role != model.RoleScribe {
		return nil, apperrors.ErrForbidden
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	if req.OwnedBy(volunteer.ID) {
		return nil, apperrors.ErrForbidden
	}
	if req.Status == model.RequestStatusAccepted {
		return nil, apperrors.ErrAlreadyAccepted
	}

	requester := req.Author
	if requester == nil {
		if requester, err = s.users.FindByID(ctx, req.UserID); err != nil {
			return nil, fmt.Errorf("find requester: %w", err)
		}
	}

	at := s.now().UTC()
	err = s.requests.WithTransaction(ctx, func(ctx context.Context, repo repository.ScribeRequestRepository) error {
		ok, err := repo.MarkAccepted(ctx, req.ID, volunteer.ID, at)
		if err != nil {
			return fmt.Errorf("mark accepted: %w", err)
		}
		if !ok {
			return apperrors.ErrAlreadyAccepted
		}
		return s.notify(ctx, requester, volunteer)
	})
	if err != nil {
		return nil, err
	}

	req.Status = model.RequestStatusAccepted
	req.AcceptedByID = &volunteer.ID
	req.AcceptedAt = &at
	return req, nil
}

// userByEmail tolerates duplicate rows for one address and picks the first.
func (s *matchService) userByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := s.users.FindAllByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user with email %q: %w", email, apperrors.ErrNotFound)
	}
	return &users[0], nil
}

// notify mails the volunteer first. The requester is only mailed once that
// send succeeded, so a rolled back acceptance is never announced to them.
func (s *matchService) notify(ctx context.Context, requester, volunteer *model.User) error {
	msgs := []mail.Message{
		{
			To:      volunteer.Email,
			Subject: volunteerSubject,
			Body:    fmt.Sprintf("Dear %s,\n\nYour acceptance has been sent to %s. You can reach them at %s.\n", volunteer.Username, requester.Username, requester.Email),
		},
		{
			To:      requester.Email,
			Subject: requesterSubject,
			Body:    fmt.Sprintf("Dear %s,\n\n%s has accepted your scribe request. You can reach them at %s.\n", requester.Username, volunteer.Username, volunteer.Email),
		},
	}
	for _, msg := range msgs {
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.WithError(err).WithField("to", msg.To).Error("notification failed")
			return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
		}
		s.logger.WithFields(logrus.Fields{"to": msg.To, "subject": msg.Subject}).Info("notification sent")
	}
	return nil
}
