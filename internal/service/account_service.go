package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"scribefinder/internal/auth"
	"scribefinder/internal/cache"
	apperrors "scribefinder/internal/errors"
	"scribefinder/internal/media"
	"scribefinder/internal/model"
	"scribefinder/internal/repository"
	"scribefinder/internal/storage"
	"scribefinder/internal/validation"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

var (
	usernameTaken = apperrors.FieldError{Field: "username", Rule: "unique", Message: "That username is taken. Please choose a different one."}
	emailTaken    = apperrors.FieldError{Field: "email", Rule: "unique", Message: "That email is taken. Please choose a different one."}
	accountTaken  = apperrors.FieldError{Field: "account", Rule: "unique", Message: "That username or email is taken. Please choose a different one."}
)

// LoginResult is a freshly established session.
type LoginResult struct {
	User    *model.User
	Token   string
	Session *auth.Session
}

// AccountService handles registration, sessions and profiles.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, sess *auth.Session) error
	CurrentUser(ctx context.Context, sess *auth.Session) (*model.User, error)
	UpdateProfile(ctx context.Context, sess *auth.Session, in ProfileInput, image *ProfileImage) (*model.User, error)
	ImageURL(ctx context.Context, user *model.User) (string, error)
}

type accountService struct {
	users    repository.UserRepository
	jwt      *auth.JWTService
	sessions auth.SessionStore
	images   storage.Service
	cache    *cache.Client
}

// NewAccountService creates a new account service.
func NewAccountService(
	users repository.UserRepository,
	jwt *auth.JWTService,
	sessions auth.SessionStore,
	images storage.Service,
	cache *cache.Client,
) AccountService {
	return &accountService{
		users:    users,
		jwt:      jwt,
		sessions: sessions,
		images:   images,
		cache:    cache,
	}
}

func (s *accountService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Register creates a user with a hashed password. It never logs the user in.
func (s *accountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if verr := validation.Validate(in); verr != nil {
		return nil, verr
	}

	var taken []apperrors.FieldError
	if exists, err := s.usernameExists(ctx, in.Username); err != nil {
		return nil, err
	} else if exists {
		taken = append(taken, usernameTaken)
	}
	if exists, err := s.emailExists(ctx, in.Email); err != nil {
		return nil, err
	} else if exists {
		taken = append(taken, emailTaken)
	}
	if len(taken) > 0 {
		return nil, apperrors.NewValidationError(taken...)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		ImageFile:    model.DefaultImageFile,
		Role:         model.RoleFromFlag(in.Blind),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration
			return nil, s.collision(ctx, user.Username, user.Email, 0)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and opens a session. The error never says which
// of email or password was wrong.
func (s *accountService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if verr := validation.Validate(in); verr != nil {
		return nil, verr
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, sess, err := s.jwt.IssueSession(user.ID, in.Remember)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &LoginResult{User: user, Token: token, Session: sess}, nil
}

// Logout revokes the session for the rest of its lifetime. If the revocation
// cannot be stored the session stays valid and ErrUnavailable is returned.
func (s *accountService) Logout(ctx context.Context, sess *auth.Session) error {
	if sess == nil {
		return apperrors.ErrUnauthenticated
	}
	if err := s.sessions.Revoke(ctx, sess.ID, sess.TTL(time.Now())); err != nil {
		return fmt.Errorf("%w: revoke session: %v", apperrors.ErrUnavailable, err)
	}
	return nil
}

// CurrentUser loads the user behind sess, served from cache when possible.
func (s *accountService) CurrentUser(ctx context.Context, sess *auth.Session) (*model.User, error) {
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if data, _ := s.cache.Get(ctx, s.cacheKey(sess.UserID)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(user.ID), payload, userCacheTTL)
	}
	return user, nil
}

// UpdateProfile changes username and email and optionally replaces the
// profile picture with a 125x125-bounded thumbnail under a random name. The
// previous picture is left in storage.
func (s *accountService) UpdateProfile(ctx context.Context, sess *auth.Session, in ProfileInput, image *ProfileImage) (*model.User, error) {
	if sess == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if verr := validation.Validate(in); verr != nil {
		return nil, verr
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var taken []apperrors.FieldError
	if in.Username != user.Username {
		exists, err := s.usernameExists(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			taken = append(taken, usernameTaken)
		}
	}
	if in.Email != user.Email {
		exists, err := s.emailExists(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			taken = append(taken, emailTaken)
		}
	}
	if len(taken) > 0 {
		return nil, apperrors.NewValidationError(taken...)
	}

	if image != nil {
		filename, err := s.savePicture(ctx, image)
		if err != nil {
			return nil, err
		}
		user.ImageFile = filename
	}
	user.Username = in.Username
	user.Email = in.Email

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.collision(ctx, user.Username, user.Email, user.ID)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

// ImageURL resolves where clients can load the user's profile picture.
func (s *accountService) ImageURL(ctx context.Context, user *model.User) (string, error) {
	name := user.ImageFile
	if name == "" {
		name = model.DefaultImageFile
	}
	return s.images.URL(ctx, name)
}

func (s *accountService) savePicture(ctx context.Context, image *ProfileImage) (string, error) {
	ext, err := media.Extension(image.Filename)
	if err != nil {
		return "", apperrors.NewValidationError(apperrors.FieldError{
			Field: "picture", Rule: "ext", Message: "File does not have an approved extension: jpg, jpeg, png, gif",
		})
	}
	thumb, err := media.Thumbnail(image.Content, ext)
	if err != nil {
		return "", apperrors.NewValidationError(apperrors.FieldError{
			Field: "picture", Rule: "image", Message: "File is not a readable image.",
		})
	}

	filename := media.RandomFilename(ext)
	if err := s.images.Put(ctx, filename, thumb, media.ContentType(ext)); err != nil {
		return "", fmt.Errorf("store picture: %w", err)
	}
	return filename, nil
}

func (s *accountService) usernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.users.FindByUsername(ctx, username)
	return found(err, "username")
}

func (s *accountService) emailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	return found(err, "email")
}

// collision names the fields another user already holds after the database
// rejected a write as a duplicate. self is the user being written, 0 on create.
func (s *accountService) collision(ctx context.Context, username, email string, self uint) error {
	var taken []apperrors.FieldError
	if other, err := s.users.FindByUsername(ctx, username); err == nil && other.ID != self {
		taken = append(taken, usernameTaken)
	}
	if other, err := s.users.FindByEmail(ctx, email); err == nil && other.ID != self {
		taken = append(taken, emailTaken)
	}
	if len(taken) == 0 {
		taken = append(taken, accountTaken)
	}
	return apperrors.NewValidationError(taken...)
}

func found(err error, what string) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check %s: %w", what, err)
	}
}
