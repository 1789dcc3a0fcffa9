package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tritonlifts/api/internal/models"
	"github.com/tritonlifts/api/internal/session"
	"github.com/tritonlifts/api/pkg/utils"
)

type userReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type AuthService struct {
	users    userReader
	sessions session.Store
}

func NewAuthService(users userReader, sessions session.Store) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// Login looks the user up by email and opens a session for them. There is no
// password; knowing a registered email is enough.
func (s *AuthService) Login(ctx context.Context, email string) (*session.Session, *models.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, nil, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("login: user lookup failed")
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}

	sess, err := s.sessions.Open(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}

	logrus.WithField("user_id", user.ID).Debug("session opened")
	return sess, user, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Close(ctx, sessionID)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}
