package storage

import (
	"context"

	"github.com/iudanet/notekeeper/internal/models"
)

// UserStorage is the credential store. Usernames compare case-sensitively
// and uniqueness is enforced by the database, not by callers.
type UserStorage interface {
	// CreateUser: ErrUserAlreadyExists when the username is taken
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UserExists(ctx context.Context, username string) (bool, error)
	// UpdatePasswordHash используется при перехешировании после успешного входа
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}
