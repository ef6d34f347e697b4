package services

import (
	"errors"
	"strings"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/auth"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/validate"
)

// UserStore is the persistence surface AuthService needs. Satisfied by
// repositories.UserRepository.
type UserStore interface {
	FindByEmail(email string) (models.User, error)
	FindByID(id uint) (models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
}

// AuthService owns account registration, login and profile updates.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// NormalizeEmail lower-cases and trims an address so lookups and the unique
// index agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account. The email is normalised and checked for
// syntax and uniqueness; the password is stored as a bcrypt hash only.
func (s *AuthService) Register(email, password, name, address string) (models.User, error) {
	email = NormalizeEmail(email)
	if !validate.Email(email) {
		return models.User{}, ErrInvalidEmail
	}

	_, err := s.users.FindByEmail(email)
	switch {
	case err == nil:
		return models.User{}, ErrDuplicateEmail
	case !errors.Is(err, repositories.ErrNotFound):
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Address:      strings.TrimSpace(address),
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate checks credentials and mints a bearer token for API clients.
// Unknown emails and bad passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(NormalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// UpdateProfile changes name, address and optionally the password. Blank
// values keep the current ones.
func (s *AuthService) UpdateProfile(userID uint, name, address, newPassword string) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if address = strings.TrimSpace(address); address != "" {
		user.Address = address
	}
	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
