package services

import (
	"fmt"

	"canteen/internal/models"
	"canteen/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// AuthService is a simple credential store: registration with bcrypt
// hashing and credential verification on login. There is deliberately no
// session or token mechanism; login returns the user record and the
// dashboard keeps the role client-side.
type AuthService struct {
	userRepo repositories.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them.
func (s *AuthService) RegisterUser(user *models.User) error {
	if user.Role != models.RoleStudent && user.Role != models.RoleCanteen {
		return fmt.Errorf("invalid role %q", user.Role)
	}
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("username '%s' already taken", user.Username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser verifies the credentials and returns the user with the
// password hash blanked. Unknown username and wrong password produce the
// same error so the response does not reveal which one failed.
func (s *AuthService) LoginUser(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	user.Password = ""
	return user, nil
}
