package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/szahir/taskboard/internal/model"
	"github.com/szahir/taskboard/internal/repository"
)

const bcryptCost = 10

// AuthService handles signup, login and Google identity assertions.
type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginInput struct {
	Email    string
	Password string
}

// GoogleInput is the profile asserted by the client after a Google sign-in.
type GoogleInput struct {
	Name     string
	Email    string
	PhotoURL string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (model.User, error) {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return model.User{}, fmt.Errorf("%w: all fields are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (model.User, error) {
	if input.Email == "" || input.Password == "" {
		return model.User{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return model.User{}, ErrBadCredentials
	}

	return user, nil
}

// GoogleLogin logs in the user matching the asserted email, creating the
// account first if it does not exist. New accounts get an unguessable
// random password so the email/password path stays closed until the user
// sets one.
func (s *AuthService) GoogleLogin(ctx context.Context, input GoogleInput) (model.User, error) {
	if input.Email == "" {
		return model.User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	password, err := randomPassword()
	if err != nil {
		return model.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	name := input.Name
	if name == "" {
		name = input.Email
	}

	created, err := s.userRepo.Create(ctx, model.User{
		Email:             input.Email,
		PasswordHash:      string(hash),
		FirstName:         name,
		LastName:          name,
		ProfilePictureURL: input.PhotoURL,
	})
	if err != nil {
		// Raced with a concurrent first sign-in for the same email.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return s.userRepo.GetByEmail(ctx, input.Email)
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
