package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/szahir/taskboard/internal/model"
	"github.com/szahir/taskboard/internal/repository"
	"github.com/szahir/taskboard/internal/service"
)

// mockUserRepo implements repository.UserRepository for testing
type mockUserRepo struct {
	createFn     func(ctx context.Context, user model.User) (model.User, error)
	getByEmailFn func(ctx context.Context, email string) (model.User, error)
	getByIDFn    func(ctx context.Context, id string) (model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user model.User) (model.User, error) {
	return m.createFn(ctx, user)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return m.getByIDFn(ctx, id)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestSignup(t *testing.T) {
	valid := service.SignupInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "pw123456",
	}

	tests := []struct {
		name    string
		input   service.SignupInput
		repoErr error
		wantErr error
	}{
		{name: "success", input: valid},
		{name: "missing first name", input: service.SignupInput{LastName: "L", Email: "e", Password: "p"}, wantErr: service.ErrInvalidInput},
		{name: "missing email", input: service.SignupInput{FirstName: "A", LastName: "L", Password: "p"}, wantErr: service.ErrInvalidInput},
		{name: "missing password", input: service.SignupInput{FirstName: "A", LastName: "L", Email: "e"}, wantErr: service.ErrInvalidInput},
		{name: "duplicate email", input: valid, repoErr: repository.ErrDuplicateEmail, wantErr: service.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created model.User
			repo := &mockUserRepo{
				createFn: func(ctx context.Context, user model.User) (model.User, error) {
					if tt.repoErr != nil {
						return model.User{}, tt.repoErr
					}
					user.ID = "user-1"
					created = user
					return user, nil
				},
			}
			svc := service.NewAuthService(repo)
			got, err := svc.Signup(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != "user-1" || got.Email != tt.input.Email {
				t.Errorf("got %+v", got)
			}
			if created.PasswordHash == tt.input.Password {
				t.Error("password stored in the clear")
			}
			if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(tt.input.Password)); err != nil {
				t.Errorf("stored hash does not verify: %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash := hashOf(t, "correct-horse")

	tests := []struct {
		name     string
		input    service.LoginInput
		repoErr  error
		wantErr  error
	}{
		{name: "success", input: service.LoginInput{Email: "a@b.c", Password: "correct-horse"}},
		{name: "unknown email", input: service.LoginInput{Email: "x@b.c", Password: "p"}, repoErr: sql.ErrNoRows, wantErr: service.ErrNotFound},
		{name: "wrong password", input: service.LoginInput{Email: "a@b.c", Password: "tr0ub4dor"}, wantErr: service.ErrBadCredentials},
		{name: "missing fields", input: service.LoginInput{}, wantErr: service.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{
				getByEmailFn: func(ctx context.Context, email string) (model.User, error) {
					if tt.repoErr != nil {
						return model.User{}, tt.repoErr
					}
					return model.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
				},
			}
			svc := service.NewAuthService(repo)
			got, err := svc.Login(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != "user-1" {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestGoogleLogin(t *testing.T) {
	t.Run("existing user logs in", func(t *testing.T) {
		repo := &mockUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (model.User, error) {
				return model.User{ID: "user-1", Email: email}, nil
			},
		}
		svc := service.NewAuthService(repo)

		got, err := svc.GoogleLogin(context.Background(), service.GoogleInput{
			Name:  "Ada",
			Email: "ada@example.com",
		})
		if err != nil {
			t.Fatalf("GoogleLogin: %v", err)
		}
		if got.ID != "user-1" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("new user is created", func(t *testing.T) {
		var created model.User
		repo := &mockUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (model.User, error) {
				return model.User{}, sql.ErrNoRows
			},
			createFn: func(ctx context.Context, user model.User) (model.User, error) {
				user.ID = "user-2"
				created = user
				return user, nil
			},
		}
		svc := service.NewAuthService(repo)

		got, err := svc.GoogleLogin(context.Background(), service.GoogleInput{
			Name:     "Ada",
			Email:    "ada@example.com",
			PhotoURL: "https://example.com/pic.png",
		})
		if err != nil {
			t.Fatalf("GoogleLogin: %v", err)
		}
		if got.ID != "user-2" {
			t.Errorf("got %+v", got)
		}
		if created.ProfilePictureURL != "https://example.com/pic.png" {
			t.Errorf("profile picture = %q", created.ProfilePictureURL)
		}
		if created.PasswordHash == "" {
			t.Error("new Google user must get a password hash")
		}
	})

	t.Run("creation race falls back to lookup", func(t *testing.T) {
		lookups := 0
		repo := &mockUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (model.User, error) {
				lookups++
				if lookups == 1 {
					return model.User{}, sql.ErrNoRows
				}
				return model.User{ID: "user-3", Email: email}, nil
			},
			createFn: func(ctx context.Context, user model.User) (model.User, error) {
				return model.User{}, repository.ErrDuplicateEmail
			},
		}
		svc := service.NewAuthService(repo)

		got, err := svc.GoogleLogin(context.Background(), service.GoogleInput{Email: "ada@example.com"})
		if err != nil {
			t.Fatalf("GoogleLogin: %v", err)
		}
		if got.ID != "user-3" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		svc := service.NewAuthService(&mockUserRepo{})
		if _, err := svc.GoogleLogin(context.Background(), service.GoogleInput{}); !errors.Is(err, service.ErrInvalidInput) {
			t.Fatalf("err = %v, want ErrInvalidInput", err)
		}
	})
}
