package service

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/qdimov/quizdesk/internal/apperr"
	"github.com/qdimov/quizdesk/internal/model"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) Create(user *model.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func newAuthFixture() AuthService {
	repo := &fakeUserRepo{users: map[string]*model.User{
		"aziza": {ID: 1, Username: "aziza"},
		"admin": {ID: 2, Username: "admin", IsReviewer: true},
	}}
	return NewAuthService(repo, "test-secret")
}

func TestIssueAndParseToken(t *testing.T) {
	auth := newAuthFixture()

	token, err := auth.IssueToken("admin")
	if err != nil {
		t.Fatalf("IssueToken() error: %v", err)
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}
	if claims.UserID != 2 {
		t.Fatalf("UserID = %d, want 2", claims.UserID)
	}
	if !claims.Reviewer {
		t.Fatal("reviewer flag lost in round trip")
	}
	if claims.Subject != "admin" {
		t.Fatalf("Subject = %q, want %q", claims.Subject, "admin")
	}
}

func TestIssueTokenUnknownUser(t *testing.T) {
	auth := newAuthFixture()
	if _, err := auth.IssueToken("nobody"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("IssueToken() error = %v, want ErrNotFound", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	auth := newAuthFixture()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1}).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("signing forged token: %v", err)
	}

	if _, err := auth.ParseToken(forged); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("ParseToken() error = %v, want ErrPermissionDenied", err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := newAuthFixture()
	if _, err := auth.ParseToken("not.a.token"); !errors.Is(err, apperr.ErrPermissionDenied) {
		t.Fatalf("ParseToken() error = %v, want ErrPermissionDenied", err)
	}
}
