package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/heartspace/internal/auth"
	"github.com/geocoder89/heartspace/internal/domain/user"
	"github.com/geocoder89/heartspace/internal/repo/memory"
	"github.com/geocoder89/heartspace/internal/security"
	"github.com/geocoder89/heartspace/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users  *memory.UsersRepo
	tokens *auth.Manager
	svc    *service.AuthService
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	users := memory.NewUsersRepo()
	tokens := auth.NewManager("test-secret-key", time.Hour)

	return authFixture{
		users:  users,
		tokens: tokens,
		svc:    service.NewAuthService(users, security.NewHasher(bcrypt.MinCost), tokens, nil),
	}
}

func signUpAda() user.SignUpRequest {
	return user.SignUpRequest{
		Name:     "Ada",
		Email:    "ada@x.com",
		Password: "secret1",
		Location: "London",
	}
}

func mustKind(t *testing.T, err error, want service.Kind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}

	if got := service.KindOf(err); got != want {
		t.Fatalf("got kind %s, want %s (err=%v)", got, want, err)
	}
}

func TestRegister_IssuesTokenForNewUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, signUpAda())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if res.User.ID == "" || res.User.Name != "Ada" || res.User.Email != "ada@x.com" || res.User.Location != "London" {
		t.Fatalf("unexpected public user: %+v", res.User)
	}

	if res.ExpiresIn != 3600 {
		t.Fatalf("got expiresIn %d, want 3600", res.ExpiresIn)
	}

	userID, err := f.svc.VerifyToken(res.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if userID != res.User.ID {
		t.Fatalf("token subject %q does not match created user %q", userID, res.User.ID)
	}

	stored, err := f.users.GetByEmail(ctx, "ada@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}

	if stored.PasswordHash == "" || stored.PasswordHash == "secret1" {
		t.Fatalf("password must be stored hashed, got %q", stored.PasswordHash)
	}

	if stored.ProfilePic != user.DefaultProfilePic {
		t.Fatalf("got profile pic %q, want default", stored.ProfilePic)
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, signUpAda()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dupes := []user.SignUpRequest{
		signUpAda(),
		{Name: "Someone Else", Email: "ada@x.com", Password: "different-password"},
		{Name: "Shouty", Email: "  ADA@X.COM ", Password: "secret1"},
	}

	for _, req := range dupes {
		_, err := f.svc.Register(ctx, req)
		mustKind(t, err, service.KindConflict)

		if !strings.Contains(err.Error(), service.MsgUserExists) {
			t.Fatalf("unexpected conflict message: %v", err)
		}
	}

	if got := f.users.Len(); got != 1 {
		t.Fatalf("got %d stored users, want 1", got)
	}
}

func TestRegister_ValidationHappensBeforePersistence(t *testing.T) {
	tests := []struct {
		name      string
		req       user.SignUpRequest
		wantField string
	}{
		{
			name:      "short password",
			req:       user.SignUpRequest{Name: "Ada", Email: "ada@x.com", Password: "12345"},
			wantField: "password",
		},
		{
			name:      "blank name",
			req:       user.SignUpRequest{Name: "   ", Email: "ada@x.com", Password: "secret1"},
			wantField: "name",
		},
		{
			name:      "bad email",
			req:       user.SignUpRequest{Name: "Ada", Email: "ada-at-x", Password: "secret1"},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			_, err := f.svc.Register(context.Background(), tt.req)
			mustKind(t, err, service.KindValidation)

			svcErr := err.(*service.Error)
			found := false
			for _, fe := range svcErr.Fields {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected a field error for %q, got %+v", tt.wantField, svcErr.Fields)
			}

			if got := f.users.Len(); got != 0 {
				t.Fatalf("invalid signup persisted %d user(s)", got)
			}
		})
	}
}

func TestLogin_ReturnsVerifiableToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, signUpAda())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := f.svc.Login(ctx, user.LoginRequest{Email: "ada@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if res.ExpiresIn != 3600 {
		t.Fatalf("got expiresIn %d, want 3600", res.ExpiresIn)
	}

	userID, err := f.svc.VerifyToken(res.Token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}

	if userID != reg.User.ID || res.User.ID != reg.User.ID {
		t.Fatalf("login resolved to %q, want %q", userID, reg.User.ID)
	}
}

func TestLogin_DoesNotRevealWhichEmailsExist(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, signUpAda()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPassword := f.svc.Login(ctx, user.LoginRequest{Email: "ada@x.com", Password: "wrong-password"})
	_, unknownEmail := f.svc.Login(ctx, user.LoginRequest{Email: "nobody@x.com", Password: "secret1"})

	mustKind(t, wrongPassword, service.KindAuth)
	mustKind(t, unknownEmail, service.KindAuth)

	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("messages differ: %q vs %q", wrongPassword.Error(), unknownEmail.Error())
	}

	if wrongPassword.Error() != service.MsgInvalidCredentials {
		t.Fatalf("got %q, want %q", wrongPassword.Error(), service.MsgInvalidCredentials)
	}
}

func TestLogin_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), user.LoginRequest{Email: "nope", Password: ""})
	mustKind(t, err, service.KindValidation)
}

func TestVerifyToken_ExpiresAfterOneHour(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	issuedAt := time.Now()
	f.tokens.WithClock(func() time.Time { return issuedAt })

	res, err := f.svc.Register(ctx, signUpAda())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := f.svc.VerifyToken(res.Token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	f.tokens.WithClock(func() time.Time { return issuedAt.Add(61 * time.Minute) })

	_, err = f.svc.VerifyToken(res.Token)
	mustKind(t, err, service.KindAuth)
}

func TestListUsers_NeverIncludesPasswords(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for _, email := range []string{"ada@x.com", "grace@x.com"} {
		req := signUpAda()
		req.Email = email
		if _, err := f.svc.Register(ctx, req); err != nil {
			t.Fatalf("Register %s: %v", email, err)
		}
	}

	users, err := f.svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}

	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("user %s carries a password hash", u.Email)
		}
	}

	raw, err := json.Marshal(users)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Fatalf("serialized users mention a password: %s", raw)
	}
}

func TestGetUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, signUpAda())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := f.svc.GetUser(ctx, res.User.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if u.Name != "Ada" || u.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", u)
	}

	_, err = f.svc.GetUser(ctx, "does-not-exist")
	mustKind(t, err, service.KindNotFound)
}

func TestRegister_PasswordLongerThanBcryptAccepts(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"80 ascii characters", strings.Repeat("a", 80)},
		{"30 characters over 72 bytes", strings.Repeat("日", 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			req := signUpAda()
			req.Password = tt.password

			_, err := f.svc.Register(context.Background(), req)
			mustKind(t, err, service.KindValidation)

			var svcErr *service.Error
			if !errors.As(err, &svcErr) || len(svcErr.Fields) != 1 || svcErr.Fields[0].Field != "password" {
				t.Fatalf("expected a password field error, got %+v", svcErr)
			}

			if f.users.Len() != 0 {
				t.Fatalf("rejected signup was persisted")
			}
		})
	}
}

func TestRegister_SeventyTwoBytePasswordWorks(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	req := signUpAda()
	req.Password = strings.Repeat("p", 72)

	if _, err := f.svc.Register(ctx, req); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := f.svc.Login(ctx, user.LoginRequest{Email: req.Email, Password: req.Password}); err != nil {
		t.Fatalf("Login: %v", err)
	}
}
