package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lavanderia-pos/api/internal/domain"
	"github.com/lavanderia-pos/api/internal/enum"
	"github.com/lavanderia-pos/api/internal/handler"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func newAuthRouter(t *testing.T, f *fixture) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	handler.NewAuthHandler(f.store, testJWTSecret).RegisterRoutes(r)
	return r
}

func seedUser(t *testing.T, f *fixture, email, password, role string) domain.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := f.store.CreateUser(context.Background(), domain.User{
		Email:          email,
		FullName:       "Test User",
		HashedPassword: string(hashed),
		Role:           role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "admin@lavanderia.test", "correct-horse", enum.UserRoleAdmin)
	router := newAuthRouter(t, f)

	rr := doRequest(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email":    "admin@lavanderia.test",
		"password": "correct-horse",
	})
	assertStatus(t, rr, http.StatusOK)

	resp := decodeBody[tokenPair](t, rr)
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens in response")
	}
	if resp.User.Email != "admin@lavanderia.test" || resp.User.Role != enum.UserRoleAdmin {
		t.Errorf("user in response = %+v", resp.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "admin@lavanderia.test", "correct-horse", enum.UserRoleAdmin)
	router := newAuthRouter(t, f)

	rr := doRequest(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email":    "admin@lavanderia.test",
		"password": "wrong",
	})
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	f := newFixture(t)
	router := newAuthRouter(t, f)

	rr := doRequest(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@lavanderia.test",
		"password": "whatever",
	})
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestLoginMissingFields(t *testing.T) {
	f := newFixture(t)
	router := newAuthRouter(t, f)

	rr := doRequest(t, router, http.MethodPost, "/auth/login", map[string]string{"email": "a@b.c"})
	assertStatus(t, rr, http.StatusBadRequest)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f, "op@lavanderia.test", "pw", enum.UserRoleOperator)
	router := newAuthRouter(t, f)

	rr := doRequest(t, router, http.MethodPost, "/auth/login", map[string]string{
		"email":    "op@lavanderia.test",
		"password": "pw",
	})
	assertStatus(t, rr, http.StatusOK)
	first := decodeBody[tokenPair](t, rr)

	rr = doRequest(t, router, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": first.RefreshToken,
	})
	assertStatus(t, rr, http.StatusOK)

	refreshed := decodeBody[tokenPair](t, rr)
	if refreshed.AccessToken == "" {
		t.Error("expected new access token")
	}
	if refreshed.User.Email != "op@lavanderia.test" {
		t.Errorf("user email = %q", refreshed.User.Email)
	}
}

func TestRefreshInvalidToken(t *testing.T) {
	f := newFixture(t)
	router := newAuthRouter(t, f)

	rr := doRequest(t, router, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": "not-a-jwt",
	})
	assertStatus(t, rr, http.StatusUnauthorized)
}
