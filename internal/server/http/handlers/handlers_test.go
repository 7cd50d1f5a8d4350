package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	"github.com/polkiloo/habittracker/internal/domain/model"
	pkgAuth "github.com/polkiloo/habittracker/internal/pkg/auth"
	"github.com/polkiloo/habittracker/internal/server/http/dto"
	"github.com/polkiloo/habittracker/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/habittracker/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func performRequest(t *testing.T, method, pattern, target string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, pattern, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id int64) func(*gin.Context) {
	return func(c *gin.Context) { c.Set(middleware.UserIDContextKey, id) }
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
	return out
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentUserID(c); got != 0 {
		t.Fatalf("expected 0 when not set, got %d", got)
	}

	c.Set(middleware.UserIDContextKey, int64(42))
	if got := CurrentUserID(c); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	username := testhelpers.RandomASCIIString(7, 14)
	password := testhelpers.RandomASCIIString(16, 32)
	body, _ := json.Marshal(dto.CredentialsRequest{Username: username, Password: password})
	handler := NewAuthHandler(testhelpers.AuthFacadeStub{RegisterFn: func(ctx context.Context, gotUsername, gotPassword string) (*model.User, error) {
		if gotUsername != username || gotPassword != password {
			t.Fatalf("unexpected credentials passed to facade: %q %q", gotUsername, gotPassword)
		}
		return &model.User{ID: 1, Username: gotUsername}, nil
	}})

	resp := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if msg := decode[dto.MessageResponse](t, resp); msg.Message != MsgUserCreated {
		t.Fatalf("unexpected message %q", msg.Message)
	}
	if resp.Header().Get("Authorization") != "" {
		t.Fatal("registration must not issue a token")
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name    string
		facade  testhelpers.AuthFacadeStub
		body    []byte
		status  int
		message string
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest, message: MsgMalformedBody},
		{name: "invalid input", body: []byte(`{"username":"","password":""}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (*model.User, error) {
			return nil, fmt.Errorf("%w: username is required", domainErrors.ErrInvalidInput)
		}}, status: http.StatusBadRequest, message: "username is required"},
		{name: "already exists", body: []byte(`{"username":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (*model.User, error) {
			return nil, domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict, message: MsgUsernameTaken},
		{name: "internal", body: []byte(`{"username":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string) (*model.User, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError, message: middleware.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(tt.facade).Register, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if msg := decode[dto.MessageResponse](t, resp); msg.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, msg.Message)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.CredentialsRequest{Username: "user", Password: "pass"})
	facade := testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
		return "session-token", nil
	}}
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(facade).Login, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := decode[dto.TokenResponse](t, resp); got.AccessToken != "session-token" {
		t.Fatalf("unexpected token %q", got.AccessToken)
	}
	if got := resp.Header().Get("Authorization"); got != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", got)
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		facade  testhelpers.AuthFacadeStub
		body    []byte
		status  int
		message string
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest, message: MsgMalformedBody},
		{name: "invalid", body: []byte(`{"username":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusUnauthorized, message: MsgInvalidCredentials},
		{name: "internal", body: []byte(`{"username":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError, message: middleware.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(tt.facade).Login, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if msg := decode[dto.MessageResponse](t, resp); msg.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, msg.Message)
			}
		})
	}
}

func TestHabitHandlerList(t *testing.T) {
	var gotOwner int64
	facade := testhelpers.HabitFacadeStub{HabitsFn: func(_ context.Context, ownerID int64) ([]model.Habit, error) {
		gotOwner = ownerID
		return []model.Habit{{ID: 1, OwnerID: ownerID, Name: "Read"}, {ID: 2, OwnerID: ownerID, Name: "Run"}}, nil
	}}
	resp := performRequest(t, http.MethodGet, "/api/habits", "/api/habits", NewHabitHandler(facade).List, asUser(7), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if gotOwner != 7 {
		t.Fatalf("expected owner 7, got %d", gotOwner)
	}
	habits := decode[[]dto.HabitResponse](t, resp)
	if len(habits) != 2 || habits[0] != (dto.HabitResponse{ID: 1, Name: "Read"}) {
		t.Fatalf("unexpected habits: %+v", habits)
	}
}

func TestHabitHandlerListEmptyIsArray(t *testing.T) {
	facade := testhelpers.HabitFacadeStub{HabitsFn: func(context.Context, int64) ([]model.Habit, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/api/habits", "/api/habits", NewHabitHandler(facade).List, asUser(7), nil, nil)
	if resp.Code != http.StatusOK || resp.Body.String() != "[]" {
		t.Fatalf("expected 200 [], got %d %q", resp.Code, resp.Body.String())
	}
}

func TestHabitHandlerListError(t *testing.T) {
	facade := testhelpers.HabitFacadeStub{HabitsFn: func(context.Context, int64) ([]model.Habit, error) {
		return nil, errors.New("db down")
	}}
	resp := performRequest(t, http.MethodGet, "/api/habits", "/api/habits", NewHabitHandler(facade).List, asUser(7), nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestHabitHandlerCreate(t *testing.T) {
	facade := testhelpers.HabitFacadeStub{CreateFn: func(_ context.Context, ownerID int64, name string) (*model.Habit, error) {
		if ownerID != 3 || name != "Read" {
			t.Fatalf("unexpected args %d %q", ownerID, name)
		}
		return &model.Habit{ID: 11, OwnerID: ownerID, Name: name}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/api/habits", "/api/habits", NewHabitHandler(facade).Create, asUser(3), []byte(`{"name":"Read"}`), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if got := decode[dto.HabitResponse](t, resp); got != (dto.HabitResponse{ID: 11, Name: "Read"}) {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestHabitHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		err    error
		status int
	}{
		{name: "bad json", body: []byte("{"), status: http.StatusBadRequest},
		{name: "wrong type", body: []byte(`{"name":5}`), status: http.StatusBadRequest},
		{name: "invalid", body: []byte(`{"name":""}`), err: domainErrors.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "internal", body: []byte(`{"name":"x"}`), err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.HabitFacadeStub{CreateFn: func(context.Context, int64, string) (*model.Habit, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPost, "/api/habits", "/api/habits", NewHabitHandler(facade).Create, asUser(1), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestHabitHandlerUpdate(t *testing.T) {
	facade := testhelpers.HabitFacadeStub{RenameFn: func(_ context.Context, ownerID, habitID int64, name string) (*model.Habit, error) {
		if ownerID != 2 || habitID != 5 || name != "Jog" {
			t.Fatalf("unexpected args %d %d %q", ownerID, habitID, name)
		}
		return &model.Habit{ID: habitID, OwnerID: ownerID, Name: name}, nil
	}}
	resp := performRequest(t, http.MethodPut, "/api/habits/:id", "/api/habits/5", NewHabitHandler(facade).Update, asUser(2), []byte(`{"name":"Jog"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.HabitResponse](t, resp); got != (dto.HabitResponse{ID: 5, Name: "Jog"}) {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestHabitHandlerUpdateFailures(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		body    []byte
		err     error
		status  int
		message string
	}{
		{name: "non numeric id", target: "/api/habits/abc", body: []byte(`{"name":"x"}`), status: http.StatusNotFound, message: MsgHabitNotFound},
		{name: "signed id", target: "/api/habits/+5", body: []byte(`{"name":"x"}`), status: http.StatusNotFound, message: MsgHabitNotFound},
		{name: "bad json", target: "/api/habits/5", body: []byte("nope"), status: http.StatusBadRequest, message: MsgMalformedBody},
		{name: "not owned", target: "/api/habits/5", body: []byte(`{"name":"x"}`), err: domainErrors.ErrNotFound, status: http.StatusNotFound, message: MsgHabitNotFound},
		{name: "invalid name", target: "/api/habits/5", body: []byte(`{"name":""}`), err: fmt.Errorf("%w: habit name is required", domainErrors.ErrInvalidInput), status: http.StatusBadRequest, message: "habit name is required"},
		{name: "internal", target: "/api/habits/5", body: []byte(`{"name":"x"}`), err: errors.New("boom"), status: http.StatusInternalServerError, message: middleware.MsgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade := testhelpers.HabitFacadeStub{RenameFn: func(context.Context, int64, int64, string) (*model.Habit, error) {
				return nil, tt.err
			}}
			resp := performRequest(t, http.MethodPut, "/api/habits/:id", tt.target, NewHabitHandler(facade).Update, asUser(1), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
			if msg := decode[dto.MessageResponse](t, resp); msg.Message != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, msg.Message)
			}
		})
	}
}

func TestHabitHandlerDelete(t *testing.T) {
	var deleted int64
	facade := testhelpers.HabitFacadeStub{DeleteFn: func(_ context.Context, ownerID, habitID int64) error {
		deleted = habitID
		return nil
	}}
	resp := performRequest(t, http.MethodDelete, "/api/habits/:id", "/api/habits/9", NewHabitHandler(facade).Delete, asUser(1), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.SuccessResponse](t, resp); !got.Success {
		t.Fatalf("expected success true")
	}
	if deleted != 9 {
		t.Fatalf("expected habit 9 deleted, got %d", deleted)
	}
}

func TestHabitHandlerDeleteFailures(t *testing.T) {
	facade := testhelpers.HabitFacadeStub{DeleteFn: func(context.Context, int64, int64) error {
		return domainErrors.ErrNotFound
	}}
	resp := performRequest(t, http.MethodDelete, "/api/habits/:id", "/api/habits/9", NewHabitHandler(facade).Delete, asUser(1), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	called := false
	facade = testhelpers.HabitFacadeStub{DeleteFn: func(context.Context, int64, int64) error {
		called = true
		return nil
	}}
	resp = performRequest(t, http.MethodDelete, "/api/habits/:id", "/api/habits/x9", NewHabitHandler(facade).Delete, asUser(1), nil, nil)
	if resp.Code != http.StatusNotFound || called {
		t.Fatalf("expected 404 without facade call, got %d called=%v", resp.Code, called)
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.TrackerFacadeStub{}).Check, nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.HealthResponse](t, resp); got.Status != "ok" {
		t.Fatalf("unexpected status %q", got.Status)
	}

	down := testhelpers.TrackerFacadeStub{HealthFn: func(context.Context) error { return errors.New("ping") }}
	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(down).Check, nil, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestWriteErrorMapsTokenErrors(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) {
		writeError(c, pkgAuth.ErrInvalidToken)
	}, nil, nil, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if msg := decode[dto.MessageResponse](t, resp); msg.Message != middleware.MsgInvalidToken {
		t.Fatalf("unexpected message %q", msg.Message)
	}
}

func TestValidationReason(t *testing.T) {
	if got := validationReason(domainErrors.ErrInvalidInput); got != "Invalid input" {
		t.Fatalf("unexpected reason %q", got)
	}
	if got := validationReason(fmt.Errorf("%w: name too long", domainErrors.ErrInvalidInput)); got != "name too long" {
		t.Fatalf("unexpected reason %q", got)
	}
}
