package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "user not found"},
			want: "user not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeIdentityProvider,
				Message: "sign up",
				Cause:   errors.New("store unreachable"),
			},
			want: "sign up: store unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.NoError(t, IdentityProvider(nil, "sign in"))
}

func TestIdentityProvider_KeepsInnerKind(t *testing.T) {
	err := IdentityProvider(Conflict("email already registered"), "sign up")

	assert.True(t, IsIdentityProvider(err))
	assert.True(t, IsConflict(err))
	assert.Equal(t, ErrCodeIdentityProvider, GetCode(err))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	assert.Equal(t, "email already registered", PublicMessage(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", Unauthenticated("login required"), http.StatusUnauthorized},
		{"forbidden", Forbidden("nope"), http.StatusForbidden},
		{"validation", ValidationField("email", "bad"), http.StatusBadRequest},
		{"conflict wrapped by fmt", fmt.Errorf("create: %w", Conflict("dup")), http.StatusConflict},
		{"configuration", Configuration("DATABASE_URL is not set"), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"identity provider over plain error", IdentityProvider(errors.New("down"), "sign in"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage_HidesCauses(t *testing.T) {
	err := IdentityProvider(errors.New("dial tcp 10.0.0.1:27017: refused"), "sign in")
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), PublicMessage(err))

	err = IdentityProvider(Unauthenticated("invalid email or password"), "sign in")
	assert.Equal(t, "invalid email or password", PublicMessage(err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsConfiguration(Configuration("missing")))
	assert.True(t, IsInitialization(Initialization(errors.New("x"), "init")))
	assert.True(t, IsInitialization(Initialization(nil, "init")))
	assert.True(t, IsForbidden(fmt.Errorf("guard: %w", Forbidden("no"))))
	assert.False(t, IsForbidden(Unauthenticated("no")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, "email", GetField(ValidationField("email", "bad")))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
}

func TestMapStoreError(t *testing.T) {
	assert.NoError(t, MapStoreError(nil))

	assert.True(t, IsNotFound(MapStoreError(mongo.ErrNoDocuments)))
	assert.True(t, IsTimeout(MapStoreError(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeCanceled, GetCode(MapStoreError(context.Canceled)))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.True(t, IsConflict(MapStoreError(dup)))

	plain := errors.New("other")
	assert.Equal(t, plain, MapStoreError(plain))
}
