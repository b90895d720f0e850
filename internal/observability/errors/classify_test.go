package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/ori-platform/ori-auth/internal/errors"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", goerrors.New("x"), "errors_errorstring"},
		{"wrapped custom", fmt.Errorf("outer: %w", &customErr{}), "errors_customerr"},
		{"app error", apperrors.Forbidden("no"), "forbidden"},
		{
			"identity tag over conflict",
			apperrors.IdentityProvider(apperrors.Conflict("dup"), "sign up"),
			"conflict",
		},
		{
			"identity tag over plain error",
			apperrors.IdentityProvider(context.DeadlineExceeded, "get session"),
			"identity_provider",
		},
		{
			"fmt-wrapped app error",
			fmt.Errorf("get session: %w", apperrors.MapStoreError(context.DeadlineExceeded)),
			"timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
