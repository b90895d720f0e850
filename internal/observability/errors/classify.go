// Package errors turns errors into low-cardinality labels for metrics and logs.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/ori-platform/ori-auth/internal/errors"
)

// Classify returns a normalized error class.
//
// The most specific AppError code in the chain wins (identity_provider is
// only a tag and is skipped when a more precise code sits beneath it).
// Otherwise the innermost concrete type is used, in snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := innermostCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ReplaceAll(strings.ToLower(t.String()), ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}

func innermostCode(err error) apperrors.ErrorCode {
	var code apperrors.ErrorCode
	for err != nil {
		var appErr *apperrors.AppError
		if !goerrors.As(err, &appErr) {
			break
		}
		if code == "" || appErr.Code != apperrors.ErrCodeInternal {
			code = appErr.Code
		}
		err = appErr.Cause
	}
	return code
}
