package errors

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MapStoreError maps document store errors to AppError instances:
//   - mongo.ErrNoDocuments → NotFound
//   - duplicate key (unique index) → Conflict
//   - context timeouts/cancellations and driver timeouts → Timeout/Canceled
//
// Unrecognized errors are returned unchanged.
func MapStoreError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return &AppError{
			Code:    ErrCodeNotFound,
			Message: "Resource not found",
			Cause:   err,
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "A record with this value already exists",
			Cause:   err,
		}
	}

	return err
}
