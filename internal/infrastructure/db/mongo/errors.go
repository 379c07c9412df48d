package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
)

// mapError translates driver failures into the domain's error taxonomy so
// the transport layer can pick the right user-facing message.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	case mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	case mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			// 10334: BSONObjectTooLarge — oversized image/PDF payloads.
			if e.Code == 10334 {
				return fmt.Errorf("%w: %v", domain.ErrPayloadTooLarge, err)
			}
		}
	}
	return err
}
