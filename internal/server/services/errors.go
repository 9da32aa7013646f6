package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/protodrive/internal/common"
	"github.com/dmitrijs2005/protodrive/internal/logging"
)

var passThrough = []error{common.ErrorNotFound, common.ErrorValidation, common.ErrorAlreadyExists, common.ErrorUnauthorized}

// hide returns err unchanged when it carries a known sentinel. Anything else
// is logged and replaced with common.ErrorInternal.
func hide(ctx context.Context, logger logging.Logger, op string, err error) error {
	for _, known := range passThrough {
		if errors.Is(err, known) {
			return err
		}
	}
	logger.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}
