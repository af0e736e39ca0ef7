package core

import (
	"errors"
	"fmt"
	"time"

	"welltrack.io/welltrack/internal/store"
)

// ErrValidation wraps every rejection of caller input; the API maps it to 400.
var ErrValidation = errors.New("validation failed")

func checkTimestamp(at time.Time) error {
	if !store.TimestampInRange(at) {
		return fmt.Errorf("%w: timestamp %s is outside the supported range", ErrValidation, at.Format(time.RFC3339))
	}
	return nil
}
