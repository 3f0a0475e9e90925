package devicedata

import (
	"context"
	"fmt"
	"time"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/errors"
	"github.com/tidepool-org/tideline/settings"
)

var ErrNotFound = fmt.Errorf("device data %w", errors.NotFound)

//go:generate mockgen --build_flags=--mod=mod -source=./devicedata.go -destination=./test/mock_repository.go -package test MockRepository

// Repository reads normalized device data of a user
type Repository interface {
	// ListBasals returns the basal segments of the user overlapping [start, end)
	ListBasals(ctx context.Context, userId string, start, end time.Time) ([]basal.Segment, error)
	// ListSettings returns every settings snapshot of the user recorded at or before end
	ListSettings(ctx context.Context, userId string, end time.Time) ([]settings.Snapshot, error)
	// DataRange returns the time of the first and the last diabetes datum of the user
	DataRange(ctx context.Context, userId string) (time.Time, time.Time, error)
}
