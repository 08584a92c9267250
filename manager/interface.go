package manager

import (
	"context"
	"errors"
	"time"
)

// Client is the capability surface every weather vendor implements.
// Vendors that expose a single unified endpoint may route Historical and
// Forecast to the same call.
type Client interface {
	Current(ctx context.Context, address string) (Report, error)
	Historical(ctx context.Context, address string, date time.Time) (Report, error)
	Forecast(ctx context.Context, address string, date time.Time) (Report, error)
}

// Report carries one provider-tagged weather payload. Data holds the
// vendor-specific decoded JSON shape; callers render it, they do not
// interpret it.
type Report struct {
	Provider string
	Data     any
}

var (
	ErrMissingCredential = errors.New("missing api key")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrInvalidDateFormat = errors.New("date must be in the YYYY-MM-DD format")
	ErrInvalidDateValue  = errors.New("invalid calendar date")
	ErrAddressNotFound   = errors.New("address not found")
)
