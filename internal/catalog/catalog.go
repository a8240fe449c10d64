// Package catalog exposes the court configuration owned by the surrounding
// management layer. Readers return snapshots; nothing here writes courts.
package catalog

import (
	"context"
	"errors"

	"courtbook/pkg/model"
)

var ErrCourtNotFound = errors.New("court not found")

type Reader interface {
	GetCourt(ctx context.Context, id string) (*model.Court, error)
}
