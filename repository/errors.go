package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by point lookups when no row matches. Callers in
// the retrieval path treat it as a degraded-context signal, not a failure.
var ErrNotFound = errors.New("record not found")

// mapNoRows converts pgx's no-rows error into the repository sentinel
func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
