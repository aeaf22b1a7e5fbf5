package flagstore

import (
	"context"
	"fmt"

	"github.com/expoprize/prizewheel-go/internal/model"
)

// Store is the local "already spun" flag store: a key -> bool map read at
// session bootstrap to short-circuit straight to the already-participated
// state, and written exactly once, at successful commit. It is the fast,
// device-local layer of the participation guard; the participant records
// in storage remain the authoritative layer.
type Store interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string) error
}

// Key returns the flag key for a company's wheel
func Key(companyID model.CompanyID) string {
	return fmt.Sprintf("spun_roleta_%s", companyID)
}
