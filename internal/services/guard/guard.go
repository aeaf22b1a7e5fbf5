package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expoprize/prizewheel-go/internal/dependencies/clock"
	"github.com/expoprize/prizewheel-go/internal/flagstore"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// Guard enforces single participation per device and per email for a
// company's wheel. The device-local flag is the fast path; the remote
// email lookup is the authoritative one, and a remote hit back-fills the
// local flag so the next check short-circuits.
type Guard struct {
	storage storage.Storage
	flags   flagstore.Store
	clock   clock.Clock
	logger  *slog.Logger
}

func New(store storage.Storage, flags flagstore.Store, clk clock.Clock, logger *slog.Logger) *Guard {
	return &Guard{
		storage: store,
		flags:   flags,
		clock:   clk,
		logger:  logger,
	}
}

// AlreadySpun reports whether this device or this email has already used
// its spin for the company. An empty email skips the remote check.
func (g *Guard) AlreadySpun(ctx context.Context, companyID model.CompanyID, email string) (bool, error) {
	flagged, err := g.flags.Get(ctx, flagstore.Key(companyID))
	if err != nil {
		return false, remoteUnavailable(err)
	}
	if flagged {
		return true, nil
	}

	email = NormalizeEmail(email)
	if email == "" {
		return false, nil
	}

	existing, err := g.storage.FindParticipantByEmail(ctx, companyID, email)
	if err != nil {
		if errors.Is(err, model.ErrParticipantNotFound) {
			return false, nil
		}
		return false, remoteUnavailable(err)
	}

	// Known email on a fresh device: reconcile the local flag so the
	// block applies immediately on this device too.
	if err := g.flags.Set(ctx, flagstore.Key(companyID)); err != nil {
		g.logger.Warn("failed to reconcile participation flag",
			slog.String("company_id", string(companyID)),
			slog.String("error", err.Error()),
		)
	}
	g.logger.Info("participation blocked by registered email",
		slog.String("company_id", string(companyID)),
		slog.String("participant_id", string(existing.ID)),
	)
	return true, nil
}

// Commit records the prize against the participant and then marks the
// device as used. The flag is only set after the remote write succeeds:
// a failed write stays retryable rather than locking the device out of a
// spin that was never recorded.
func (g *Guard) Commit(ctx context.Context, companyID model.CompanyID, participantID model.ParticipantID, prizeName string) error {
	spunAt := g.clock.Now()
	if err := g.storage.RecordSpin(ctx, participantID, prizeName, spunAt); err != nil {
		if errors.Is(err, model.ErrAlreadySpun) || errors.Is(err, model.ErrParticipantNotFound) {
			return err
		}
		return remoteUnavailable(err)
	}
	return g.MarkParticipated(ctx, companyID)
}

// MarkParticipated sets the device-local flag for the company
func (g *Guard) MarkParticipated(ctx context.Context, companyID model.CompanyID) error {
	if err := g.flags.Set(ctx, flagstore.Key(companyID)); err != nil {
		return remoteUnavailable(err)
	}
	return nil
}

// NormalizeEmail folds an email into its canonical comparison form
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func remoteUnavailable(err error) error {
	return fmt.Errorf("%w: %v", model.ErrRemoteUnavailable, err)
}
