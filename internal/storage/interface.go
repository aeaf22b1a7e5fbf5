package storage

import (
	"context"
	"time"

	"github.com/expoprize/prizewheel-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Company operations
	SaveCompany(ctx context.Context, company *model.Company) error
	GetCompany(ctx context.Context, id model.CompanyID) (*model.Company, error)

	// Prize operations. GetPrizesForCompany returns prizes in slice order.
	SavePrize(ctx context.Context, prize *model.Prize) error
	GetPrize(ctx context.Context, id model.PrizeID) (*model.Prize, error)
	DeletePrize(ctx context.Context, id model.PrizeID) error
	GetPrizesForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Prize, error)

	// Participant operations
	SaveParticipant(ctx context.Context, p *model.Participant) error
	// CreateParticipantUnique inserts p, atomically rejecting a second
	// participant with the same non-empty email for the same company with
	// model.ErrAlreadyParticipated.
	CreateParticipantUnique(ctx context.Context, p *model.Participant) error
	GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error)
	FindParticipantByEmail(ctx context.Context, companyID model.CompanyID, email string) (*model.Participant, error)
	GetParticipantsForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Participant, error)
	// RecordSpin sets (prizeName, spunAt) on the participant. Write-once:
	// a participant with SpunAt already set yields model.ErrAlreadySpun.
	RecordSpin(ctx context.Context, id model.ParticipantID, prizeName string, spunAt time.Time) error

	// Collaborator operations
	SaveCollaborator(ctx context.Context, c *model.Collaborator) error
	GetCollaboratorsForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Collaborator, error)

	// Raffle operations
	SaveRaffle(ctx context.Context, raffle *model.Raffle) error
	GetRaffle(ctx context.Context, id model.RaffleID) (*model.Raffle, error)
	GetRafflesForEvent(ctx context.Context, eventID model.EventID) ([]*model.Raffle, error)
	GetParticipantsForRaffle(ctx context.Context, raffleID model.RaffleID) ([]*model.Participant, error)

	// Draw result operations
	SaveDrawResult(ctx context.Context, result *model.DrawResult) error
	GetDrawResultsForRaffle(ctx context.Context, raffleID model.RaffleID) ([]*model.DrawResult, error)
}
