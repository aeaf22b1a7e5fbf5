package redis

import (
	"fmt"

	"github.com/expoprize/prizewheel-go/internal/model"
)

// Key prefix for all prize-wheel data
const keyPrefix = "prizewheel"

// Key generation functions for each entity type

func companyKey(id model.CompanyID) string {
	return fmt.Sprintf("%s:company:%s", keyPrefix, id)
}

func prizeKey(id model.PrizeID) string {
	return fmt.Sprintf("%s:prize:%s", keyPrefix, id)
}

// prizesForCompanyIndexKey returns the Redis key for the SET of a company's prizes
func prizesForCompanyIndexKey(companyID model.CompanyID) string {
	return fmt.Sprintf("%s:idx:prizes_for_company:%s", keyPrefix, companyID)
}

func participantKey(id model.ParticipantID) string {
	return fmt.Sprintf("%s:participant:%s", keyPrefix, id)
}

// participantEmailIndexKey returns the Redis key for the
// (company, email) -> participant_id index used for de-duplication
func participantEmailIndexKey(companyID model.CompanyID, email string) string {
	return fmt.Sprintf("%s:idx:participant_email:%s:%s", keyPrefix, companyID, email)
}

// participantsForCompanyIndexKey returns the Redis key for the LIST of a
// company's participants, in registration order
func participantsForCompanyIndexKey(companyID model.CompanyID) string {
	return fmt.Sprintf("%s:idx:participants_for_company:%s", keyPrefix, companyID)
}

func collaboratorKey(id model.CollaboratorID) string {
	return fmt.Sprintf("%s:collaborator:%s", keyPrefix, id)
}

func collaboratorsForCompanyIndexKey(companyID model.CompanyID) string {
	return fmt.Sprintf("%s:idx:collaborators_for_company:%s", keyPrefix, companyID)
}

func raffleKey(id model.RaffleID) string {
	return fmt.Sprintf("%s:raffle:%s", keyPrefix, id)
}

func rafflesForEventIndexKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:idx:raffles_for_event:%s", keyPrefix, eventID)
}

func participantsForRaffleIndexKey(raffleID model.RaffleID) string {
	return fmt.Sprintf("%s:idx:participants_for_raffle:%s", keyPrefix, raffleID)
}

// drawResultsKey returns the Redis key for the LIST of a raffle's draw results
func drawResultsKey(raffleID model.RaffleID) string {
	return fmt.Sprintf("%s:draw_results:%s", keyPrefix, raffleID)
}
