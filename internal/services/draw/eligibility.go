package draw

import "github.com/expoprize/prizewheel-go/internal/model"

// Entry is one draw opportunity: a participant in the context of one
// raffle. A participant entered in several selected raffles yields one
// entry per raffle they are still eligible for; entries are deliberately
// not deduplicated across raffles.
type Entry struct {
	Participant *model.Participant
	RaffleID    model.RaffleID
}

// EligibleEntries computes the candidate pool for an organizer draw over
// the selected raffles. A participant is eligible for a raffle iff they
// are entered in it and have no win recorded for it. Returns an empty
// slice (never an error) when nothing qualifies; callers must branch on
// emptiness before invoking the engine.
func EligibleEntries(
	participantsByRaffle map[model.RaffleID][]*model.Participant,
	selected []model.RaffleID,
	winners map[model.RaffleID]map[model.ParticipantID]bool,
) []Entry {
	entries := []Entry{}
	for _, raffleID := range selected {
		won := winners[raffleID]
		for _, p := range participantsByRaffle[raffleID] {
			if won[p.ID] {
				continue
			}
			entries = append(entries, Entry{Participant: p, RaffleID: raffleID})
		}
	}
	return entries
}

// WinnerSet converts a raffle's draw results into the participant set used
// by EligibleEntries.
func WinnerSet(results []*model.DrawResult) map[model.ParticipantID]bool {
	won := make(map[model.ParticipantID]bool, len(results))
	for _, r := range results {
		won[r.ParticipantID] = true
	}
	return won
}
