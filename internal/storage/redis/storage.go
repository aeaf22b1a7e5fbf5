package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Client exposes the underlying connection so other components (the
// participation flag store) can share it
func (s *Storage) Client() *redis.Client {
	return s.client
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Company operations

func (s *Storage) SaveCompany(ctx context.Context, company *model.Company) error {
	data, err := json.Marshal(company)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, companyKey(company.ID), data, 0).Err()
}

func (s *Storage) GetCompany(ctx context.Context, id model.CompanyID) (*model.Company, error) {
	data, err := s.client.Get(ctx, companyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCompanyNotFound
		}
		return nil, err
	}
	var company model.Company
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// Prize operations

func (s *Storage) SavePrize(ctx context.Context, prize *model.Prize) error {
	data, err := json.Marshal(prize)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, prizeKey(prize.ID), data, 0)
	pipe.SAdd(ctx, prizesForCompanyIndexKey(prize.CompanyID), string(prize.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPrize(ctx context.Context, id model.PrizeID) (*model.Prize, error) {
	data, err := s.client.Get(ctx, prizeKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPrizeNotFound
		}
		return nil, err
	}
	var prize model.Prize
	if err := json.Unmarshal(data, &prize); err != nil {
		return nil, err
	}
	return &prize, nil
}

func (s *Storage) DeletePrize(ctx context.Context, id model.PrizeID) error {
	prize, err := s.GetPrize(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPrizeNotFound) {
			return nil
		}
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, prizeKey(id))
	pipe.SRem(ctx, prizesForCompanyIndexKey(prize.CompanyID), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPrizesForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Prize, error) {
	ids, err := s.client.SMembers(ctx, prizesForCompanyIndexKey(companyID)).Result()
	if err != nil {
		return nil, err
	}
	prizes := make([]*model.Prize, 0, len(ids))
	for _, id := range ids {
		prize, err := s.GetPrize(ctx, model.PrizeID(id))
		if err != nil {
			if errors.Is(err, model.ErrPrizeNotFound) {
				continue // index entry for a deleted prize
			}
			return nil, err
		}
		prizes = append(prizes, prize)
	}
	sort.Slice(prizes, func(i, j int) bool {
		if prizes[i].Position != prizes[j].Position {
			return prizes[i].Position < prizes[j].Position
		}
		return prizes[i].ID < prizes[j].ID
	})
	return prizes, nil
}

// Participant operations

func (s *Storage) SaveParticipant(ctx context.Context, p *model.Participant) error {
	return s.saveParticipant(ctx, p)
}

func (s *Storage) CreateParticipantUnique(ctx context.Context, p *model.Participant) error {
	if p.Email != "" {
		ok, err := s.client.SetNX(ctx, participantEmailIndexKey(p.CompanyID, p.Email), string(p.ID), s.cfg.ParticipantTTL).Result()
		if err != nil {
			return err
		}
		if !ok {
			return model.ErrAlreadyParticipated
		}
	}
	return s.saveParticipant(ctx, p)
}

func (s *Storage) saveParticipant(ctx context.Context, p *model.Participant) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	key := participantKey(p.ID)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, s.cfg.ParticipantTTL)
	if p.Email != "" {
		pipe.Set(ctx, participantEmailIndexKey(p.CompanyID, p.Email), string(p.ID), s.cfg.ParticipantTTL)
	}
	if exists == 0 {
		pipe.RPush(ctx, participantsForCompanyIndexKey(p.CompanyID), string(p.ID))
	}
	if p.RaffleID != "" {
		pipe.SAdd(ctx, participantsForRaffleIndexKey(p.RaffleID), string(p.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetParticipant(ctx context.Context, id model.ParticipantID) (*model.Participant, error) {
	data, err := s.client.Get(ctx, participantKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}
	var p model.Participant
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) FindParticipantByEmail(ctx context.Context, companyID model.CompanyID, email string) (*model.Participant, error) {
	id, err := s.client.Get(ctx, participantEmailIndexKey(companyID, email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrParticipantNotFound
		}
		return nil, err
	}
	return s.GetParticipant(ctx, model.ParticipantID(id))
}

func (s *Storage) GetParticipantsForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Participant, error) {
	ids, err := s.client.LRange(ctx, participantsForCompanyIndexKey(companyID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	participants := make([]*model.Participant, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetParticipant(ctx, model.ParticipantID(id))
		if err != nil {
			if errors.Is(err, model.ErrParticipantNotFound) {
				continue // expired record, index entry remains
			}
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

func (s *Storage) RecordSpin(ctx context.Context, id model.ParticipantID, prizeName string, spunAt time.Time) error {
	key := participantKey(id)

	// Watch the participant so a concurrent commit loses cleanly instead
	// of overwriting the first recorded spin.
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrParticipantNotFound
			}
			return err
		}

		var p model.Participant
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		if p.SpunAt != nil {
			return model.ErrAlreadySpun
		}

		p.PrizeName = prizeName
		t := spunAt
		p.SpunAt = &t

		updated, err := json.Marshal(&p)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.cfg.ParticipantTTL)
			return nil
		})
		return err
	}, key)
}

// Collaborator operations

func (s *Storage) SaveCollaborator(ctx context.Context, c *model.Collaborator) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, collaboratorKey(c.ID), data, 0)
	pipe.SAdd(ctx, collaboratorsForCompanyIndexKey(c.CompanyID), string(c.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCollaboratorsForCompany(ctx context.Context, companyID model.CompanyID) ([]*model.Collaborator, error) {
	ids, err := s.client.SMembers(ctx, collaboratorsForCompanyIndexKey(companyID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	out := make([]*model.Collaborator, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, collaboratorKey(model.CollaboratorID(id))).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		var c model.Collaborator
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, nil
}

// Raffle operations

func (s *Storage) SaveRaffle(ctx context.Context, raffle *model.Raffle) error {
	data, err := json.Marshal(raffle)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, raffleKey(raffle.ID), data, 0)
	pipe.SAdd(ctx, rafflesForEventIndexKey(raffle.EventID), string(raffle.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRaffle(ctx context.Context, id model.RaffleID) (*model.Raffle, error) {
	data, err := s.client.Get(ctx, raffleKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRaffleNotFound
		}
		return nil, err
	}
	var raffle model.Raffle
	if err := json.Unmarshal(data, &raffle); err != nil {
		return nil, err
	}
	return &raffle, nil
}

func (s *Storage) GetRafflesForEvent(ctx context.Context, eventID model.EventID) ([]*model.Raffle, error) {
	ids, err := s.client.SMembers(ctx, rafflesForEventIndexKey(eventID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	out := make([]*model.Raffle, 0, len(ids))
	for _, id := range ids {
		raffle, err := s.GetRaffle(ctx, model.RaffleID(id))
		if err != nil {
			if errors.Is(err, model.ErrRaffleNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, raffle)
	}
	return out, nil
}

func (s *Storage) GetParticipantsForRaffle(ctx context.Context, raffleID model.RaffleID) ([]*model.Participant, error) {
	ids, err := s.client.SMembers(ctx, participantsForRaffleIndexKey(raffleID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	out := make([]*model.Participant, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetParticipant(ctx, model.ParticipantID(id))
		if err != nil {
			if errors.Is(err, model.ErrParticipantNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Draw result operations

func (s *Storage) SaveDrawResult(ctx context.Context, result *model.DrawResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, drawResultsKey(result.RaffleID), data).Err()
}

func (s *Storage) GetDrawResultsForRaffle(ctx context.Context, raffleID model.RaffleID) ([]*model.DrawResult, error) {
	entries, err := s.client.LRange(ctx, drawResultsKey(raffleID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*model.DrawResult, 0, len(entries))
	for _, entry := range entries {
		var result model.DrawResult
		if err := json.Unmarshal([]byte(entry), &result); err != nil {
			return nil, err
		}
		out = append(out, &result)
	}
	return out, nil
}
