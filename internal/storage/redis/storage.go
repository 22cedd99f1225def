package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/swisspairing/internal/dependencies/random"
	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
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
		_ = client.Close()
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

// Locker returns a distributed Locker sharing this storage's connection
func (s *Storage) Locker(rnd random.Random) *Locker {
	return NewLocker(s.client, rnd, s.cfg)
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Competitor operations

// enrollScript writes the competitor and appends the id to the order list
// unless it is already there, so the hash and list never drift apart.
var enrollScript = redis.NewScript(`
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
for _, id in ipairs(redis.call("LRANGE", KEYS[2], 0, -1)) do
	if id == ARGV[1] then
		return 0
	end
end
redis.call("RPUSH", KEYS[2], ARGV[1])
return 1
`)

func (s *Storage) SaveCompetitor(ctx context.Context, tournamentID model.TournamentID, competitor model.Competitor) error {
	data, err := json.Marshal(competitor)
	if err != nil {
		return err
	}

	keys := []string{competitorsKey(tournamentID), competitorOrderKey(tournamentID)}
	return enrollScript.Run(ctx, s.client, keys, string(competitor.ID), data).Err()
}

func (s *Storage) DeleteCompetitor(ctx context.Context, tournamentID model.TournamentID, id model.CompetitorID) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.HDel(ctx, competitorsKey(tournamentID), string(id))
		pipe.LRem(ctx, competitorOrderKey(tournamentID), 0, string(id))
		return nil
	})
	if err != nil {
		return err
	}
	if removed.Val() == 0 {
		return model.ErrCompetitorNotFound
	}
	return nil
}

func (s *Storage) ListCompetitors(ctx context.Context, tournamentID model.TournamentID) ([]model.Competitor, error) {
	ids, err := s.client.LRange(ctx, competitorOrderKey(tournamentID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Competitor{}, nil
	}

	values, err := s.client.HMGet(ctx, competitorsKey(tournamentID), ids...).Result()
	if err != nil {
		return nil, err
	}

	competitors := make([]model.Competitor, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Order entry without a record; skip it
			continue
		}
		var c model.Competitor
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode competitor %s: %w", ids[i], err)
		}
		competitors = append(competitors, c)
	}
	return competitors, nil
}

// Schedule operations

func (s *Storage) GetSchedule(ctx context.Context, tournamentID model.TournamentID) (*model.Schedule, error) {
	data, err := s.client.Get(ctx, scheduleKey(tournamentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrScheduleNotFound
		}
		return nil, err
	}

	var schedule model.Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *Storage) ReplaceSchedule(ctx context.Context, schedule *model.Schedule) error {
	data, err := json.Marshal(schedule)
	if err != nil {
		return err
	}

	key := scheduleKey(schedule.TournamentID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.Set(ctx, key, data, s.cfg.ScheduleTTL)
		return nil
	})
	return err
}

func (s *Storage) DeleteSchedule(ctx context.Context, tournamentID model.TournamentID) error {
	return s.client.Del(ctx, scheduleKey(tournamentID)).Err()
}
