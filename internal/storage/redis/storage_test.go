package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/swisspairing/internal/dependencies/mocks"
	"github.com/mcoot/swisspairing/internal/dependencies/random"
	"github.com/mcoot/swisspairing/internal/model"
	"github.com/mcoot/swisspairing/internal/storage"
	"github.com/mcoot/swisspairing/internal/storage/storagetest"
)

func newMiniStorage(t *testing.T) *Storage {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	st := NewWithClient(client, DefaultConfig())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStorageContract(t *testing.T) {
	storagetest.Storage(t, func(t *testing.T) storage.Storage { return newMiniStorage(t) })
}

func TestLockerContract(t *testing.T) {
	st := newMiniStorage(t)
	storagetest.Locker(t, st.Locker(random.New()))
}

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ScheduleTTL = time.Hour
	cfg.LockTTL = time.Second

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestCompetitorKeys() {
	s.Require().NoError(s.storage.SaveCompetitor(s.ctx, "T1", model.Competitor{ID: "a", DisplayName: "Ann"}))
	s.Require().NoError(s.storage.SaveCompetitor(s.ctx, "T1", model.Competitor{ID: "a", DisplayName: "Annie"}))

	s.True(s.mini.Exists("swiss:tournament:T1:competitors"))
	order, err := s.mini.List("swiss:tournament:T1:competitor_order")
	s.Require().NoError(err)
	s.Equal([]string{"a"}, order)
}

func (s *StorageSuite) TestScheduleStoredAsJSONWithTTL() {
	s.Require().NoError(s.storage.ReplaceSchedule(s.ctx, storagetest.SampleSchedule("T1", 1)))

	raw, err := s.mini.Get("swiss:tournament:T1:schedule")
	s.Require().NoError(err)
	s.Contains(raw, `"tournamentId":"T1"`)
	s.Contains(raw, `"byePlayer":{"id":"c","username":"Cat","score":1}`)
	s.Equal(time.Hour, s.mini.TTL("swiss:tournament:T1:schedule"))
}

func (s *StorageSuite) TestListSkipsOrphanedOrderEntries() {
	s.Require().NoError(s.storage.SaveCompetitor(s.ctx, "T1", model.Competitor{ID: "a", DisplayName: "Ann"}))
	_, err := s.mini.RPush("swiss:tournament:T1:competitor_order", "ghost")
	s.Require().NoError(err)

	competitors, err := s.storage.ListCompetitors(s.ctx, "T1")
	s.Require().NoError(err)
	s.Len(competitors, 1)
}

func (s *StorageSuite) TestEnrollAfterOrphanedOrderEntryListsOnce() {
	// Order entry left behind by a withdrawal that raced an enrollment
	_, err := s.mini.RPush("swiss:tournament:T1:competitor_order", "p1")
	s.Require().NoError(err)

	s.Require().NoError(s.storage.SaveCompetitor(s.ctx, "T1", model.Competitor{ID: "p1", DisplayName: "Ann"}))

	order, err := s.mini.List("swiss:tournament:T1:competitor_order")
	s.Require().NoError(err)
	s.Equal([]string{"p1"}, order)

	competitors, err := s.storage.ListCompetitors(s.ctx, "T1")
	s.Require().NoError(err)
	s.Require().Len(competitors, 1)
	s.Equal("Ann", competitors[0].DisplayName)
}

func (s *StorageSuite) TestEnrollRepairsMissingOrderEntry() {
	// Hash entry whose order entry was never written
	data, err := json.Marshal(model.Competitor{ID: "p1", DisplayName: "Ann"})
	s.Require().NoError(err)
	s.mini.HSet("swiss:tournament:T1:competitors", "p1", string(data))

	s.Require().NoError(s.storage.SaveCompetitor(s.ctx, "T1", model.Competitor{ID: "p2", DisplayName: "Bob"}))
	s.Require().NoError(s.storage.SaveCompetitor(s.ctx, "T1", model.Competitor{ID: "p1", DisplayName: "Ann"}))

	competitors, err := s.storage.ListCompetitors(s.ctx, "T1")
	s.Require().NoError(err)
	s.Require().Len(competitors, 2)
	s.Equal(model.CompetitorID("p2"), competitors[0].ID)
	s.Equal(model.CompetitorID("p1"), competitors[1].ID)
}

func (s *StorageSuite) TestCorruptScheduleIsAnError() {
	s.Require().NoError(s.mini.Set("swiss:tournament:T1:schedule", "{not json"))

	_, err := s.storage.GetSchedule(s.ctx, "T1")
	s.Error(err)
	s.NotErrorIs(err, model.ErrScheduleNotFound)
}

func (s *StorageSuite) TestStorageFailurePropagates() {
	s.mini.Close()

	_, err := s.storage.ListCompetitors(s.ctx, "T1")
	s.Error(err)
	_, err = s.storage.GetSchedule(s.ctx, "T1")
	s.Error(err)
	s.NotErrorIs(err, model.ErrScheduleNotFound)
}

func (s *StorageSuite) TestLockUsesTokenAndTTL() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("tok-1")
	locker := s.storage.Locker(rnd)

	unlock, err := locker.Lock(s.ctx, "T1")
	s.Require().NoError(err)

	value, err := s.mini.Get("swiss:lock:T1")
	s.Require().NoError(err)
	s.Equal("tok-1", value)
	s.Equal(time.Second, s.mini.TTL("swiss:lock:T1"))

	unlock()
	s.False(s.mini.Exists("swiss:lock:T1"))
}

func (s *StorageSuite) TestUnlockLeavesForeignToken() {
	rnd := mocks.NewMockRandom()
	rnd.QueueString("mine")
	locker := s.storage.Locker(rnd)

	unlock, err := locker.Lock(s.ctx, "T1")
	s.Require().NoError(err)

	// Simulate expiry and takeover by another holder
	s.Require().NoError(s.mini.Set("swiss:lock:T1", "theirs"))
	unlock()

	value, err := s.mini.Get("swiss:lock:T1")
	s.Require().NoError(err)
	s.Equal("theirs", value)
}

func (s *StorageSuite) TestLockAcquiredAfterExpiry() {
	rnd := mocks.NewMockRandom()
	locker := s.storage.Locker(rnd)

	_, err := locker.Lock(s.ctx, "T1")
	s.Require().NoError(err)
	s.mini.FastForward(2 * time.Second)

	ctx, cancel := context.WithTimeout(s.ctx, time.Second)
	defer cancel()
	unlock, err := locker.Lock(ctx, "T1")
	s.Require().NoError(err)
	unlock()
}
