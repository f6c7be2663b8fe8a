package badge

import (
	"context"
	"errors"
	"time"

	"github.com/personachat/backend/internal/common"
	"github.com/personachat/backend/pkg/xredis"
	"github.com/puzpuzpuz/xsync"
)

type DayCounter struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StreakState struct {
	Streak   int    `json:"streak"`
	LastDate string `json:"last_date"`
}

type Staged struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Scratch is the per-user state which badge families need besides the
// progress value. It is a cache: losing it only delays progress.
// Session counters are never persisted.
type Scratch struct {
	Daily   map[string]DayCounter             `json:"daily"`
	Sets    map[string][]string               `json:"sets"`
	Streaks map[string]map[string]StreakState `json:"streaks"`
	Staged  map[string]Staged                 `json:"staged"`

	session map[string]int
}

func NewScratch() *Scratch {
	s := &Scratch{}
	s.normalize()
	return s
}

func (s *Scratch) normalize() {
	if s.Daily == nil {
		s.Daily = map[string]DayCounter{}
	}

	if s.Sets == nil {
		s.Sets = map[string][]string{}
	}

	if s.Streaks == nil {
		s.Streaks = map[string]map[string]StreakState{}
	}

	if s.Staged == nil {
		s.Staged = map[string]Staged{}
	}

	if s.session == nil {
		s.session = map[string]int{}
	}
}

// resetSession zeroes every session-scoped counter.
func (s *Scratch) resetSession() {
	s.session = map[string]int{}
}

// Clone returns a deep copy of the persisted part of the scratch.
func (s *Scratch) Clone() *Scratch {
	c := NewScratch()
	for k, v := range s.Daily {
		c.Daily[k] = v
	}

	for k, v := range s.Sets {
		c.Sets[k] = append([]string(nil), v...)
	}

	for k, entities := range s.Streaks {
		copied := make(map[string]StreakState, len(entities))
		for entity, state := range entities {
			copied[entity] = state
		}
		c.Streaks[k] = copied
	}

	for k, v := range s.Staged {
		c.Staged[k] = v
	}

	return c
}

type ScratchStore interface {
	// Load returns an empty scratch if nothing was saved for the user.
	Load(ctx context.Context, userID string) (*Scratch, error)
	Save(ctx context.Context, userID string, scratch *Scratch) error
}

type redisScratchStore struct {
	redisClient xredis.Client
	ttl         time.Duration
}

func NewRedisScratchStore(redisClient xredis.Client, ttl time.Duration) *redisScratchStore {
	return &redisScratchStore{redisClient: redisClient, ttl: ttl}
}

func (s *redisScratchStore) Load(ctx context.Context, userID string) (*Scratch, error) {
	scratch := &Scratch{}
	err := s.redisClient.GetObj(ctx, common.RedisKeyBadgeScratch(userID), scratch)
	if err != nil {
		if errors.Is(err, xredis.ErrNotFound) {
			return NewScratch(), nil
		}

		return nil, err
	}

	scratch.normalize()
	return scratch, nil
}

func (s *redisScratchStore) Save(ctx context.Context, userID string, scratch *Scratch) error {
	return s.redisClient.SetObj(ctx, common.RedisKeyBadgeScratch(userID), scratch, s.ttl)
}

type memoryScratchStore struct {
	scratches *xsync.MapOf[string, *Scratch]
}

func NewMemoryScratchStore() *memoryScratchStore {
	return &memoryScratchStore{scratches: xsync.NewMapOf[*Scratch]()}
}

func (s *memoryScratchStore) Load(_ context.Context, userID string) (*Scratch, error) {
	scratch, ok := s.scratches.Load(userID)
	if !ok {
		return NewScratch(), nil
	}

	return scratch.Clone(), nil
}

func (s *memoryScratchStore) Save(_ context.Context, userID string, scratch *Scratch) error {
	s.scratches.Store(userID, scratch.Clone())
	return nil
}
