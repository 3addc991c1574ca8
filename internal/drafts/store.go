// Package drafts keeps wizard sessions and recovery drafts in redis.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dteaa/membership_service/internal/logger"
	"github.com/dteaa/membership_service/internal/wizard"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient opens a pooled client and pings it.
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

type Store struct {
	rdb        *redis.Client
	sessionTTL time.Duration
	draftTTL   time.Duration
	log        logger.Logger
}

func NewStore(rdb *redis.Client, sessionTTL, draftTTL time.Duration, log logger.Logger) *Store {
	return &Store{rdb: rdb, sessionTTL: sessionTTL, draftTTL: draftTTL, log: log}
}

func sessionKey(mode wizard.Mode, userID string) string {
	return fmt.Sprintf("wizard:session:%s:%s", mode, userID)
}

func draftKey(mode wizard.Mode, userID string) string {
	return fmt.Sprintf("wizard:draft:%s:%s", mode, userID)
}

// LoadSession returns nil when there is no session or it does not parse.
func (s *Store) LoadSession(ctx context.Context, mode wizard.Mode, userID string) (*wizard.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(mode, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session wizard.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		s.log.Debug("discarding unreadable session", map[string]interface{}{"user_id": userID, "error": err})
		return nil, nil
	}
	if session.UserID != userID || session.Mode != mode {
		return nil, nil
	}
	return &session, nil
}

func (s *Store) SaveSession(ctx context.Context, session *wizard.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(session.Mode, session.UserID), raw, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, mode wizard.Mode, userID string) error {
	return s.rdb.Del(ctx, sessionKey(mode, userID)).Err()
}

// SaveDraft stores the state without attachments; binary blobs stay in the session only.
func (s *Store) SaveDraft(ctx context.Context, mode wizard.Mode, userID string, state *wizard.FormState) error {
	snapshot := *state
	snapshot.Personal.ProfilePhoto = nil
	snapshot.Payment.Receipt = nil

	raw, err := json.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.rdb.Set(ctx, draftKey(mode, userID), raw, s.draftTTL).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// LoadDraft returns nil when no draft parses; a broken draft is never an error.
func (s *Store) LoadDraft(ctx context.Context, mode wizard.Mode, userID string) *wizard.FormState {
	raw, err := s.rdb.Get(ctx, draftKey(mode, userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Debug("draft unavailable", map[string]interface{}{"user_id": userID, "error": err})
		}
		return nil
	}

	state := wizard.NewFormState()
	if err := json.Unmarshal(raw, state); err != nil {
		s.log.Debug("discarding unreadable draft", map[string]interface{}{"user_id": userID, "error": err})
		return nil
	}
	state.Normalize()
	return state
}

func (s *Store) DeleteDraft(ctx context.Context, mode wizard.Mode, userID string) error {
	return s.rdb.Del(ctx, draftKey(mode, userID)).Err()
}
