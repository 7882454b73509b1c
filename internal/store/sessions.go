package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/dojolog/dojolog-server/internal/domain"
)

// CreateSession stores a new session. The session and its index keys expire with it.
func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	key := sessionKey(session.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check session exists: %w", err)
	}
	if exists {
		return ErrAlreadyExists.WithMessage("session already exists")
	}

	ttl := session.TTL(s.now())
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry(key, data).WithTTL(ttl)); err != nil {
			return err
		}

		// Token index for cookie lookups
		if session.TokenID != "" {
			entry := badger.NewEntry(sessionTokenKey(session.TokenID), []byte(session.ID)).WithTTL(ttl)
			if err := txn.SetEntry(entry); err != nil {
				return err
			}
		}

		// User index for listing sessions
		return txn.SetEntry(badger.NewEntry(sessionUserKey(session.UserID, session.ID), []byte{}).WithTTL(ttl))
	})
}

// GetSession retrieves a live session by ID.
func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := s.get(sessionKey(id), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	// Badger TTLs have one-second resolution.
	if session.IsExpired(s.now()) {
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// GetSessionByToken retrieves a live session by the id of the token issued for it.
func (s *Store) GetSessionByToken(ctx context.Context, tokenID string) (*domain.Session, error) {
	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionTokenKey(tokenID))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})

	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("lookup session by token: %w", err)
	}

	return s.GetSession(ctx, sessionID)
}

// DeleteSession deletes a session and its indexes. Deleting a missing session is not an error.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	key := sessionKey(sessionID)

	// Read even if expired so the indexes can be cleaned up.
	var session domain.Session
	if err := s.get(key, &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("get session for deletion: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}

		if session.TokenID != "" {
			if err := txn.Delete(sessionTokenKey(session.TokenID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}

		if err := txn.Delete(sessionUserKey(session.UserID, sessionID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		return nil
	})
}

// ListUserSessions returns all live sessions for a user.
func (s *Store) ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	prefix := sessionUserPrefix(userID)

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // keys only

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(bytes.TrimPrefix(it.Item().KeyCopy(nil), prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		session, err := s.GetSession(ctx, id)
		if err != nil {
			if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// DeleteAllUserSessions removes all sessions for a user.
func (s *Store) DeleteAllUserSessions(ctx context.Context, userID string) error {
	sessions, err := s.ListUserSessions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list sessions for deletion: %w", err)
	}

	for _, session := range sessions {
		if err := s.DeleteSession(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
	}

	return nil
}
