package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type (
	sqlStore struct {
		db *sqlx.DB
	}
)

// SQLTokenStore keeps tokens in the sessions table so they survive
// a restart. The table is created by the board migrations.
func SQLTokenStore(db *sqlx.DB) *sqlStore {
	return &sqlStore{db: db}
}

func (s *sqlStore) Save(ctx context.Context, token string, userID int64) error {
	_, err := s.db.ExecContext(ctx, `insert into sessions (token, user_id) values (?, ?)`, token, userID)
	if err != nil {
		return fmt.Errorf("unable to save session, cause %w", err)
	}
	return nil
}

func (s *sqlStore) Lookup(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := s.db.GetContext(ctx, &userID, `select user_id from sessions where token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	} else if err != nil {
		return 0, fmt.Errorf("unable to lookup session, cause %w", err)
	}
	return userID, nil
}
