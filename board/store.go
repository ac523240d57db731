package board

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/andrebq/msgboard/internal/logutil"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

type (
	// Store keeps users and messages in a single sqlite file
	Store struct {
		db *sqlx.DB
	}

	User struct {
		ID           int64  `db:"id"`
		Username     string `db:"username"`
		Email        string `db:"email"`
		PasswordHash string `db:"password"`
	}

	Message struct {
		ID       int64  `db:"id"`
		Content  string `db:"content"`
		AuthorID int64  `db:"author_id"`
	}

	// FeedEntry is a message joined with the name of its author
	FeedEntry struct {
		ID         int64  `db:"id" json:"id"`
		Content    string `db:"content" json:"content"`
		AuthorName string `db:"author_name" json:"authorName"`
	}
)

var (
	//go:embed migrations/*.sql
	migrations embed.FS

	// goose keeps its configuration in package level variables
	migrateLock sync.Mutex
)

func openDatabase(ctx context.Context, file string) (*sqlx.DB, error) {
	if dir := filepath.Dir(file); dir != "." {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("unable to create directory %v to store database, cause %w", dir, err)
		}
	}
	connstr := fmt.Sprintf("file:%v?_journal=wal&_busy_timeout=5000&_foreign_keys=on&mode=rwc", file)
	conn, err := sqlx.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database %v, cause %w", file, err)
	}
	return conn, nil
}

// Open loads the database stored at file, creating it if needed,
// and ensures the schema is up to date before returning.
func Open(ctx context.Context, file string) (*Store, error) {
	conn, err := openDatabase(ctx, file)
	if err != nil {
		return nil, err
	}
	s := &Store{db: conn}
	err = s.Migrate(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to migrate %v, cause %w", file, err)
	}
	return s, nil
}

// Migrate applies every pending migration embedded in the binary.
func (s *Store) Migrate(ctx context.Context) error {
	migrateLock.Lock()
	defer migrateLock.Unlock()
	goose.SetBaseFS(migrations)
	goose.SetLogger(logutil.GooseLogger(logutil.GetOrDefault(ctx)))
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db.DB, "migrations")
}

// DB exposes the underlying connection for components that keep
// their own tables in the same file (eg.: the persistent token store)
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `insert into users (username, email, password) values (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		if dup := duplicateUser(err); dup != nil {
			return dup
		}
		return fmt.Errorf("unable to create user %v, cause %w", username, err)
	}
	return nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `select id, username, email, password from users where email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, UserNotFound{Email: email}
	} else if err != nil {
		return nil, fmt.Errorf("unable to lookup user by email, cause %w", err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, `select id, username, email, password from users where id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, UserNotFound{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("unable to lookup user %v, cause %w", id, err)
	}
	return &u, nil
}

func (s *Store) PostMessage(ctx context.Context, content string, authorID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `insert into messages (content, author_id) values (?, ?)`, content, authorID)
	if err != nil {
		return 0, fmt.Errorf("unable to store message from user %v, cause %w", authorID, err)
	}
	return res.LastInsertId()
}

// ListMessages returns every message in insertion order
func (s *Store) ListMessages(ctx context.Context) ([]FeedEntry, error) {
	out := []FeedEntry{}
	err := s.db.SelectContext(ctx, &out, `select m.id, m.content, coalesce(u.username, '') as author_name
	from messages m
	left join users u on m.author_id = u.id
	order by m.id asc`)
	if err != nil {
		return nil, fmt.Errorf("unable to list messages, cause %w", err)
	}
	return out, nil
}

func (s *Store) CountMessages(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `select count(*) from messages`)
	if err != nil {
		return 0, fmt.Errorf("unable to count messages, cause %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func duplicateUser(err error) error {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) || sqlErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return nil
	}
	msg := sqlErr.Error()
	switch {
	case strings.Contains(msg, "users.email"):
		return DuplicateUser{Field: "email"}
	case strings.Contains(msg, "users.username"):
		return DuplicateUser{Field: "username"}
	}
	return nil
}
