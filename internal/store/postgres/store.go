package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	pool       *pgxpool.Pool
	sessionTTL time.Duration
}

func NewStore(pool *pgxpool.Pool, sessionTTL time.Duration) *Store {
	if sessionTTL <= 0 {
		sessionTTL = 8 * time.Hour
	}
	return &Store{pool: pool, sessionTTL: sessionTTL}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) CreateUser(ctx context.Context, input store.SignUpInput) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.User{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	user := models.User{UserID: uuid.NewString(), Email: strings.ToLower(input.Email)}
	row := tx.QueryRow(ctx, `
		INSERT INTO users (user_id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, user.UserID, user.Email, string(hash))
	if err = row.Scan(&user.Created); err != nil {
		if isUniqueViolation(err) {
			err = store.ErrEmailTaken
		}
		return models.User{}, err
	}

	// Every account gets an empty profile row up front, so profile reads
	// never have to special-case a missing row.
	_, err = tx.Exec(ctx, `
		INSERT INTO profiles (user_id)
		VALUES ($1)
	`, user.UserID)
	if err != nil {
		return models.User{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (models.Session, error) {
	var userID, storedEmail, passwordHash string
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, email, password_hash
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	if err := row.Scan(&userID, &storedEmail, &passwordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, store.ErrInvalidCredentials
		}
		return models.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return models.Session{}, store.ErrInvalidCredentials
	}

	return s.createSession(ctx, userID, storedEmail)
}

func (s *Store) createSession(ctx context.Context, userID, email string) (models.Session, error) {
	session := models.Session{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, session.SessionID, session.UserID, session.ExpiresAt)
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (models.Session, error) {
	var session models.Session
	row := s.pool.QueryRow(ctx, `
		SELECT s.session_id, s.user_id, u.email, s.expires_at
		FROM sessions s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.session_id = $1 AND s.expires_at > NOW()
	`, sessionID)
	if err := row.Scan(&session.SessionID, &session.UserID, &session.Email, &session.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, store.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE session_id = $1
	`, sessionID)
	return err
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM sessions
		WHERE expires_at <= NOW()
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
