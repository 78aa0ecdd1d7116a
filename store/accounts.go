// Package store keeps the FTP gateway accounts: a local login mapped
// to the backend credentials used on its behalf.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLoginTaken = errors.New("login already taken")
	ErrAuthFailed = errors.New("unknown login or wrong password")
)

type Account struct {
	bun.BaseModel `bun:"table:accounts"`

	ID           string `bun:",pk"`
	Login        string
	PasswordHash string
	// Backend credentials used for every call made on this
	// account's behalf. The backend accepts nothing but the
	// plaintext pair, so it is stored recoverable.
	CloudUsername string
	CloudPassword string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewID() string {
	return uuid.New().String()
}

// Open connects to postgres through the pgx stdlib driver.
func Open(dsn string) (*bun.DB, error) {
	dbConn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return bun.NewDB(dbConn, pgdialect.New()), nil
}

type Accounts struct {
	db *bun.DB
}

func NewAccounts(db *bun.DB) *Accounts {
	return &Accounts{db: db}
}

// Create registers a gateway account. The gateway password is stored
// as a bcrypt hash.
func (a *Accounts) Create(ctx context.Context, login, password, cloudUsername, cloudPassword string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	account := &Account{
		ID:            NewID(),
		Login:         login,
		PasswordHash:  string(hash),
		CloudUsername: cloudUsername,
		CloudPassword: cloudPassword,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := a.db.NewInsert().Model(account).Exec(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrLoginTaken
		}

		return nil, fmt.Errorf("insert account: %w", err)
	}

	return account, nil
}

// Authenticate verifies a login/password pair and returns the matching
// account. Unknown logins and wrong passwords are indistinguishable to
// the caller.
func (a *Accounts) Authenticate(ctx context.Context, login, password string) (*Account, error) {
	var account Account
	err := a.db.NewSelect().Model(&account).
		Where("login = ?", login).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuthFailed
		}

		return nil, fmt.Errorf("fetch account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthFailed
	}

	return &account, nil
}
