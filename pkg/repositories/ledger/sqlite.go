package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadedpez/neonvegas/internal/logging"
	"github.com/fadedpez/neonvegas/pkg/db/migrations"
	"github.com/fadedpez/neonvegas/pkg/entities"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// SQLite table schemas
const (
	createUsersTableSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		deposit TEXT NOT NULL DEFAULT '0',
		winnings TEXT NOT NULL DEFAULT '0',
		bonus TEXT NOT NULL DEFAULT '0',
		kyc_verified INTEGER NOT NULL DEFAULT 0,
		referral_code TEXT UNIQUE COLLATE NOCASE,
		referred_by TEXT NOT NULL DEFAULT '',
		referral_rewarded INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	)`

	createTransactionsTableSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`

	createTransactionIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id, seq DESC);
	CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(user_id, type)
	`

	selectUserSQL = `
	SELECT id, username, deposit, winnings, bonus, kyc_verified, referral_code,
		referred_by, referral_rewarded, updated_at
	FROM users`

	selectTransactionsSQL = `
	SELECT id, user_id, type, amount, status, timestamp
	FROM transactions`
)

// Migrations build the ledger schema
var Migrations = []migrations.Migration{
	{Version: 1, Description: "create users", SQL: createUsersTableSQL},
	{Version: 2, Description: "create transactions", SQL: createTransactionsTableSQL},
	{Version: 3, Description: "index transactions", SQL: createTransactionIndexesSQL},
}

const timestampFormat = time.RFC3339Nano

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db  *sql.DB
	log *logging.Logger
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens dsn and creates the schema. An in-memory DSN is
// pinned to a single connection so every query sees the same database. A nil
// logger discards output.
func NewSQLiteRepository(dsn string, logger *logging.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = logging.Discard
	}

	inMemory := strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")

	if !inMemory && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	if _, err := migrations.NewMigrator(db, logger).MigrateUp(context.Background(), Migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	return &SQLiteRepository{db: db, log: logger}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*entities.User, error) {
	var (
		user      entities.User
		code      sql.NullString
		updatedAt string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Wallet.Deposit,
		&user.Wallet.Winnings,
		&user.Wallet.Bonus,
		&user.KYCVerified,
		&code,
		&user.ReferredBy,
		&user.ReferralRewarded,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.ReferralCode = code.String
	if user.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUserSQL+` WHERE id = ?`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) FindByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, selectUserSQL+` WHERE referral_code = ?`, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error finding referral code: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) SaveUser(ctx context.Context, user *entities.User) error {
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO users (id, username, deposit, winnings, bonus, kyc_verified,
			referral_code, referred_by, referral_rewarded, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username,
		user.Wallet.Deposit.String(), user.Wallet.Winnings.String(), user.Wallet.Bonus.String(),
		user.KYCVerified, nullable(user.ReferralCode), user.ReferredBy, user.ReferralRewarded,
		user.UpdatedAt.Format(timestampFormat),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicateUser
		}
		return fmt.Errorf("error saving user: %w", err)
	}

	r.log.Info("[LEDGER_REPO] Created user %s (%s)", user.ID, user.Username)
	return nil
}

func (r *SQLiteRepository) Commit(ctx context.Context, user *entities.User, txn *entities.Transaction) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting commit: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	user.UpdatedAt = time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE users
		SET username = ?, deposit = ?, winnings = ?, bonus = ?, kyc_verified = ?,
			referred_by = ?, referral_rewarded = ?, updated_at = ?
		WHERE id = ?
	`,
		user.Username,
		user.Wallet.Deposit.String(), user.Wallet.Winnings.String(), user.Wallet.Bonus.String(),
		user.KYCVerified, user.ReferredBy, user.ReferralRewarded,
		user.UpdatedAt.Format(timestampFormat),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	if txn != nil {
		if txn.ID == "" {
			txn.ID = uuid.New().String()
		}
		if txn.Timestamp.IsZero() {
			txn.Timestamp = time.Now()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, user_id, type, amount, status, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)
		`, txn.ID, txn.UserID, string(txn.Type), txn.Amount.String(), string(txn.Status), txn.Timestamp.Format(timestampFormat))
		if err != nil {
			return fmt.Errorf("error adding transaction: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing: %w", err)
	}

	if txn != nil {
		r.log.Debug("[LEDGER_REPO] Committed %s of $%s for user %s", txn.Type, txn.Amount.StringFixed(2), user.ID)
	}
	return nil
}

func (r *SQLiteRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	query := selectTransactionsSQL + ` WHERE user_id = ? ORDER BY seq DESC LIMIT ?`
	return r.queryTransactions(ctx, query, userID, sqlLimit(limit))
}

func (r *SQLiteRepository) GetTransactionsByType(ctx context.Context, userID string, transactionType entities.TransactionType, limit int) ([]*entities.Transaction, error) {
	query := selectTransactionsSQL + ` WHERE user_id = ? AND type = ? ORDER BY seq DESC LIMIT ?`
	return r.queryTransactions(ctx, query, userID, string(transactionType), sqlLimit(limit))
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*entities.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*entities.Transaction, 0)
	for rows.Next() {
		var (
			txn       entities.Transaction
			txnType   string
			status    string
			timestamp string
		)
		if err := rows.Scan(&txn.ID, &txn.UserID, &txnType, &txn.Amount, &status, &timestamp); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		txn.Type = entities.TransactionType(txnType)
		txn.Status = entities.TransactionStatus(status)
		if txn.Timestamp, err = parseTimestamp(timestamp); err != nil {
			return nil, err
		}
		transactions = append(transactions, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// parseTimestamp accepts our own format plus SQLite's defaults
func parseTimestamp(value string) (time.Time, error) {
	formats := []string{
		timestampFormat,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}
	return time.Time{}, fmt.Errorf("error parsing timestamp '%s': %w", value, parseErr)
}

// sqlLimit maps "no limit" to SQLite's -1
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
