package store

import (
	"context"
	"errors"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy; transactional flows go
// through Tx/WithTx so a repo method never silently opens a nested
// transaction.
type Store interface {
	Users() Users
	RegistrationCodes() RegistrationCodes
	LoginSessions() LoginSessions
	Documents() Documents
	Organizations() Organizations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. fn returning an error rolls
	// back; nil commits. This is the recommended way to run multi-step state
	// transitions atomically.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during registration and password login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByTelegramID finds the user bound to a Telegram identity.
	GetUserByTelegramID(ctx context.Context, telegramID string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email or phone is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// BindTelegramID sets the telegram_id for a user, only if none is bound
	// yet. Returns ErrAlreadyExists when the Telegram identity is bound
	// elsewhere (unique constraint) and ErrNotFound when the user does not
	// exist or already carries a binding.
	BindTelegramID(ctx context.Context, userID, telegramID string) error

	// CountByIDs returns how many of the given ids resolve to users.
	// Used for strict recipient validation.
	CountByIDs(ctx context.Context, ids []string) (int, error)
}

type RegistrationCodes interface {
	// CreateCode writes a fresh registration code.
	CreateCode(ctx context.Context, c domain.RegistrationCode) error

	// DeleteCodesForEmail invalidates all previously issued codes for an
	// email, used or not.
	DeleteCodesForEmail(ctx context.Context, email string) error

	// GetActiveByCode returns the unused, unexpired code record matching the
	// presented code value. Expired and consumed codes are indistinguishable
	// from never-issued ones: both yield ErrNotFound.
	GetActiveByCode(ctx context.Context, code string, now time.Time) (domain.RegistrationCode, error)

	// ConsumeCode marks the code used and clears the code value so it can
	// never match again.
	ConsumeCode(ctx context.Context, id string) error

	// DeleteExpiredCodes is housekeeping only; read paths already filter.
	DeleteExpiredCodes(ctx context.Context, now time.Time) error
}

type LoginSessions interface {
	// CreateSession stores a new pending login session. Returns
	// ErrAlreadyExists on a session_token collision.
	CreateSession(ctx context.Context, s domain.LoginSession) error

	// GetActiveByToken returns the unexpired session for a token, or
	// ErrNotFound. Expired rows are treated as deleted.
	GetActiveByToken(ctx context.Context, token string, now time.Time) (domain.LoginSession, error)

	// ConfirmSession flips is_confirmed on the unexpired session. Zero rows
	// affected (unknown, expired, or concurrently deleted token) yields
	// ErrNotFound.
	ConfirmSession(ctx context.Context, token string, now time.Time) error

	// DeleteActiveByToken removes the unexpired session (reject path).
	// ErrNotFound when nothing matched.
	DeleteActiveByToken(ctx context.Context, token string, now time.Time) error

	// DeleteByID removes a session unconditionally (exchange path, inside a
	// transaction that already read the row).
	DeleteByID(ctx context.Context, id string) error

	// DeleteExpiredSessions is housekeeping only.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

type Documents interface {
	// CreateDocument inserts a document row.
	CreateDocument(ctx context.Context, d domain.Document) error

	// GetDocument returns a document by id.
	GetDocument(ctx context.Context, id string) (domain.Document, error)

	// UpdateDocumentStatus sets the aggregate status.
	UpdateDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus) error

	// ListDocumentsForUser returns documents the user sent or is asked to
	// sign, deduplicated, newest first.
	ListDocumentsForUser(ctx context.Context, userID string) ([]domain.Document, error)

	// CreateSignature inserts one pending signature requirement.
	CreateSignature(ctx context.Context, s domain.Signature) error

	// ListSignatures returns all signature requirements for a document.
	ListSignatures(ctx context.Context, documentID string) ([]domain.Signature, error)

	// MarkSignature transitions the unique pending (document, signer)
	// requirement to the given terminal status. Zero rows affected (wrong
	// document, wrong signer, or already resolved) yields ErrNotFound.
	MarkSignature(ctx context.Context, documentID, signerID string, status domain.SignatureStatus, at time.Time, via string) error

	// CountPendingSignatures returns how many requirements remain pending.
	CountPendingSignatures(ctx context.Context, documentID string) (int, error)
}

type Organizations interface {
	// CreateOrganization inserts an organization.
	CreateOrganization(ctx context.Context, o domain.Organization) error

	// GetOrganization returns an organization by id.
	GetOrganization(ctx context.Context, id string) (domain.Organization, error)

	// ListOrganizationsForUser returns organizations the user belongs to.
	ListOrganizationsForUser(ctx context.Context, userID string) ([]domain.Organization, error)

	// AddMember records membership. Adding an existing member is a no-op.
	AddMember(ctx context.Context, organizationID, userID string) error

	// IsMember reports whether the user belongs to the organization.
	IsMember(ctx context.Context, organizationID, userID string) (bool, error)
}
