package service

import "errors"

// Service-level error kinds. Several of these deliberately coalesce distinct
// root causes (unknown vs expired token, wrong signer vs already signed) so
// that callers cannot probe which sub-condition held. Handlers map each kind
// to a stable generic response; the precise cause only ever reaches the logs.
var (
	// ErrUserExists: email or phone already registered.
	ErrUserExists = errors.New("user_exists")

	// ErrUserNotFound: no account for the given email.
	ErrUserNotFound = errors.New("user_not_found")

	// ErrInvalidCode: registration code unknown, expired, or already used.
	ErrInvalidCode = errors.New("invalid_code")

	// ErrTelegramAlreadyLinked: the Telegram identity backs another account.
	ErrTelegramAlreadyLinked = errors.New("telegram_already_linked")

	// ErrInvalidCredentials: unknown email or wrong password, identically.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrTelegramNotLinked: login requires a bound second factor.
	ErrTelegramNotLinked = errors.New("telegram_not_linked")

	// ErrNotifyFailed: the out-of-band confirmation request could not be
	// delivered. The login session it refers to is left to lazy expiry.
	ErrNotifyFailed = errors.New("notify_failed")

	// ErrSessionNotFound: login session unknown, expired, rejected, or
	// already exchanged.
	ErrSessionNotFound = errors.New("session_not_found")

	// ErrNotConfirmed: login session exists but has not been confirmed yet.
	ErrNotConfirmed = errors.New("login_not_confirmed")

	// ErrInvalidRecipients: at least one recipient does not resolve to a
	// registered user.
	ErrInvalidRecipients = errors.New("invalid_recipients")

	// ErrNotOrganizationMember: sender does not belong to the organization
	// the document is scoped to.
	ErrNotOrganizationMember = errors.New("not_organization_member")

	// ErrSignatureNotFound: no pending signature requirement for the
	// (document, signer) pair — wrong document, wrong signer, or already
	// resolved.
	ErrSignatureNotFound = errors.New("signature_not_found")

	// ErrDocumentNotFound: no such document.
	ErrDocumentNotFound = errors.New("document_not_found")
)
