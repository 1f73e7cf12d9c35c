package domain

import "time"

// DocumentStatus is the aggregate signing state of a document.
type DocumentStatus string

const (
	DocumentDraft    DocumentStatus = "draft"
	DocumentSent     DocumentStatus = "sent"
	DocumentSigned   DocumentStatus = "signed"
	DocumentDeclined DocumentStatus = "declined"
)

// SignatureStatus is the per-recipient signing state.
type SignatureStatus string

const (
	SignaturePending  SignatureStatus = "pending"
	SignatureSigned   SignatureStatus = "signed"
	SignatureDeclined SignatureStatus = "declined"
)

// Document is a document circulated for signatures. ContentRef points at the
// stored file; document content itself is not this service's concern.
type Document struct {
	ID             string
	Title          string
	ContentRef     string
	SenderID       string
	OrganizationID string // optional scope
	Status         DocumentStatus
	CreatedAt      time.Time
}

// Signature is one recipient's obligation to sign a document. There is
// exactly one per (document, signer) pair.
type Signature struct {
	ID           string
	DocumentID   string
	SignerID     string
	Status       SignatureStatus
	SignedAt     *time.Time
	ConfirmedVia string // channel tag, e.g. "web"
}
