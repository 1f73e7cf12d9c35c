package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
	"github.com/lexvault/docsign/pkg/idx"
	"github.com/lexvault/docsign/pkg/slogx"
)

// DocumentService manages the document signing state machine: creation with
// strict recipient validation, per-signer sign/decline transitions, and the
// aggregate promotion that follows from them.
type DocumentService struct {
	Store store.Store
}

// CreateDocumentParams is the input to Create. RecipientIDs may contain
// duplicates; they are collapsed before validation.
type CreateDocumentParams struct {
	Title          string
	ContentRef     string
	SenderID       string
	OrganizationID string // optional
	RecipientIDs   []string
}

// Create stores a document in sent state together with one pending signature
// requirement per distinct recipient, all in one transaction. Every recipient
// must resolve to a registered user or the whole call fails with
// ErrInvalidRecipients. When the document is scoped to an organization the
// sender must be a member.
func (s *DocumentService) Create(ctx context.Context, p CreateDocumentParams) (domain.Document, error) {
	recipients := dedupe(p.RecipientIDs)
	if len(recipients) == 0 {
		return domain.Document{}, ErrInvalidRecipients
	}

	now := time.Now().UTC()
	doc := domain.Document{
		ID:             idx.New().String(),
		Title:          p.Title,
		ContentRef:     p.ContentRef,
		SenderID:       p.SenderID,
		OrganizationID: p.OrganizationID,
		Status:         domain.DocumentSent,
		CreatedAt:      now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if p.OrganizationID != "" {
			member, err := tx.Organizations().IsMember(ctx, p.OrganizationID, p.SenderID)
			if err != nil {
				return err
			}
			if !member {
				return ErrNotOrganizationMember
			}
		}

		count, err := tx.Users().CountByIDs(ctx, recipients)
		if err != nil {
			return err
		}
		if count != len(recipients) {
			return ErrInvalidRecipients
		}

		if err := tx.Documents().CreateDocument(ctx, doc); err != nil {
			return err
		}

		for _, signerID := range recipients {
			if err := tx.Documents().CreateSignature(ctx, domain.Signature{
				ID:         idx.New().String(),
				DocumentID: doc.ID,
				SignerID:   signerID,
				Status:     domain.SignaturePending,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Document{}, err
	}

	slogx.FromContext(ctx).Info("document sent",
		slog.String("document_id", doc.ID),
		slog.Int("recipients", len(recipients)),
	)
	return doc, nil
}

// Sign records the signer's signature on a document. When it was the last
// pending requirement the document is promoted to signed in the same
// transaction. Wrong document, wrong signer, and already-resolved
// requirements are all ErrSignatureNotFound.
func (s *DocumentService) Sign(ctx context.Context, documentID, signerID, via string) error {
	return s.resolveSignature(ctx, documentID, signerID, via, domain.SignatureSigned)
}

// Decline records the signer's refusal. The document is immediately marked
// declined: one refusal is enough to stop the flow, no matter how many
// signatures are still outstanding.
func (s *DocumentService) Decline(ctx context.Context, documentID, signerID, via string) error {
	return s.resolveSignature(ctx, documentID, signerID, via, domain.SignatureDeclined)
}

func (s *DocumentService) resolveSignature(ctx context.Context, documentID, signerID, via string, status domain.SignatureStatus) error {
	now := time.Now().UTC()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Documents().MarkSignature(ctx, documentID, signerID, status, now, via); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSignatureNotFound
			}
			return err
		}

		doc, err := tx.Documents().GetDocument(ctx, documentID)
		if err != nil {
			return err
		}
		// Terminal documents stay terminal. A stale sign attempt after a
		// decline still resolves the signer's own requirement above, but it
		// must not resurrect the document.
		if doc.Status != domain.DocumentDraft && doc.Status != domain.DocumentSent {
			return nil
		}

		if status == domain.SignatureDeclined {
			return tx.Documents().UpdateDocumentStatus(ctx, documentID, domain.DocumentDeclined)
		}

		pending, err := tx.Documents().CountPendingSignatures(ctx, documentID)
		if err != nil {
			return err
		}
		if pending == 0 {
			return tx.Documents().UpdateDocumentStatus(ctx, documentID, domain.DocumentSigned)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("signature resolved",
		slog.String("document_id", documentID),
		slog.String("signer_id", signerID),
		slog.String("status", string(status)),
	)
	return nil
}

// Get returns a document with its signature requirements, visible only to
// the sender and the signers.
func (s *DocumentService) Get(ctx context.Context, documentID, userID string) (domain.Document, []domain.Signature, error) {
	doc, err := s.Store.Documents().GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Document{}, nil, ErrDocumentNotFound
		}
		return domain.Document{}, nil, err
	}

	sigs, err := s.Store.Documents().ListSignatures(ctx, documentID)
	if err != nil {
		return domain.Document{}, nil, err
	}

	if doc.SenderID != userID && !isSigner(sigs, userID) {
		// Hidden documents are indistinguishable from missing ones.
		return domain.Document{}, nil, ErrDocumentNotFound
	}
	return doc, sigs, nil
}

// ListForUser returns the documents the user sent or is asked to sign,
// newest first.
func (s *DocumentService) ListForUser(ctx context.Context, userID string) ([]domain.Document, error) {
	return s.Store.Documents().ListDocumentsForUser(ctx, userID)
}

func isSigner(sigs []domain.Signature, userID string) bool {
	for _, sig := range sigs {
		if sig.SignerID == userID {
			return true
		}
	}
	return false
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
