package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
)

type documentsRepo struct {
	q querier
}

func (r *documentsRepo) CreateDocument(ctx context.Context, d domain.Document) error {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO documents (id, title, content_ref, sender_id, organization_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.ContentRef, d.SenderID,
		mapStringNull(d.OrganizationID), string(d.Status), createdAt,
	)
	return mapConstraint(err)
}

func (r *documentsRepo) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	return scanDocument(r.q.QueryRowContext(ctx, `
		SELECT id, title, content_ref, sender_id, organization_id, status, created_at
		FROM documents WHERE id = ?`, id))
}

func (r *documentsRepo) UpdateDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE documents SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *documentsRepo) ListDocumentsForUser(ctx context.Context, userID string) ([]domain.Document, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT DISTINCT d.id, d.title, d.content_ref, d.sender_id, d.organization_id, d.status, d.created_at
		FROM documents d
		LEFT JOIN signatures s ON s.document_id = d.id
		WHERE d.sender_id = ? OR s.signer_id = ?
		ORDER BY d.created_at DESC, d.id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		var orgID sql.NullString
		if err := rows.Scan(&d.ID, &d.Title, &d.ContentRef, &d.SenderID, &orgID, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.OrganizationID = mapNullString(orgID)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *documentsRepo) CreateSignature(ctx context.Context, s domain.Signature) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO signatures (id, document_id, signer_id, status, signed_at, confirmed_via)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.DocumentID, s.SignerID, string(s.Status),
		mapOptionalTime(s.SignedAt), mapStringNull(s.ConfirmedVia),
	)
	return mapConstraint(err)
}

func (r *documentsRepo) ListSignatures(ctx context.Context, documentID string) ([]domain.Signature, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, document_id, signer_id, status, signed_at, confirmed_via
		FROM signatures WHERE document_id = ?
		ORDER BY id`,
		documentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sigs []domain.Signature
	for rows.Next() {
		var s domain.Signature
		var signedAt sql.NullTime
		var via sql.NullString
		if err := rows.Scan(&s.ID, &s.DocumentID, &s.SignerID, &s.Status, &signedAt, &via); err != nil {
			return nil, err
		}
		s.SignedAt = mapNullTimePtr(signedAt)
		s.ConfirmedVia = mapNullString(via)
		sigs = append(sigs, s)
	}
	return sigs, rows.Err()
}

func (r *documentsRepo) MarkSignature(ctx context.Context, documentID, signerID string, status domain.SignatureStatus, at time.Time, via string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE signatures
		SET status = ?, signed_at = ?, confirmed_via = ?
		WHERE document_id = ? AND signer_id = ? AND status = 'pending'`,
		string(status), at, mapStringNull(via), documentID, signerID,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *documentsRepo) CountPendingSignatures(ctx context.Context, documentID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM signatures WHERE document_id = ? AND status = 'pending'`,
		documentID,
	).Scan(&count)
	return count, err
}

func scanDocument(row *sql.Row) (domain.Document, error) {
	var d domain.Document
	var orgID sql.NullString
	err := row.Scan(&d.ID, &d.Title, &d.ContentRef, &d.SenderID, &orgID, &d.Status, &d.CreatedAt)
	if err != nil {
		return domain.Document{}, mapNotFound(err)
	}
	d.OrganizationID = mapNullString(orgID)
	return d, nil
}
