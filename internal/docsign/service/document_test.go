package service

import (
	"context"
	"testing"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCreateDocumentValidatesRecipients(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DocumentService{Store: st}

	sender := createUser(t, st, "sender@example.com", "pass", "")
	signer := createUser(t, st, "signer@example.com", "pass", "")

	t.Run("unknown recipient fails the whole call", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateDocumentParams{
			Title:        "NDA",
			ContentRef:   "blob://nda-1",
			SenderID:     sender.ID,
			RecipientIDs: []string{signer.ID, idx.New().String()},
		})
		require.ErrorIs(t, err, ErrInvalidRecipients)

		// Nothing was stored.
		docs, err := svc.ListForUser(ctx, sender.ID)
		require.NoError(t, err)
		require.Empty(t, docs)
	})

	t.Run("empty recipient list rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateDocumentParams{
			Title:      "NDA",
			ContentRef: "blob://nda-2",
			SenderID:   sender.ID,
		})
		require.ErrorIs(t, err, ErrInvalidRecipients)
	})

	t.Run("duplicate recipients collapse to one requirement", func(t *testing.T) {
		doc, err := svc.Create(ctx, CreateDocumentParams{
			Title:        "NDA",
			ContentRef:   "blob://nda-3",
			SenderID:     sender.ID,
			RecipientIDs: []string{signer.ID, signer.ID, signer.ID},
		})
		require.NoError(t, err)
		require.Equal(t, domain.DocumentSent, doc.Status)

		sigs, err := st.Documents().ListSignatures(ctx, doc.ID)
		require.NoError(t, err)
		require.Len(t, sigs, 1)
		require.Equal(t, domain.SignaturePending, sigs[0].Status)
	})
}

func TestCreateDocumentEnforcesOrganizationMembership(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	docs := &DocumentService{Store: st}
	orgs := &OrganizationService{Store: st}

	member := createUser(t, st, "member@example.com", "pass", "")
	outsider := createUser(t, st, "outsider@example.com", "pass", "")
	signer := createUser(t, st, "cosigner@example.com", "pass", "")

	org, err := orgs.Create(ctx, "Acme Legal", member.ID)
	require.NoError(t, err)

	_, err = docs.Create(ctx, CreateDocumentParams{
		Title:          "Contract",
		ContentRef:     "blob://contract-1",
		SenderID:       outsider.ID,
		OrganizationID: org.ID,
		RecipientIDs:   []string{signer.ID},
	})
	require.ErrorIs(t, err, ErrNotOrganizationMember)

	doc, err := docs.Create(ctx, CreateDocumentParams{
		Title:          "Contract",
		ContentRef:     "blob://contract-1",
		SenderID:       member.ID,
		OrganizationID: org.ID,
		RecipientIDs:   []string{signer.ID},
	})
	require.NoError(t, err)
	require.Equal(t, org.ID, doc.OrganizationID)
}

func TestSignPromotesWhenLastSignatureLands(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DocumentService{Store: st}

	sender := createUser(t, st, "sender@example.com", "pass", "")
	s1 := createUser(t, st, "one@example.com", "pass", "")
	s2 := createUser(t, st, "two@example.com", "pass", "")
	s3 := createUser(t, st, "three@example.com", "pass", "")

	doc, err := svc.Create(ctx, CreateDocumentParams{
		Title:        "Lease",
		ContentRef:   "blob://lease-1",
		SenderID:     sender.ID,
		RecipientIDs: []string{s1.ID, s2.ID, s3.ID},
	})
	require.NoError(t, err)

	for _, signer := range []domain.User{s1, s2} {
		require.NoError(t, svc.Sign(ctx, doc.ID, signer.ID, "web"))

		got, _, err := svc.Get(ctx, doc.ID, sender.ID)
		require.NoError(t, err)
		require.Equal(t, domain.DocumentSent, got.Status)
	}

	require.NoError(t, svc.Sign(ctx, doc.ID, s3.ID, "web"))

	got, sigs, err := svc.Get(ctx, doc.ID, sender.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DocumentSigned, got.Status)
	for _, sig := range sigs {
		require.Equal(t, domain.SignatureSigned, sig.Status)
		require.NotNil(t, sig.SignedAt)
		require.Equal(t, "web", sig.ConfirmedVia)
	}
}

func TestSignRejectsWrongSignerAndDoubleSign(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DocumentService{Store: st}

	sender := createUser(t, st, "sender@example.com", "pass", "")
	signer := createUser(t, st, "signer@example.com", "pass", "")
	stranger := createUser(t, st, "stranger@example.com", "pass", "")

	doc, err := svc.Create(ctx, CreateDocumentParams{
		Title:        "Offer",
		ContentRef:   "blob://offer-1",
		SenderID:     sender.ID,
		RecipientIDs: []string{signer.ID},
	})
	require.NoError(t, err)

	// Non-recipient, wrong document, and repeated sign all coalesce.
	require.ErrorIs(t, svc.Sign(ctx, doc.ID, stranger.ID, "web"), ErrSignatureNotFound)
	require.ErrorIs(t, svc.Sign(ctx, idx.New().String(), signer.ID, "web"), ErrSignatureNotFound)

	require.NoError(t, svc.Sign(ctx, doc.ID, signer.ID, "web"))
	require.ErrorIs(t, svc.Sign(ctx, doc.ID, signer.ID, "web"), ErrSignatureNotFound)
}

func TestDeclineMarksDocumentDeclined(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DocumentService{Store: st}

	sender := createUser(t, st, "sender@example.com", "pass", "")
	s1 := createUser(t, st, "one@example.com", "pass", "")
	s2 := createUser(t, st, "two@example.com", "pass", "")

	doc, err := svc.Create(ctx, CreateDocumentParams{
		Title:        "Waiver",
		ContentRef:   "blob://waiver-1",
		SenderID:     sender.ID,
		RecipientIDs: []string{s1.ID, s2.ID},
	})
	require.NoError(t, err)

	// One refusal is terminal regardless of outstanding signatures.
	require.NoError(t, svc.Decline(ctx, doc.ID, s1.ID, "web"))

	got, _, err := svc.Get(ctx, doc.ID, sender.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DocumentDeclined, got.Status)

	// The remaining signer can still resolve their requirement, but the
	// document stays declined.
	require.NoError(t, svc.Sign(ctx, doc.ID, s2.ID, "web"))

	got, _, err = svc.Get(ctx, doc.ID, sender.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DocumentDeclined, got.Status)
}

func TestGetHidesDocumentsFromOutsiders(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DocumentService{Store: st}

	sender := createUser(t, st, "sender@example.com", "pass", "")
	signer := createUser(t, st, "signer@example.com", "pass", "")
	outsider := createUser(t, st, "outsider@example.com", "pass", "")

	doc, err := svc.Create(ctx, CreateDocumentParams{
		Title:        "Deed",
		ContentRef:   "blob://deed-1",
		SenderID:     sender.ID,
		RecipientIDs: []string{signer.ID},
	})
	require.NoError(t, err)

	_, _, err = svc.Get(ctx, doc.ID, signer.ID)
	require.NoError(t, err)

	_, _, err = svc.Get(ctx, doc.ID, outsider.ID)
	require.ErrorIs(t, err, ErrDocumentNotFound)

	_, _, err = svc.Get(ctx, idx.New().String(), sender.ID)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestListForUserCoversBothRoles(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &DocumentService{Store: st}

	alice := createUser(t, st, "alice@example.com", "pass", "")
	bob := createUser(t, st, "bob@example.com", "pass", "")

	sent, err := svc.Create(ctx, CreateDocumentParams{
		Title:        "From Alice",
		ContentRef:   "blob://a1",
		SenderID:     alice.ID,
		RecipientIDs: []string{bob.ID},
	})
	require.NoError(t, err)

	received, err := svc.Create(ctx, CreateDocumentParams{
		Title:        "From Bob",
		ContentRef:   "blob://b1",
		SenderID:     bob.ID,
		RecipientIDs: []string{alice.ID},
	})
	require.NoError(t, err)

	docs, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	ids := []string{docs[0].ID, docs[1].ID}
	require.Contains(t, ids, sent.ID)
	require.Contains(t, ids, received.ID)
}
