package jwtx_test

import (
	"testing"
	"time"

	"github.com/lexvault/docsign/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "docsign")
	require.NoError(t, err)
	require.Equal(t, "HS256", h.Alg())

	claims := jwtx.NewAccessClaims(
		"alice@example.com", "01J0USER00000000000000000X", false,
		time.Hour, "docsign", time.Now().UTC(),
	)

	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Subject)
	require.Equal(t, "01J0USER00000000000000000X", got.UID)
	require.False(t, got.Admin)
	require.NotEmpty(t, got.ID) // jti
}

func TestHS256RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewHS256([]byte("too short"), "docsign")
	require.Error(t, err)
}

func TestHS256RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256(testSecret, "docsign")
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "docsign")
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewAccessClaims(
		"bob@example.com", "", false, time.Hour, "docsign", time.Now().UTC(),
	))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHS256RejectsExpired(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "docsign")
	require.NoError(t, err)

	token, err := h.Sign(jwtx.NewAccessClaims(
		"bob@example.com", "", false, time.Minute,
		"docsign", time.Now().UTC().Add(-time.Hour),
	))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestHS256RejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewHS256(testSecret, "someone-else")
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256(testSecret, "docsign")
	require.NoError(t, err)

	token, err := signer.Sign(jwtx.NewAccessClaims(
		"bob@example.com", "", false, time.Hour, "someone-else", time.Now().UTC(),
	))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestHS256RejectsGarbage(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "docsign")
	require.NoError(t, err)

	_, err = h.Verify("definitely.not.ajwt")
	require.Error(t, err)
}
