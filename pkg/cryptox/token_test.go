package cryptox_test

import (
	"testing"

	"github.com/lexvault/docsign/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 43) // 32 bytes base64url, no padding

	other, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintTokenDeterministic(t *testing.T) {
	t.Parallel()

	fp1 := cryptox.FingerprintToken("some-token")
	fp2 := cryptox.FingerprintToken("some-token")
	require.Equal(t, fp1, fp2)
	require.Len(t, fp1, 43)
	require.NotEqual(t, fp1, cryptox.FingerprintToken("other-token"))
}

func TestGenerateNumericCode(t *testing.T) {
	t.Parallel()

	code, err := cryptox.GenerateNumericCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		require.True(t, r >= '0' && r <= '9')
	}

	_, err = cryptox.GenerateNumericCode(0)
	require.Error(t, err)
	_, err = cryptox.GenerateNumericCode(19)
	require.Error(t, err)
}
