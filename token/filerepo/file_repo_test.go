package filerepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tracktor/zoho-crm/internal/errors"
	"github.com/Tracktor/zoho-crm/token"
	"github.com/Tracktor/zoho-crm/token/filerepo"
	"github.com/stretchr/testify/require"
)

func testToken(t *testing.T, access string) *token.Token {
	t.Helper()
	tok, err := token.FromMap(map[string]any{
		token.AccessTokenKey:  access,
		token.RefreshTokenKey: "1000.refresh",
		token.ExpiresInSecKey: 3600,
		token.APIDomainKey:    "https://www.zohoapis.com",
	})
	require.NoError(t, err)
	return tok
}

func TestPlainFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tokens")
	repo := filerepo.New(path, "")
	require.Equal(t, path, repo.Path())

	_, err := repo.Get(ctx, "default")
	require.ErrorIs(t, err, errors.ErrTokenNotFound)

	require.NoError(t, repo.Upsert(ctx, "default", testToken(t, "1000.first")))
	require.NoError(t, repo.Upsert(ctx, "sandbox", testToken(t, "1000.second")))
	require.NoError(t, repo.Upsert(ctx, "default", testToken(t, "1000.third")))

	got, err := repo.Get(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, "1000.third", got.AccessToken())
	require.Equal(t, "1000.refresh", got.RefreshToken())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "1000.second")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, repo.Delete(ctx, "default"))
	require.ErrorIs(t, repo.Delete(ctx, "default"), errors.ErrTokenNotFound)

	got, err = repo.Get(ctx, "sandbox")
	require.NoError(t, err)
	require.Equal(t, "1000.second", got.AccessToken())
}

func TestEncryptedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens")
	repo := filerepo.New(path, "correct horse")

	require.NoError(t, repo.Upsert(ctx, "default", testToken(t, "1000.secret-access")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "secret-access")
	require.NotContains(t, string(raw), "1000.refresh")

	got, err := filerepo.New(path, "correct horse").Get(ctx, "default")
	require.NoError(t, err)
	require.Equal(t, "1000.secret-access", got.AccessToken())

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := filerepo.New(path, "battery staple").Get(ctx, "default")
		require.ErrorIs(t, err, errors.ErrInvalidPassphrase)
	})

	t.Run("no passphrase", func(t *testing.T) {
		_, err := filerepo.New(path, "").Get(ctx, "default")
		require.ErrorIs(t, err, errors.ErrInvalidPassphrase)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := append([]byte(nil), raw...)
		tampered[len(tampered)-1] ^= 0xff
		tamperedPath := filepath.Join(t.TempDir(), "tokens")
		require.NoError(t, os.WriteFile(tamperedPath, tampered, 0o600))

		_, err := filerepo.New(tamperedPath, "correct horse").Get(ctx, "default")
		require.ErrorIs(t, err, errors.ErrInvalidPassphrase)
	})
}

func TestPlainFileWithPassphrase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tokens")
	require.NoError(t, filerepo.New(path, "").Upsert(ctx, "default", testToken(t, "1000.access")))

	_, err := filerepo.New(path, "secret").Get(ctx, "default")
	require.ErrorIs(t, err, errors.ErrCorruptTokenFile)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := filerepo.New(path, "").Get(context.Background(), "default")
	require.ErrorIs(t, err, errors.ErrCorruptTokenFile)
}

func TestUpsertEmptyKey(t *testing.T) {
	repo := filerepo.New(filepath.Join(t.TempDir(), "tokens"), "")
	require.ErrorIs(t, repo.Upsert(context.Background(), "", testToken(t, "1000.access")), errors.ErrInvalidKey)
}

func TestFreshTokenStaysValidAfterReload(t *testing.T) {
	ctx := context.Background()
	for _, passphrase := range []string{"", "correct horse"} {
		path := filepath.Join(t.TempDir(), "tokens")
		tok := testToken(t, "1000.access")
		require.NoError(t, tok.SetRefreshTime(time.Now().UTC()))
		require.NoError(t, filerepo.New(path, passphrase).Upsert(ctx, "default", tok))

		got, err := filerepo.New(path, passphrase).Get(ctx, "default")
		require.NoError(t, err)
		require.False(t, got.Expired(), "passphrase %q", passphrase)
		require.True(t, tok.Expiry().Equal(got.Expiry()))
	}
}
