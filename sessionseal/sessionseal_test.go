package sessionseal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "https://zabbix.example.com/api_jsonrpc.php"

func newKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, KeySize)
	_, err := rand.Read(k)
	require.NoError(t, err)
	return k
}

func newAESGCMAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func testSnapshot() Snapshot {
	return Snapshot{
		URL:      testURL,
		Username: "Admin",
		Token:    "0424bd59b807674191e7d77572075f33",
		Variant:  "v7",
		IssuedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := New("a", map[string][]byte{"a": newKey(t)})
	require.NoError(t, err)

	want := testSnapshot()
	value, err := s.Seal(want)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(value, "a."))
	assert.NotContains(t, value, want.Token)

	got, err := s.Open(value, testURL)
	require.NoError(t, err)
	assert.Equal(t, want.URL, got.URL)
	assert.Equal(t, want.Username, got.Username)
	assert.Equal(t, want.Token, got.Token)
	assert.Equal(t, want.Variant, got.Variant)
	assert.True(t, want.IssuedAt.Equal(got.IssuedAt), "issued at: got %v want %v", got.IssuedAt, want.IssuedAt)
}

func TestSealSetsIssuedAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	s, err := New("a", map[string][]byte{"a": newKey(t)}, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	snap := testSnapshot()
	snap.IssuedAt = time.Time{}
	value, err := s.Seal(snap)
	require.NoError(t, err)

	got, err := s.Open(value, testURL)
	require.NoError(t, err)
	assert.True(t, now.Equal(got.IssuedAt))
}

func TestSealRequiresURLAndToken(t *testing.T) {
	s, err := New("a", map[string][]byte{"a": newKey(t)})
	require.NoError(t, err)

	_, err = s.Seal(Snapshot{URL: testURL})
	assert.ErrorIs(t, err, ErrConfig)
	_, err = s.Seal(Snapshot{Token: "t"})
	assert.ErrorIs(t, err, ErrConfig)
}

func TestOpenBoundToURL(t *testing.T) {
	s, err := New("a", map[string][]byte{"a": newKey(t)})
	require.NoError(t, err)
	value, err := s.Seal(testSnapshot())
	require.NoError(t, err)

	_, err = s.Open(value, "https://other.example.com/api_jsonrpc.php")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRotationOldKeyStillOpens(t *testing.T) {
	keys := map[string][]byte{"old": newKey(t), "new": newKey(t)}
	sOld, err := New("old", keys)
	require.NoError(t, err)
	sNew, err := New("new", keys)
	require.NoError(t, err)

	value, err := sOld.Seal(testSnapshot())
	require.NoError(t, err)
	got, err := sNew.Open(value, testURL)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot().Token, got.Token)

	value, err = sNew.Seal(testSnapshot())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(value, "new."))
}

func TestOpenRejects(t *testing.T) {
	s, err := New("a", map[string][]byte{"a": newKey(t)})
	require.NoError(t, err)
	value, err := s.Seal(testSnapshot())
	require.NoError(t, err)

	other, err := New("a", map[string][]byte{"a": newKey(t)})
	require.NoError(t, err)

	keyID, enc, _ := strings.Cut(value, ".")
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	tampered := keyID + "." + base64.RawURLEncoding.EncodeToString(raw)

	tests := []struct {
		name   string
		sealer *Sealer
		value  string
		want   error
	}{
		{"empty", s, "", ErrFormat},
		{"no separator", s, "abcdef", ErrFormat},
		{"empty key id", s, ".abcdef", ErrFormat},
		{"bad base64", s, "a.!!!", ErrFormat},
		{"too short", s, "a.AAAA", ErrFormat},
		{"too long", s, "a." + strings.Repeat("A", maxSealedLen), ErrFormat},
		{"unknown key id", s, "nope.deadbeef", ErrInvalid},
		{"tampered", s, tampered, ErrInvalid},
		{"wrong key", other, value, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sealer.Open(tt.value, testURL)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMaxAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	key := map[string][]byte{"a": newKey(t)}
	s, err := New("a", key, WithMaxAge(time.Hour), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	value, err := s.Seal(testSnapshot())
	require.NoError(t, err)

	_, err = s.Open(value, testURL)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = s.Open(value, testURL)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCustomAEAD(t *testing.T) {
	s, err := New("a", map[string][]byte{"a": newKey(t)}, WithAEAD(newAESGCMAEAD))
	require.NoError(t, err)
	value, err := s.Seal(testSnapshot())
	require.NoError(t, err)
	got, err := s.Open(value, testURL)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot().Token, got.Token)
}

func TestNewValidation(t *testing.T) {
	_, err := New("a", nil)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = New("b", map[string][]byte{"a": newKey(t)})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = New("a", map[string][]byte{"a": []byte("short")})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = New("a.b", map[string][]byte{"a.b": newKey(t)})
	assert.ErrorIs(t, err, ErrConfig)

	_, err = New("a", map[string][]byte{"a": newKey(t)}, WithAEAD(nil))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseKeys(t *testing.T) {
	k1, k2 := newKey(t), newKey(t)
	spec := "k1:" + base64.StdEncoding.EncodeToString(k1) + ", k2:" + base64.RawURLEncoding.EncodeToString(k2)

	keyID, keys, err := ParseKeys(spec)
	require.NoError(t, err)
	assert.Equal(t, "k1", keyID)
	assert.Equal(t, k1, keys["k1"])
	assert.Equal(t, k2, keys["k2"])

	for _, bad := range []string{"", "k1", "k1:", ":abc", "k1:%%%", "k1:AAAA,k1:AAAA"} {
		_, _, err := ParseKeys(bad)
		assert.ErrorIs(t, err, ErrConfig, "spec %q", bad)
	}
}

func TestFileStore(t *testing.T) {
	s, err := New("a", map[string][]byte{"a": newKey(t)})
	require.NoError(t, err)
	store := &FileStore{Path: filepath.Join(t.TempDir(), "state", "session"), Sealer: s}

	_, err = store.Load(testURL)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	require.NoError(t, store.Save(testSnapshot()))
	info, err := os.Stat(store.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load(testURL)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot().Token, got.Token)

	require.NoError(t, store.Remove())
	require.NoError(t, store.Remove())
	_, err = store.Load(testURL)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
