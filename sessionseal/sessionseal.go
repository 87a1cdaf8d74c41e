// Package sessionseal seals Zabbix session snapshots so a command line tool
// can reuse a session token across runs without storing it in the clear.
//
// A sealed snapshot has the form
//
//	[keyID] "." base64url(nonce || AEAD.Seal(plaintext, aad))
//
// where plaintext is the CBOR encoding of a Snapshot and aad binds the
// value to the API URL it was issued for. Keys are rotated by adding a new
// key and making it current; values sealed under older keys still open.
package sessionseal

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrFormat  = errors.New("sessionseal: invalid sealed session format")
	ErrInvalid = errors.New("sessionseal: invalid sealed session")
	ErrConfig  = errors.New("sessionseal: invalid configuration")
	ErrExpired = errors.New("sessionseal: sealed session expired")
)

// KeySize is the key length of the default AEAD.
const KeySize = chacha20poly1305.KeySize

// maxSealedLen bounds the input Open will decode.
const maxSealedLen = 16 << 10

// Snapshot is the session state worth keeping between runs.
type Snapshot struct {
	URL      string    `cbor:"1,keyasint"`
	Username string    `cbor:"2,keyasint,omitempty"`
	Token    string    `cbor:"3,keyasint"`
	Variant  string    `cbor:"4,keyasint,omitempty"`
	IssuedAt time.Time `cbor:"5,keyasint"`
}

var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Sealer seals and opens snapshots.
type Sealer struct {
	keyID   string
	keys    map[string][]byte
	newAEAD func(key []byte) (cipher.AEAD, error)
	maxAge  time.Duration
	now     func() time.Time
}

// Option configures a Sealer.
type Option func(*Sealer)

// WithMaxAge rejects snapshots issued longer than d ago. Zero disables the
// check.
func WithMaxAge(d time.Duration) Option {
	return func(s *Sealer) {
		s.maxAge = d
	}
}

// WithAEAD replaces XChaCha20-Poly1305 with another AEAD, e.g. AES-GCM.
func WithAEAD(f func(key []byte) (cipher.AEAD, error)) Option {
	return func(s *Sealer) {
		s.newAEAD = f
	}
}

// WithClock sets the time source used for IssuedAt and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Sealer) {
		s.now = now
	}
}

// New creates a Sealer that seals with keys[keyID] and opens values sealed
// with any key in keys.
func New(keyID string, keys map[string][]byte, opts ...Option) (*Sealer, error) {
	s := &Sealer{
		keyID:   keyID,
		keys:    keys,
		newAEAD: chacha20poly1305.NewX,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if keys == nil {
		return nil, fmt.Errorf("%w: keys must not be nil", ErrConfig)
	}
	if _, ok := keys[keyID]; !ok {
		return nil, fmt.Errorf("%w: key %q not found", ErrConfig, keyID)
	}
	if s.newAEAD == nil {
		return nil, fmt.Errorf("%w: AEAD constructor must not be nil", ErrConfig)
	}
	for id, k := range keys {
		if strings.Contains(id, ".") {
			return nil, fmt.Errorf("%w: key id %q contains '.'", ErrConfig, id)
		}
		if _, err := s.newAEAD(k); err != nil {
			return nil, fmt.Errorf("%w: key %s: %v", ErrConfig, id, err)
		}
	}
	return s, nil
}

func aad(url string) []byte {
	return []byte("zabbix-session:" + url)
}

// Seal encodes and encrypts snap. A zero IssuedAt is set to the current
// time.
func (s *Sealer) Seal(snap Snapshot) (string, error) {
	if s == nil {
		return "", ErrConfig
	}
	if snap.URL == "" || snap.Token == "" {
		return "", fmt.Errorf("%w: snapshot needs a URL and a token", ErrConfig)
	}
	if snap.IssuedAt.IsZero() {
		snap.IssuedAt = s.now()
	}
	plain, err := encMode.Marshal(snap)
	if err != nil {
		return "", err
	}

	aead, err := s.newAEAD(s.keys[s.keyID])
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, plain, aad(snap.URL))
	return s.keyID + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal for the same url.
func (s *Sealer) Open(value, url string) (Snapshot, error) {
	if s == nil {
		return Snapshot{}, ErrConfig
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 || len(value) > maxSealedLen {
		return Snapshot{}, ErrFormat
	}
	keyID, encB64, ok := strings.Cut(value, ".")
	if !ok || keyID == "" || encB64 == "" {
		return Snapshot{}, ErrFormat
	}
	key, ok := s.keys[keyID]
	if !ok {
		return Snapshot{}, ErrInvalid
	}
	sealed, err := base64.RawURLEncoding.DecodeString(encB64)
	if err != nil {
		return Snapshot{}, ErrFormat
	}

	aead, err := s.newAEAD(key)
	if err != nil {
		return Snapshot{}, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return Snapshot{}, ErrFormat
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, aad(url))
	if err != nil {
		return Snapshot{}, ErrInvalid
	}

	var snap Snapshot
	if err := cbor.Unmarshal(plain, &snap); err != nil {
		return Snapshot{}, ErrInvalid
	}
	if snap.URL != url {
		return Snapshot{}, ErrInvalid
	}
	if s.maxAge > 0 && s.now().Sub(snap.IssuedAt) > s.maxAge {
		return Snapshot{}, ErrExpired
	}
	return snap, nil
}

// ParseKeys parses a key list of the form "id:base64key[,id:base64key...]",
// as kept in an environment variable. The first key is the current one.
// Keys may use standard or URL-safe base64, padded or not.
func ParseKeys(spec string) (keyID string, keys map[string][]byte, err error) {
	keys = make(map[string][]byte)
	for i, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, enc, ok := strings.Cut(part, ":")
		if !ok || id == "" || enc == "" {
			return "", nil, fmt.Errorf("%w: key %d: want id:base64key", ErrConfig, i+1)
		}
		key, err := decodeKey(enc)
		if err != nil {
			return "", nil, fmt.Errorf("%w: key %q: %v", ErrConfig, id, err)
		}
		if _, dup := keys[id]; dup {
			return "", nil, fmt.Errorf("%w: duplicate key id %q", ErrConfig, id)
		}
		keys[id] = key
		if keyID == "" {
			keyID = id
		}
	}
	if keyID == "" {
		return "", nil, fmt.Errorf("%w: no keys", ErrConfig)
	}
	return keyID, keys, nil
}

func decodeKey(enc string) ([]byte, error) {
	enc = strings.TrimRight(enc, "=")
	if strings.ContainsAny(enc, "-_") {
		return base64.RawURLEncoding.DecodeString(enc)
	}
	return base64.RawStdEncoding.DecodeString(enc)
}
