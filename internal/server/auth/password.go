package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing schemes.
const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// ErrMalformedDigest is returned by Verify when the stored digest cannot be
// parsed. It is an internal failure, not a credential mismatch.
var ErrMalformedDigest = errors.New("malformed password digest")

// Hasher turns plaintext passwords into self-describing digests and checks
// candidates against them. Verify reports a plain mismatch as (false, nil).
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

// bcryptMaxInput is the longest password bcrypt accepts.
const bcryptMaxInput = 72

// bcryptInput returns the bytes handed to bcrypt. Passwords longer than
// bcrypt's limit are replaced by a tagged SHA-256 digest; shorter ones pass
// through unchanged.
func bcryptInput(plaintext string) []byte {
	if len(plaintext) <= bcryptMaxInput {
		return []byte(plaintext)
	}
	sum := sha256.Sum256([]byte(plaintext))
	return []byte("sha256:" + base64.StdEncoding.EncodeToString(sum[:]))
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(bcryptInput(plaintext), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), bcryptInput(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
}

const argon2Prefix = "$argon2id$"

// Argon2Hasher produces PHC-formatted argon2id digests:
// $argon2id$v=19$m=<KiB>,t=<iters>,p=<lanes>$<salt>$<key>
type Argon2Hasher struct {
	Params cryptox.Argon2Params
}

func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{Params: cryptox.DefaultArgon2Params}
}

func (h *Argon2Hasher) Hash(plaintext string) (string, error) {
	salt, err := cryptox.RandomBytes(int(h.Params.SaltLen))
	if err != nil {
		return "", err
	}
	key := cryptox.DeriveKey([]byte(plaintext), salt, h.Params)

	return fmt.Sprintf("%sv=19$m=%d,t=%d,p=%d$%s$%s", argon2Prefix,
		h.Params.Memory, h.Params.Time, h.Params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func (h *Argon2Hasher) Verify(plaintext, digest string) (bool, error) {
	p, salt, key, err := parseArgon2(digest)
	if err != nil {
		return false, err
	}
	candidate := cryptox.DeriveKey([]byte(plaintext), salt, p)
	return cryptox.Equal(candidate, key), nil
}

func parseArgon2(digest string) (cryptox.Argon2Params, []byte, []byte, error) {
	var p cryptox.Argon2Params

	parts := strings.Split(digest, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != 19 {
		return p, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrMalformedDigest, parts[2])
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, fmt.Errorf("%w: zero cost parameter", ErrMalformedDigest)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedDigest, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: key", ErrMalformedDigest)
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}

// MultiHasher hashes with one configured scheme and verifies digests of any
// supported scheme, picked by prefix. Switching the scheme leaves existing
// digests verifiable.
type MultiHasher struct {
	primary Hasher
	bcrypt  Hasher
	argon2  Hasher
}

// NewHasher builds a MultiHasher that hashes with scheme.
func NewHasher(scheme string, bcryptCost int) (*MultiHasher, error) {
	m := &MultiHasher{
		bcrypt: NewBcryptHasher(bcryptCost),
		argon2: NewArgon2Hasher(),
	}
	switch scheme {
	case SchemeBcrypt, "":
		m.primary = m.bcrypt
	case SchemeArgon2id:
		m.primary = m.argon2
	default:
		return nil, fmt.Errorf("unknown password hash scheme %q", scheme)
	}
	return m, nil
}

func (m *MultiHasher) Hash(plaintext string) (string, error) {
	return m.primary.Hash(plaintext)
}

func (m *MultiHasher) Verify(plaintext, digest string) (bool, error) {
	switch {
	case strings.HasPrefix(digest, argon2Prefix):
		return m.argon2.Verify(plaintext, digest)
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return m.bcrypt.Verify(plaintext, digest)
	default:
		return false, ErrMalformedDigest
	}
}
