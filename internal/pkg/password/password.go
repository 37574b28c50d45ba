// Package password hashes and verifies user passwords with Argon2id.
//
// The salt is stored next to the hash, so the encoded hash only carries the
// algorithm parameters and the derived key:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<base64 key>
//
// Parameters are read back from the encoded hash on verification, which lets
// operators raise the cost without invalidating existing passwords.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/result"
)

const (
	// SaltLength is the number of random bytes in a generated salt.
	SaltLength = 16

	// KeyLength is the length of the derived key in bytes.
	KeyLength = 32

	// MinLength and MaxLength bound the accepted plaintext length.
	// MaxLength keeps hashing cost bounded for oversized inputs.
	MinLength = 8
	MaxLength = 1024
)

// Hashed is a password hash together with the salt used to derive it.
type Hashed struct {
	Hash string
	Salt string
}

// Params are the Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultParams match the OWASP baseline for Argon2id.
var DefaultParams = Params{Time: 3, Memory: 64 * 1024, Threads: 4}

// Hasher implements the password-hash collaborator.
type Hasher struct {
	params Params
}

// NewHasher creates a Hasher with the given parameters.
// Zero fields fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.Memory == 0 {
		p.Memory = DefaultParams.Memory
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	return &Hasher{params: p}
}

// NewHasherFromConfig creates a Hasher from the auth configuration section.
func NewHasherFromConfig(cfg config.AuthConfig) *Hasher {
	return NewHasher(Params{
		Time:    cfg.Argon2Time,
		Memory:  cfg.Argon2Memory,
		Threads: cfg.Argon2Threads,
	})
}

// GenerateSalt returns a random base64-encoded salt.
func (h *Hasher) GenerateSalt() string {
	b := make([]byte, SaltLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms.
		panic(fmt.Sprintf("password: failed to read random bytes: %v", err))
	}
	return base64.RawStdEncoding.EncodeToString(b)
}

// HashPassword derives the hash of plain with the given salt.
// An empty salt generates a fresh one.
func (h *Hasher) HashPassword(plain, salt string) result.Result[Hashed] {
	if len(plain) < MinLength {
		return result.Failure[Hashed](apperr.ValidationField("password",
			fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", MinLength)))
	}
	if len(plain) > MaxLength {
		return result.Failure[Hashed](apperr.ValidationField("password",
			fmt.Sprintf("A senha deve ter no máximo %d caracteres.", MaxLength)))
	}
	if salt == "" {
		salt = h.GenerateSalt()
	}

	key := argon2.IDKey([]byte(plain), []byte(salt), h.params.Time, h.params.Memory, h.params.Threads, KeyLength)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(key))

	return result.Success(Hashed{Hash: encoded, Salt: salt})
}

// VerifyPassword reports whether plain matches storedHash under salt.
// Malformed hashes never match.
func (h *Hasher) VerifyPassword(storedHash, plain, salt string) bool {
	if len(plain) > MaxLength {
		return false
	}
	p, key, err := decode(storedHash)
	if err != nil {
		return false
	}
	//nolint:gosec // key length is bounded by the encoded hash
	candidate := argon2.IDKey([]byte(plain), []byte(salt), p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

func decode(encoded string) (Params, []byte, error) {
	var p Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[1] != "argon2id" {
		return p, nil, errors.New("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, fmt.Errorf("incompatible version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, fmt.Errorf("invalid parameters: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return p, nil, errors.New("invalid hash encoding")
	}
	return p, key, nil
}
