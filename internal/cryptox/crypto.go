// Package cryptox implements password hashing (argon2id) and opaque token
// generation.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"golang.org/x/crypto/argon2"
)

// Params controls argon2id cost.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// DefaultParams matches the cost used for master key derivation.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32, SaltLen: 16}

var ErrMalformedHash = errors.New("malformed password hash")

var b64 = base64.RawStdEncoding

// DeriveKey runs argon2id over password and salt.
func DeriveKey(password, salt []byte, p Params) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// HashPassword returns an encoded, salted argon2id hash:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func HashPassword(password string, p Params) (string, error) {
	salt := common.GenerateRandByteArray(int(p.SaltLen))
	key := DeriveKey([]byte(password), salt, p)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword checks password against an encoded hash in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false, ErrMalformedHash
	}
	p.KeyLen = uint32(len(key))

	candidate := DeriveKey([]byte(password), salt, p)
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// NewToken returns a random hex token of n bytes of entropy.
func NewToken(n int) (string, error) {
	t, err := common.MakeRandHexString(n)
	if err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	return t, nil
}
