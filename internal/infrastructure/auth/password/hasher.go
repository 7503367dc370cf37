// Package password hashes and verifies account passwords in the werkzeug
// "pbkdf2:<hash>:<iterations>$<salt>$<hex digest>" format, so hashes written
// by the earlier deployment keep verifying.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/turtacn/H2Siting/pkg/errors"
)

const (
	DefaultIterations = 600000
	saltLength        = 16
	saltChars         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrUnsupportedHash = errors.New(errors.ErrCodeInvalidCredentials, "unsupported password hash")

var digests = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// Hasher produces pbkdf2:sha256 hashes.
type Hasher struct {
	Iterations int
}

func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

// Hash returns the encoded hash of password under a fresh salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to generate salt")
	}
	sum := derive("sha256", password, salt, h.Iterations)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", h.Iterations, salt, sum), nil
}

// Verify reports whether password matches encoded. Malformed hashes never
// match.
func (h *Hasher) Verify(encoded, password string) bool {
	method, salt, want, ok := split(encoded)
	if !ok {
		return false
	}
	parts := strings.Split(method, ":")
	if len(parts) < 2 || parts[0] != "pbkdf2" {
		return false
	}
	if _, known := digests[parts[1]]; !known {
		return false
	}
	iterations := DefaultIterations
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}
	got := derive(parts[1], password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func split(encoded string) (method, salt, sum string, ok bool) {
	fields := strings.SplitN(encoded, "$", 3)
	if len(fields) != 3 {
		return "", "", "", false
	}
	return fields[0], fields[1], fields[2], true
}

func derive(digest, password, salt string, iterations int) string {
	newHash := digests[digest]
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
	return hex.EncodeToString(key)
}

func randomSalt(n int) (string, error) {
	var sb strings.Builder
	limit := big.NewInt(int64(len(saltChars)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(saltChars[idx.Int64()])
	}
	return sb.String(), nil
}

//Personal.AI order the ending
