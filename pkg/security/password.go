package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/classwish/classwish-backend/pkg/config"
	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash signals a hash string that is not a well-formed Argon2id
// PHC record.
var ErrInvalidHash = fmt.Errorf("invalid argon2id hash")

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	saltLen uint32
	keyLen  uint32
}

// HashPassword derives an Argon2id hash of password and encodes it in PHC
// string format, parameters and salt included, so VerifyPassword needs no
// out-of-band state.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	p := resolveParams(cfg)
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword recomputes the hash with the parameters embedded in encoded
// and compares in constant time. A malformed record returns ErrInvalidHash,
// never a silent mismatch.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, key, err := parseHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func resolveParams(cfg config.PasswordConfig) argonParams {
	return argonParams{
		memory:  clamp(cfg.ArgonMemoryKB, 8, 512*1024),
		time:    clamp(cfg.ArgonTime, 1, 10),
		threads: uint8(clamp(cfg.ArgonParallelism, 1, 255)),
		saltLen: clamp(cfg.ArgonSaltLen, 8, 64),
		keyLen:  clamp(cfg.ArgonKeyLen, 16, 64),
	}
}

func parseHash(encoded string) (argonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	var p argonParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argonParams{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argonParams{}, nil, nil, ErrInvalidHash
	}

	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))

	return p, salt, key, nil
}

func clamp(value, min, max int) uint32 {
	if value < min {
		return uint32(min)
	}
	if value > max {
		return uint32(max)
	}
	return uint32(value)
}
