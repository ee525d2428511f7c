package utils // helper functions shared across the auth service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. They are embedded in every hash string, so verification
// is self-describing and the values can be raised later without breaking
// existing hashes.
const (
	argonMemoryKB    uint32 = 64 * 1024
	argonTime        uint32 = 2
	argonParallelism uint8  = 2
	argonSaltLen            = 16
	argonKeyLen      uint32 = 32
)

var errInvalidHash = errors.New("invalid password hash format")

// HashPassword derives an argon2id hash of the plaintext and encodes it in
// the standard PHC string format ($argon2id$v=...$m=...,t=...,p=...$salt$key).
// The plaintext is never stored or logged.
func HashPassword(plain string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plain), salt, argonTime, argonMemoryKB, argonParallelism, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKB, argonTime, argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword re-derives the key with the parameters parsed from the hash
// string and compares in constant time. Any parse failure reports false; the
// caller treats that the same as a wrong password.
func VerifyPassword(encoded, plain string) bool {
	memory, timeCost, parallelism, salt, key, err := parseHash(encoded)
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(plain), salt, timeCost, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1
}

func parseHash(encoded string) (memory, timeCost uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, errInvalidHash
	}
	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return 0, 0, 0, nil, nil, errInvalidHash
	}
	for _, kv := range strings.Split(parts[3], ",") {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 {
			return 0, 0, 0, nil, nil, errInvalidHash
		}
		// Parse each parameter at its own width; a value outside the type's
		// range must fail, not wrap (p=257 is not p=1).
		switch pair[0] {
		case "m":
			n, perr := strconv.ParseUint(pair[1], 10, 32)
			if perr != nil {
				return 0, 0, 0, nil, nil, errInvalidHash
			}
			memory = uint32(n)
		case "t":
			n, perr := strconv.ParseUint(pair[1], 10, 32)
			if perr != nil {
				return 0, 0, 0, nil, nil, errInvalidHash
			}
			timeCost = uint32(n)
		case "p":
			n, perr := strconv.ParseUint(pair[1], 10, 8)
			if perr != nil {
				return 0, 0, 0, nil, nil, errInvalidHash
			}
			parallelism = uint8(n)
		default:
			return 0, 0, 0, nil, nil, errInvalidHash
		}
	}
	if memory == 0 || timeCost == 0 || parallelism == 0 {
		return 0, 0, 0, nil, nil, errInvalidHash
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return 0, 0, 0, nil, nil, errInvalidHash
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, errInvalidHash
	}
	return memory, timeCost, parallelism, salt, key, nil
}
