package bootstrap

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/target/runconsole/internal/data/cryptoutil"
)

// CreateSessionEncryptor builds the encryptor that seals upstream bearer tokens
// in the session store. A 64-character hex key is used as-is; any other value
// is hashed to 32 bytes. An empty key yields a noop encryptor in development
// and an error otherwise.
//
//nolint:ireturn // Returning interface is intentional for encryptor abstraction
func CreateSessionEncryptor(key string, isDev bool, logger *slog.Logger) (cryptoutil.Encryptor, error) {
	if key == "" {
		if !isDev {
			return nil, errors.New("sessions encryption key is required")
		}
		if logger != nil {
			logger.Warn("sessions encryption key is empty, upstream tokens are stored unencrypted")
		}
		return cryptoutil.NoopEncryptor{}, nil
	}

	return cryptoutil.NewAESGCMEncryptor(deriveKey(key))
}

func deriveKey(key string) []byte {
	if decoded, err := hex.DecodeString(key); err == nil && len(decoded) == 32 {
		return decoded
	}
	hash := sha256.Sum256([]byte(key))
	return hash[:]
}
