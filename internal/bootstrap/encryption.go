package bootstrap

import (
	"log/slog"

	"github.com/medexjob/medexjob-api/internal/data/cryptoutil"
)

// CreateEncryptor builds the KYC cipher from KYC_ENCRYPTION_KEY. Secrets that
// are not 32 bytes are stretched with SHA-256. An empty secret gives the
// plain encoder, which ValidateServiceConfig permits only in development.
//
//nolint:ireturn // callers hold the interface
func CreateEncryptor(secret string, logger *slog.Logger) cryptoutil.Encryptor {
	if logger == nil {
		logger = slog.Default()
	}
	key, derived, err := cryptoutil.DeriveKey(secret)
	if err != nil {
		logger.Warn("KYC encryption disabled, identifiers are stored base64-encoded only", "reason", err)
		return cryptoutil.PlainEncryptor{}
	}
	if derived {
		logger.Warn("KYC encryption key is not 32 bytes, using its SHA-256 digest")
	}
	enc, err := cryptoutil.NewGCMEncryptor(key)
	if err != nil {
		logger.Error("KYC cipher init failed, falling back to plain encoding", "error", err)
		return cryptoutil.PlainEncryptor{}
	}
	return enc
}
