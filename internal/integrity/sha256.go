package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

/**
 * Downloaded payload does not match the checksum published by the catalog
 * @property {string} Name - Mod name
 * @property {string} Actual - Checksum of the received bytes
 * @property {string} Expected - Checksum from the catalog
 */
type HashMismatchError struct {
	Name     string
	Actual   string
	Expected string
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for '%s': expected %s, got %s", e.Name, e.Expected, e.Actual)
}

// Sha256Hex 计算数据的SHA-256，返回大写十六进制
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

/**
 * Verify payload against an expected SHA-256
 * @param {string} name - Mod name, used in the error
 * @param {[]byte} data - Downloaded payload
 * @param {string} expected - Expected hex digest, compared case-insensitively
 * @returns {error} *HashMismatchError on mismatch, nil otherwise
 */
func VerifySha256(name string, data []byte, expected string) error {
	actual := Sha256Hex(data)
	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return &HashMismatchError{Name: name, Actual: actual, Expected: expected}
	}
	return nil
}
