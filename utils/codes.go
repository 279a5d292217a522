package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// CodePrefix names what a human-facing code identifies.
type CodePrefix string

const (
	TicketPrefix CodePrefix = "TKT"
)

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateCode returns {PREFIX}-{8 random base32 characters}, e.g. TKT-K3VQ7ZDA.
func GenerateCode(prefix CodePrefix) (string, error) {
	raw := make([]byte, 5)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return string(prefix) + "-" + strings.ToUpper(codeEncoding.EncodeToString(raw)), nil
}
