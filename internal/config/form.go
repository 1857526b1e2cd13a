package config

import (
	"fmt"
	"strings"
)

// Unicode normalization forms accepted for train.normalize.
const (
	FormNone = "none"
	FormNFC  = "nfc"
	FormNFD  = "nfd"
	FormNFKC = "nfkc"
	FormNFKD = "nfkd"
)

func NormalizeForm(raw string) (string, error) {
	form := strings.ToLower(strings.TrimSpace(raw))
	if form == "" {
		return FormNone, nil
	}
	switch form {
	case FormNone, FormNFC, FormNFD, FormNFKC, FormNFKD:
		return form, nil
	default:
		return "", fmt.Errorf(
			"invalid normalization form %q (expected %s|%s|%s|%s|%s)",
			raw,
			FormNone,
			FormNFC,
			FormNFD,
			FormNFKC,
			FormNFKD,
		)
	}
}
