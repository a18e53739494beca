package config

import (
	"errors"
	"fmt"
	"strings"
)

// AppKeyPrefix is the fixed prefix Moltbook developer app keys carry.
const AppKeyPrefix = "moltdev_"

var (
	ErrBadAppKey  = errors.New("app key should start with " + AppKeyPrefix)
	ErrBadAPIBase = errors.New("api base must start with http:// or https://")
)

// ValidateAppKey trims the key and checks the platform prefix.
func ValidateAppKey(appKey string) (string, error) {
	v := strings.TrimSpace(appKey)
	if !strings.HasPrefix(v, AppKeyPrefix) {
		return "", ErrBadAppKey
	}
	return v, nil
}

// NormalizeAPIBase trims whitespace and trailing slashes and requires
// an absolute http(s) URL.
func NormalizeAPIBase(apiBase string) (string, error) {
	v := strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
		return "", fmt.Errorf("%w: %q", ErrBadAPIBase, apiBase)
	}
	return v, nil
}
