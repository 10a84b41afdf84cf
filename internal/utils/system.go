package utils

import (
	"os/user"
	"regexp"
	"strings"
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	repeatedHyphens  = regexp.MustCompile(`-+`)
)

// GetUsername returns the current OS username.
func GetUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// SanitizeUsername turns an arbitrary name into a valid vault user name by
// removing special characters and converting spaces to hyphens.
func SanitizeUsername(name string) string {
	// Windows usernames come back as DOMAIN\user.
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}

	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	name = invalidNameChars.ReplaceAllString(name, "")
	name = repeatedHyphens.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if name == "" {
		name = "default"
	}
	return name
}

// DefaultUsername returns the sanitized OS username, or "default".
func DefaultUsername() string {
	name, err := GetUsername()
	if err != nil {
		return "default"
	}
	return SanitizeUsername(name)
}
