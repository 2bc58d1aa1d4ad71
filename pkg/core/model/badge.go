package model

import (
	"regexp"
	"strings"
)

// Badge numbers look like "HI1234GA0001": a two-letter area code, the
// four-digit center code, a GA/LA series marker and a four-digit serial.
var badgeNumberPattern = regexp.MustCompile(`^[A-Z]{2}\d{4}(GA|LA)\d{4}$`)

var centerCodeRun = regexp.MustCompile(`\d{4}`)

// IsWellFormedBadgeNumber reports whether the badge number matches the
// organization-issued format. Imports do not require this (legacy badges
// predate the format) but manual entry does.
func IsWellFormedBadgeNumber(badge string) bool {
	return badgeNumberPattern.MatchString(badge)
}

// AreaCodeFromBadge derives the area code from a badge number: its first two
// characters, uppercased. Returns "" when the badge is too short.
func AreaCodeFromBadge(badge string) string {
	badge = strings.ToUpper(strings.TrimSpace(badge))
	if len(badge) < 2 {
		return ""
	}
	return badge[:2]
}

// CenterCodeFromBadge derives the center code from a badge number: the first
// run of 4 digits. Returns "" when no such run exists. The derivation must
// stay byte-for-byte stable across releases so re-imports keep matching
// records created by earlier imports.
func CenterCodeFromBadge(badge string) string {
	return centerCodeRun.FindString(strings.TrimSpace(badge))
}

// NormalizeBadgeStatus maps arbitrary input to a BadgeStatus. Exactly
// "PERMANENT" and "OPEN" (after trimming and uppercasing) are kept; every
// other value, including empty and unrecognized strings such as "ACTIVE",
// becomes TEMPORARY. This is a closed classification: it cannot fail.
func NormalizeBadgeStatus(raw string) BadgeStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(BadgeStatusPermanent):
		return BadgeStatusPermanent
	case string(BadgeStatusOpen):
		return BadgeStatusOpen
	default:
		return BadgeStatusTemporary
	}
}
