package errors

import (
	"regexp"
	"unicode"
)

// maxNodeIDLength bounds node identifiers accepted from hosts.
const maxNodeIDLength = 512

// ValidateNodeID validates a node identifier.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 512 bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateLayoutType validates a layout type name against the supported set.
func ValidateLayoutType(name string, valid map[string]bool) error {
	if !valid[name] {
		return New(ErrCodeInvalidLayout, "unknown layout type: %q", name)
	}
	return nil
}

// ValidateSizeBy validates a node sizing metric name against the supported set.
func ValidateSizeBy(name string, valid map[string]bool) error {
	if !valid[name] {
		return New(ErrCodeInvalidSizeBy, "unknown node size metric: %q", name)
	}
	return nil
}

// hexColorRegex matches #rgb, #rrggbb and #rrggbbaa colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor validates a CSS hex color used in entity type overrides.
func ValidateColor(color string) error {
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", color)
	}
	return nil
}
