package config

import (
	"os"
	"strings"
)

// StaleRefreshGuard makes the sheets store drop a refresh response that resolves
// after a newer response for the same sheet was already applied.
//
// Set via env:
// - STALE_REFRESH_GUARD=false (reproduces last-resolved-wins)
//
// Defaults to enabled.
func StaleRefreshGuard() bool {
	return envBoolDefault("STALE_REFRESH_GUARD", true)
}

// XLSXExportEnabled toggles the /export endpoints of table views.
//
// Set via env:
// - ENABLE_XLSX_EXPORT=false
func XLSXExportEnabled() bool {
	return envBoolDefault("ENABLE_XLSX_EXPORT", true)
}

func envBoolDefault(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return def
	}
}
