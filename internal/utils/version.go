package utils

import (
	"github.com/hashicorp/go-version"
)

/**
 * Format an optional version for display
 * @param {*version.Version} v - Version or nil
 * @returns {string} Original text of the version, "-" for nil
 */
func FormatVersion(v *version.Version) string {
	if v == nil {
		return "-"
	}
	return v.Original()
}

/**
 * Check whether the catalog offers a newer version than the installed one
 * @param {string} installed - Installed version text
 * @param {string} latest - Catalog version text
 * @returns {bool} True when both parse and latest is greater
 * @example
 * UpdateAvailable("1.0.0", "1.1.0") // true
 * UpdateAvailable("", "1.1.0")      // false
 */
func UpdateAvailable(installed, latest string) bool {
	iv, err := version.NewVersion(installed)
	if err != nil {
		return false
	}
	lv, err := version.NewVersion(latest)
	if err != nil {
		return false
	}
	return lv.GreaterThan(iv)
}
