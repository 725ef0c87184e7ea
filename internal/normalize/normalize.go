// Package normalize canonicalizes the natural keys arriving in spreadsheet
// exports before dimension resolution. All functions are pure; alias lookups
// are passed in as snapshots so a result depends only on its inputs.
package normalize

import "strings"

// FactoryCode trims and uppercases a raw factory code, then substitutes a
// known alias. Returns "" when no usable value remains.
func FactoryCode(raw string, aliases map[string]string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return ""
	}
	if canonical, ok := aliases[code]; ok {
		return canonical
	}
	return code
}

// EmployeeID trims a raw employee identifier and strips leading zeros, so
// "0042", "042" and "42" all collapse to "42". An all-zero input collapses to
// "0". Alias substitution applies to the post-strip value. Returns "" when no
// usable value remains.
//
// Collapsing variable zero-padding is an intentional cleansing rule: the
// source systems pad the same ID inconsistently, and distinct IDs that differ
// only in padding do not occur there.
func EmployeeID(raw string, aliases map[string]string) string {
	id := strings.TrimSpace(raw)
	if id == "" {
		return ""
	}

	id = strings.TrimLeft(id, "0")
	if id == "" {
		id = "0"
	}

	if canonical, ok := aliases[id]; ok {
		return canonical
	}
	return id
}
