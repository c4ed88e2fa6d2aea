// Package taxonomy fetches the remote form-field taxonomy and splits it
// into its requirement and condition groups.
//
// The taxonomy is an ordered list of entries, each carrying a name and a
// type. Order is significant end to end: the partition boundary is
// positional, and generated option tables preserve source order entry
// for entry.
package taxonomy

import "time"

const (
	// TypeCondition is the entry type that marks the start of the
	// conditions group. Everything before the first condition entry is
	// a requirement.
	TypeCondition = "condition"

	// DefaultTimeout is the default HTTP request timeout for taxonomy
	// fetches.
	DefaultTimeout = 30 * time.Second

	// DefaultQuery is the query sent when configuration supplies none.
	DefaultQuery = "query { taxonomy { name type } }"
)

// Entry is one taxonomy record. Name doubles as both the display label
// and the stored value of the generated option.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
