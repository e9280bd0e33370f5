// Package ids generates sortable identifiers for stored media objects.
package ids

import "github.com/segmentio/ksuid"

// New returns a new k-sortable id. Object keys built from these sort by
// creation time inside a bucket listing.
func New() string {
	return ksuid.New().String()
}
