package ids

import "github.com/segmentio/ksuid"

// New returns a K-sortable unique id. Used for check-in record ids and
// archive object keys.
func New() string {
	return ksuid.New().String()
}
