package querycache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key addresses a cached query: a resource name followed by its parameters, e.g.
// Key{"bookings", 10, 0} or Key{"facilityDetail", "7"}. Keys are compared element-wise by
// their JSON encoding, so Key{"bookings", 10} and Key{"bookings", int64(10)} are the same query.
type Key []any

func (k Key) parts() []string {
	parts := make([]string, len(k))
	for i, part := range k {
		b, err := json.Marshal(part)
		if err != nil {
			parts[i] = fmt.Sprintf("%q", fmt.Sprint(part))
			continue
		}
		parts[i] = string(b)
	}
	return parts
}

// String is the canonical encoding used as the storage key.
func (k Key) String() string {
	return "[" + strings.Join(k.parts(), ",") + "]"
}

func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	own, want := k.parts(), prefix.parts()
	for i := range want {
		if own[i] != want[i] {
			return false
		}
	}
	return true
}

// Resource is the first element of the key when it is a string.
func (k Key) Resource() string {
	if len(k) == 0 {
		return ""
	}
	name, _ := k[0].(string)
	return name
}
