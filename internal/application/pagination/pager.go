// Package pagination tracks the position of a list page for the two paging families the API exposes:
// offset/limit and server-issued cursors.
package pagination

import (
	"net/url"

	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

const DefaultLimit = 10

// Pager is the position of one list page. The pagination parameters are part of the cache key, so
// every page is cached independently.
type Pager interface {
	Key(resource string) querycache.Key
	Params() url.Values
	// Record feeds back the outcome of the page just loaded.
	Record(results int, next, previous *string, count *int)
	HasNext() bool
	HasPrevious() bool
	Next() bool
	Previous() bool
	Reset()
}
