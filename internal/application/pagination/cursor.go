package pagination

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

// CursorPager pages strictly by the cursors the server returned. Result counts are never used to
// guess whether more pages exist.
type CursorPager struct {
	limit  int
	cursor string

	next     *string
	previous *string
}

func NewCursorPager(limit int) *CursorPager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &CursorPager{limit: limit}
}

func (p *CursorPager) Cursor() string { return p.cursor }

func (p *CursorPager) Key(resource string) querycache.Key {
	return querycache.Key{resource, p.limit, p.cursor}
}

// Params forwards the cursor. A cursor that is a full next/previous link contributes its query
// parameters instead.
func (p *CursorPager) Params() url.Values {
	params := url.Values{"limit": []string{strconv.Itoa(p.limit)}}
	if p.cursor == "" {
		return params
	}
	if i := strings.IndexByte(p.cursor, '?'); i >= 0 {
		if linked, err := url.ParseQuery(p.cursor[i+1:]); err == nil {
			for name, values := range linked {
				params[name] = values
			}
			return params
		}
	}
	params.Set("cursor", p.cursor)
	return params
}

func (p *CursorPager) Record(_ int, next, previous *string, _ *int) {
	p.next = next
	p.previous = previous
}

func (p *CursorPager) HasNext() bool     { return p.next != nil && *p.next != "" }
func (p *CursorPager) HasPrevious() bool { return p.previous != nil && *p.previous != "" }

func (p *CursorPager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.move(*p.next)
	return true
}

func (p *CursorPager) Previous() bool {
	if !p.HasPrevious() {
		return false
	}
	p.move(*p.previous)
	return true
}

func (p *CursorPager) move(cursor string) {
	p.cursor = cursor
	p.next, p.previous = nil, nil
}

func (p *CursorPager) Reset() {
	p.move("")
}
