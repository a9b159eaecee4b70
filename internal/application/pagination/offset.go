package pagination

import (
	"net/url"
	"strconv"

	"github.com/victoragudo/hotel-management-system/console/internal/querycache"
)

// OffsetPager pages by a fixed limit and a tracked offset. Next is enabled only while the last page
// came back full; a short page disables it whatever the server says.
type OffsetPager struct {
	limit  int
	offset int

	loaded    bool
	lastCount int
	total     *int
}

func NewOffsetPager(limit int) *OffsetPager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &OffsetPager{limit: limit}
}

func (p *OffsetPager) Limit() int  { return p.limit }
func (p *OffsetPager) Offset() int { return p.offset }

// Total is the server count from the last page, when the endpoint reports one.
func (p *OffsetPager) Total() (int, bool) {
	if p.total == nil {
		return 0, false
	}
	return *p.total, true
}

func (p *OffsetPager) Key(resource string) querycache.Key {
	return querycache.Key{resource, p.limit, p.offset}
}

func (p *OffsetPager) Params() url.Values {
	return url.Values{
		"limit":  []string{strconv.Itoa(p.limit)},
		"offset": []string{strconv.Itoa(p.offset)},
	}
}

func (p *OffsetPager) Record(results int, _, _ *string, count *int) {
	p.loaded = true
	p.lastCount = results
	p.total = count
}

func (p *OffsetPager) HasNext() bool {
	if !p.loaded || p.lastCount < p.limit {
		return false
	}
	if p.total != nil && p.offset+p.limit >= *p.total {
		return false
	}
	return true
}

func (p *OffsetPager) HasPrevious() bool {
	return p.offset > 0
}

func (p *OffsetPager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.offset += p.limit
	p.loaded = false
	return true
}

func (p *OffsetPager) Previous() bool {
	if !p.HasPrevious() {
		return false
	}
	p.offset -= p.limit
	if p.offset < 0 {
		p.offset = 0
	}
	p.loaded = false
	return true
}

// Seek jumps to an arbitrary offset, clamped to zero.
func (p *OffsetPager) Seek(offset int) {
	p.offset = max(offset, 0)
	p.loaded = false
}

func (p *OffsetPager) Reset() {
	p.Seek(0)
	p.total = nil
}
