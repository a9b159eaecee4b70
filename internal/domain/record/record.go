// Package record mirrors the records served by the hotels and bookings APIs.
//
// Every record type has a sibling Input type. Inputs carry only writable fields, so server-computed
// values (ids, counts, aggregates, timestamps) cannot end up in a create or update payload.
package record

// Identifiable is implemented by every record so cached lists can be edited by id.
type Identifiable interface {
	Identifier() string
}

// Page is the envelope of paginated endpoints. Offset/limit endpoints fill Count, cursor
// endpoints fill Next and Previous; some fill all three.
type Page[T any] struct {
	Results  []T     `json:"results"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Count    *int    `json:"count,omitempty"`
}

// Without returns a copy of the page minus the item with the given id. The receiver is not modified.
func Without[T Identifiable](page Page[T], id string) (Page[T], bool) {
	results := make([]T, 0, len(page.Results))
	removed := false
	for _, item := range page.Results {
		if item.Identifier() == id {
			removed = true
			continue
		}
		results = append(results, item)
	}

	out := page
	out.Results = results
	if removed && page.Count != nil {
		count := *page.Count - 1
		out.Count = &count
	}
	return out, removed
}
