package ports

import "context"

// Transport issues one authenticated REST call. body is marshalled as JSON when non-nil; out is
// decoded from the response when non-nil.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any) error
}
