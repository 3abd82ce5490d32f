// Package ports defines the outbound interfaces of the freight core.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import "context"

// Transport carries a single request to the brokerage backend and returns
// the decoded response document. Implementations own connection handling,
// serialization and status-code translation; callers only see a generic
// JSON object or an error.
type Transport interface {
	// Send issues an HTTP request with the given method and path. A nil
	// body means no request payload. The returned map is the decoded
	// JSON response body.
	Send(ctx context.Context, method string, path string, body map[string]any) (map[string]any, error)
}
