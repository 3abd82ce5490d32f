// Package brokerapi wraps the aggregates with guarded remote operations
// against the brokerage backend. Every state-changing call checks its
// preconditions locally first: an illegal transition fails with a typed
// error and issues no request at all. A call that passes the gate issues
// exactly one request and rebuilds the aggregate from the response.
package brokerapi

import (
	"errors"
	"fmt"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// ErrRequestRejected is returned when the backend answers with a
// non-zero result code.
var ErrRequestRejected = errors.New("backend rejected the request")

// Filter narrows the load listings down by lifecycle.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterOpen   Filter = "open"
	FilterActive Filter = "active"
)

func (f Filter) Validate() error {
	switch f {
	case FilterAll, FilterOpen, FilterActive:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("filter",
		fmt.Errorf("%q is not a known load filter", string(f)))
}

// expandRoute substitutes :param placeholders in a route template.
func expandRoute(route string, params map[string]string) string {
	segments := strings.Split(route, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		if value, ok := params[segment[1:]]; ok {
			segments[i] = value
		}
	}
	return strings.Join(segments, "/")
}

// checkResult verifies the response envelope's result code.
func checkResult(document map[string]any) error {
	if document == nil {
		return ErrRequestRejected
	}
	code, ok := kernel.AsInteger(document["_result"])
	if !ok || code != 0 {
		return fmt.Errorf("%w: result %v", ErrRequestRejected, document["_result"])
	}
	return nil
}
