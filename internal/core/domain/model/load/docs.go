// Package load models the freight order itself: the aggregate a shipper
// posts, a driver accepts and moves, and the broker settles. The numeric
// state machine is wire-preserved and deliberately sparse; see State.
package load
