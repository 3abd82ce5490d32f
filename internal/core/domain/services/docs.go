// Package services provides domain services that operate across aggregates
// in the freight system. It implements business logic that doesn't naturally
// belong to a single aggregate root.
//
// The package includes:
//   - Distance: great-circle distance between positions
//   - MovementClassifier: deriving movement states from the distance to a stop
package services
