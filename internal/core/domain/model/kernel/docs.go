// Package kernel provides the primitives shared by every aggregate of the
// helper matching domain.
//
// The package includes:
//   - UUID: identifier value object with validation and comparison
//   - Actor: who performs an operation, with the opaque authorization decision
//     (role plus permission booleans) handed over by the transport layer
//   - Money helpers for amounts kept as int64 in the smallest currency unit
package kernel
