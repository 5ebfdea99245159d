// Package kernel provides the primitives shared by the custody aggregates:
//   - UUID: identifier value object
//   - Actor: the operator identity passed into every custody operation
//   - NewCode / NormalizeCode: human-readable entity codes used by scanners
package kernel
