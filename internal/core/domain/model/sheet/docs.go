// Package sheet implements the connection sheet aggregate used at sortation
// hubs to group bags bound for one destination.
//
// A sheet is CREATED by an operator, moves to IN_PROGRESS with its first bag,
// is CLOSED manually once non-empty and becomes DISPATCHED only as part of an
// outbound trip dispatch.
package sheet
