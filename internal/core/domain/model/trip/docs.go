// Package trip implements the Trip aggregate for line-haul vehicle movements.
//
// Two entry points share one transition table: NewOutboundTrip builds an
// already loaded hub-to-hub trip in IN_TRANSIT, and NewTrip starts an empty
// trip for manual point-to-point loading. Inbound trips finish either through
// ARRIVED, UNLOADING and INBOUND_COMPLETED with per-bag verification, or
// through the legacy RECEIVED and CLOSED markers.
package trip
