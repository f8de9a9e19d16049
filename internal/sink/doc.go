// Package sink defines where rendered placements go.
//
// A render pass produces one Pass: every placement's record in registration
// order, stamped with a unique ID. Sinks receive the whole pass and decide how
// to present it (text lines, JSON lines, socket.io events). Broadcast hands a
// pass to several sinks at once and reports the first failure.
package sink
