// Package bus connects the launcher to the host message bus over a
// websocket. It translates intent envelopes into engine calls and carries
// dialog, question, and acknowledgement traffic back the other way.
//
// The client keeps a single in-order consumer for intents so overlapping
// voice requests cannot interleave their confirmation dialogs, and it
// reconnects with capped exponential backoff when the bus drops.
package bus
