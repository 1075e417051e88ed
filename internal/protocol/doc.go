// Package protocol implements the wire envelope codec.
//
// Envelopes are UTF-8 JSON objects with a "type" discriminator (join | review |
// system | error). Field names are the external contract shared with the web clients
// and must not be renamed. Decode failures are sentinel errors so the session handler
// can report them back to the offending connection instead of dropping it.
package protocol
