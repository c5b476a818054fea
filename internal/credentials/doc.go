// Package credentials holds the access/refresh credential pair of the current
// session.
//
// A Store keeps at most one Pair. FileStore persists it as a single JSON
// record under a fixed key:
//
//	~/.config/rollcall/credentials/tokens.json
//	{"access": "...", "refresh": "..."}
//
// The file is written with 0600 permissions inside a 0700 directory. Reading a
// malformed or half-populated record never fails: the record is discarded and
// the session is treated as unauthenticated.
//
// Credential values are never logged. Only paths and event names appear in the
// SECURITY_AUDIT log lines.
package credentials
