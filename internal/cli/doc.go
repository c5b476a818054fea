// Package cli holds the terminal side of rollcall: shared command flags,
// the session.Navigator used when a session ends, prompts, progress
// spinners and the translation of pipeline errors into actionable messages.
//
// Errors are grouped by what the user has to do next:
//   - AuthRequiredError: nothing is stored, log in.
//   - SessionEndedError: the stored session could not be renewed, log in again.
//   - AuthFailedError: the server rejected the login itself.
//   - ConnectionError: the server could not be reached (TLS, DNS, timeout, network).
package cli
