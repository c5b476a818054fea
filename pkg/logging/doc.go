// Package logging provides subsystem-tagged structured logging for rollcall.
//
// It is a thin layer over log/slog. Every record carries a "subsystem" attribute
// so output from the credential store, the renewal coordinator and the HTTP
// pipeline can be told apart:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Coordinator", "renewal started")
//	logging.Debug("Transport", "replaying %s %s", req.Method, req.URL.Path)
//	logging.Error("CredentialStore", err, "failed to persist credentials")
//
// Security relevant events go through Audit, which tags them with an "event"
// attribute and the SECURITY_AUDIT prefix. Credential values are never logged.
package logging
