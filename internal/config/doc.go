// Package config provides configuration management for rollcall.
//
// Configuration is loaded from config.yaml in a single directory. The default
// directory is ~/.config/rollcall; it can be changed with the --config-path
// flag or the ROLLCALL_CONFIG_PATH environment variable. A missing file is
// not an error: the defaults apply.
//
// # Configuration File
//
//	server:
//	  baseURL: http://127.0.0.1:8000/
//	  timeout: 30s
//	session:
//	  storageDir: ~/.config/rollcall/credentials
//	  storageKey: tokens
//	  renewalTimeout: 30s   # 0s waits for the renewal call indefinitely
//	  landing: /
//	endpoints:
//	  register: /api/v1/accounts/register/
//	  token: /api/v1/accounts/token/
//	  refresh: /api/v1/accounts/token/refresh/
//	  logout: /api/v1/accounts/logout/
//
// Values in the file override the defaults field by field. ROLLCALL_SERVER
// overrides server.baseURL after the file is read.
package config
