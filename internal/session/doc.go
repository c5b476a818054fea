// Package session implements the authenticated request pipeline.
//
// Transport is an http.RoundTripper placed in front of the real transport. For
// every request it:
//
//  1. attaches "Authorization: Bearer <access>" unless the path is public
//     (registration, login, renewal);
//  2. passes transport errors and non-401 responses through unchanged;
//  3. on a 401 from a protected endpoint joins or starts the single in-flight
//     credential renewal owned by the Coordinator, then replays the request
//     once with the new credential;
//  4. terminates the session (clears credentials, navigates to the landing
//     target) when renewal fails or a replayed request is rejected again.
//
// # Renewal Coordinator
//
// The Coordinator is a two state machine, Idle and Renewing. The first caller
// flips it to Renewing under the coordinator mutex before doing any I/O, so
// concurrent callers queue behind it instead of issuing their own renewal
// call. Queued callers are released in arrival order with the same outcome.
// The flip back to Idle happens in a deferred step and survives a panicking
// Renewer.
//
// # Usage
//
//	store, _ := credentials.NewFileStore(credentials.FileStoreConfig{})
//	terminator := session.NewTerminator(store, navigator)
//	renewer := session.NewHTTPRenewer(baseURL + session.DefaultRenewalPath)
//	coordinator := session.NewCoordinator(store, renewer, terminator)
//
//	transport, _ := session.NewTransport(session.TransportConfig{
//	    Store:       store,
//	    Classifier:  session.NewClassifier(session.DefaultPublicPaths...),
//	    Coordinator: coordinator,
//	    Terminator:  terminator,
//	})
//	client := &http.Client{Transport: transport}
package session
