// Package server exposes the Souk marketplace over HTTP.
// It wires the read-only catalog endpoints, the pre-shared-key gated write
// endpoints and the static asset delivery route onto a gin engine, translating
// domain errors into the client-facing status taxonomy. No raw internal error
// ever reaches a client.
package server
