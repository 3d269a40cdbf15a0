// Package client implements the platform-side consumers of the marketplace:
// an HTTP client for the catalog API and the per-package install/uninstall
// state machine. Install state is never cached across view activations; it is
// recomputed from the persisted settings collections on every load.
package client
