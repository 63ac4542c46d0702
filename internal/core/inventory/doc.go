// Package inventory reconciles per-client compose definitions against the
// live container runtime and dispatches operator actions on single services.
//
// Nothing is cached between calls: every reconciliation reads the compose
// file and queries the runtime afresh.
package inventory
