// Package scheduler drives periodic sync passes. Two tickers cooperate
// per identity: a short foreground interval while the app is interactive
// and a coarser background interval otherwise. Both funnel into the same
// reconciler entry point, which serializes overlapping passes per
// identity, so a slow or missed tick is harmless.
//
// The poller is explicit process state: identities are registered with
// Start and torn down with Stop; nothing reads an ambient singleton.
package scheduler
