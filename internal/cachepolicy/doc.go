// Package cachepolicy decides, for one resource snapshot and one set of
// request validators, whether the client gets a full body or a 304, and which
// headers establish its future caching behavior. Evaluate is pure: it performs
// no I/O and holds no state, so the dispatcher can call it from any goroutine.
package cachepolicy
