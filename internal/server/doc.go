// Package server hosts the Fiber HTTP service: the immutable route table built
// from config, the request-id and route lookup middleware, and the dispatcher
// that turns a resource read plus a cache decision into a 200, 304 or 404.
// Diagnostics endpoints live under the reserved /-/ prefix and are registered
// by the routes subpackage after NewApp returns.
package server
