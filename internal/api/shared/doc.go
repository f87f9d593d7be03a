// Package shared holds the request decoding, validation, response writing and
// trace-ID helpers used by the handlers and middleware of package api.
package shared
