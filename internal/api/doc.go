// Package api exposes the user and account services over HTTP. It owns the
// chi router, request decoding and validation, and the mapping of service
// errors to status codes and JSON error bodies.
package api
