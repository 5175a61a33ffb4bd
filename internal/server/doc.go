// Package server exposes the preprocessing pipeline over HTTP.
//
// Routes:
//
//	POST /v1/prepare?format=json|yaml&refresh=  input graph JSON → prepared result
//	POST /v1/render?format=dot|svg&detailed=    input graph JSON → diagram
//	GET  /healthz                               liveness and version
//	GET  /metrics                               Prometheus exposition
//
// Every response carries an X-Request-ID header, echoing the caller's value
// when one was sent. Errors are JSON objects {"code": ..., "message": ...}
// whose status follows the error code.
package server
