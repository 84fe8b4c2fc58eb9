// Package server exposes the route table over HTTP.
//
// Endpoints:
//
//	GET /resolve?path=/event/42         match a path
//	GET /reverse/:name?id=42&_anchor=x  generate a URL
//	GET /redirect/:name?id=42           302 to the generated URL
//	GET /routes[?testable=true]         list variants in match order
//	GET /healthz, /readyz, /metrics
package server
