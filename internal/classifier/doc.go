// Package classifier is the HTTP client for the scam classification API.
//
// A request is a JSON POST of model.ScanRequest to the configured endpoint;
// a 2xx response carries a model.ScanResult. Every failure, whether a
// transport error, a non-2xx status or an undecodable body, is reported as a
// *NetworkError so callers can inspect the status code with errors.As.
//
// Requests can optionally be routed through a SOCKS5 proxy.
package classifier
