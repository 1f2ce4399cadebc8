// Package http contains the HTTP transport layer: chi handlers exposing the
// computed metrics report, a refresh endpoint that re-runs the pipeline, and
// a health endpoint. Handlers translate service results into JSON responses
// and route every failure through the shared RFC 7807 error handler.
package http
