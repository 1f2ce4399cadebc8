// Package services contains the application service layer. AnalyticsService
// orchestrates one pipeline run (parse, clean, aggregate), records process
// metrics about it, and caches the latest report for the HTTP transport.
package services
