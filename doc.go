// Package main provides the entry point for the InnovaGrants-Admin application.
// It initializes and runs a web service using the Fiber framework that manages
// a grants/innovation-project competition: user accounts and roles, project
// submission, peer review, master-data catalogs, reports, and verification-code
// based registration. The application uses gorm with an embedded SQLite
// database for persistence and exposes its functionality as a JSON REST API.
package main
