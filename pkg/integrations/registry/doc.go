// Package registry provides a client for the package registry REST API.
//
// The registry exposes a paginated node listing with download counts and
// publisher metadata that the GitHub side of the pipeline cannot supply.
// Pagination uses limit/page query parameters and the response reports
// totalPages; the client walks all pages with a short courtesy delay.
//
// A transport failure mid-walk ends pagination early. The partial result
// is still returned so the run can proceed with whatever was fetched.
package registry
