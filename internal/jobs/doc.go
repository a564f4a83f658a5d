// Package jobs implements background processing for the Gatherly API.
//
// Jobs run independently of HTTP request handling, each on its own ticker
// with Start/Stop lifecycle management. Errors are logged but never crash
// the process.
package jobs
