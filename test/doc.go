// Package test contains helper functions for the module's tests. The Expect*
// functions report a failure and let the test continue. The Demand* functions
// stop the test immediately.
package test
