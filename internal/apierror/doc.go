// Package apierror classifies errors returned by the model-listing and
// issue-tracker APIs. Both report failures as wrapped strings carrying the
// HTTP status and the server's message, so the checks live in one place
// instead of string matching scattered through the callers.
package apierror
