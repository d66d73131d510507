// Package api handles incoming HTTP requests, request validation and
// response formatting. It adapts the phrase, review and autofill services
// to the JSON API mounted under /api, translating service errors into
// status codes and safe client messages.
package api
