// Package ecode defines the business error codes returned in API error bodies
// and the short messages that accompany them.
//
// Codes mirror the HTTP status they are served with, negated:
//
//	ecode.RequestErr         // -400: Invalid request
//	ecode.NothingFound       // -404: Resource not found
//	ecode.MethodNotAllowed   // -405: Method not allowed
//	ecode.ServerErr          // -500: Internal server error
//	ecode.ServiceUnavailable // -503: Service unavailable
//
// Retrieve human-readable messages with Text:
//
//	message := ecode.Text(ecode.NothingFound)
//	// Returns: "Resource not found"
package ecode
