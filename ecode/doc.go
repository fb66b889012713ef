// Package ecode defines the business error codes carried in API error bodies,
// their messages, and their HTTP status mapping.
//
// # Error Code Convention
//
// Codes are negative and mirror the HTTP status they map to:
//
//	ecode.RequestErr         // -400: Invalid request
//	ecode.NothingFound       // -404: Resource not found
//	ecode.Expired            // -410: Resource expired
//	ecode.EntityTooLarge     // -413: Request entity too large
//	ecode.ServerErr          // -500: Internal server error
//	ecode.ServiceUnavailable // -503: Service unavailable
//
// # Getting Error Messages
//
//	message := ecode.Text(ecode.NothingFound)
//	status := ecode.ToHTTPStatus(ecode.NothingFound) // 404
package ecode
