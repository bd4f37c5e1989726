// Package client talks to the auth API over HTTP.
//
// HTTPClient keeps the session cookie in a cookie jar, so once Signup or
// Login succeeds every following call is made as that account until Logout.
//
// # Error Handling
//
// Failed calls return *APIError carrying the server's status and message.
// Callers match conditions with errors.Is: ErrUnauthorized, ErrNotFound,
// ErrBadRequest, and ErrUnavailable when the server could not be reached.
package client
