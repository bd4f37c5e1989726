// Package common contains shared constants and sentinel errors used across
// auth-app components.
package common

// SessionCookieName is the cookie that carries the signed session token
// between the browser (or authctl) and the server.
const SessionCookieName = "token"

// EnvironmentProduction is the APP_ENV value that turns on secure cookies
// and JSON logs.
const EnvironmentProduction = "production"
