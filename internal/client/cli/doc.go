// Package cli provides authctl, an interactive command-line client for the
// auth API.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Commands prompt for their input; passwords are read without echo and
// wiped after use. The session lives in the client's cookie jar for the
// lifetime of the process.
package cli
