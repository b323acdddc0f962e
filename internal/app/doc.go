// Package app contains the core application logic. It wires the document
// loader, the component catalog and the session layer together and runs them
// either once from the command line or as a long-lived Socket.IO server,
// decoupled from any specific entrypoint like a CLI.
package app
