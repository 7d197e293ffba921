// Package cli provides the interactive gophtasks command-line client.
//
// It wires configuration, the HTTP API client and an interactive REPL. The
// login state is a single *api.Session held by App and handed to every API
// call; it lives only as long as the process.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - List, add, show, edit, complete and delete tasks
//   - Online status indicator in the prompt, refreshed in the background
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
