// Package cli provides the interactive ProtoDrive command-line client.
//
// It wires configuration, the session store, the API client and the
// application services, then runs a small REPL on stdin. Passwords are read
// without echo through golang.org/x/term.
//
// Commands:
//   - register / login / logout
//   - ls [id|path], mkdir <name> [parent-id]
//   - upload <local-path> [folder-id], download <file-id> <local-path>
//   - config, set <field> <true|false>, sort <field|none>
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// stdin is closed.
package cli
