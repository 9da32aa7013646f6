package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	expireSession()
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	MakeDir(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	ShowConfig(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = `Available commands:
  ls [id|path]                   list a folder (root by default)
  mkdir <name> [parent-id]       create a folder
  upload <local> [folder-id]     upload a file
  download <file-id> <local>     save a file locally
  config                         show display preferences
  set <field> <true|false>       change one preference
  sort <name|created_at|edited_at|none>
  logout, help, exit`
)

// runREPL reads one command per line from in until EOF, "exit" or "quit".
// Commands other than register, login and help need an active session.
// A failing command prints its error and the loop carries on. A 401 on an
// authenticated command ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "pd%s> ", statusFn())
		line, err := readLine(in)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}
			continue
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		case "register":
			cmdErr = a.Register(ctx)
			report(out, cmdErr)
			continue
		case "login":
			cmdErr = a.Login(ctx)
			report(out, cmdErr)
			continue
		}

		if !a.isLoggedIn() {
			if isKnown(cmd) {
				fmt.Fprintln(out, "Please log in first")
			} else {
				fmt.Fprintln(out, "Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			cmdErr = a.Logout(ctx)
		case "ls", "list":
			cmdErr = a.List(ctx, args)
		case "mkdir":
			cmdErr = a.MakeDir(ctx, args)
		case "upload":
			cmdErr = a.Upload(ctx, args)
		case "download":
			cmdErr = a.Download(ctx, args)
		case "config":
			cmdErr = a.ShowConfig(ctx)
		case "set":
			cmdErr = a.Set(ctx, args)
		case "sort":
			cmdErr = a.Sort(ctx, args)
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
		if sessionRejected(cmdErr) {
			a.expireSession()
			fmt.Fprintln(out, "Session expired, please log in again")
			continue
		}
		report(out, cmdErr)
	}
}

func isKnown(cmd string) bool {
	switch cmd {
	case "logout", "ls", "list", "mkdir", "upload", "download", "config", "set", "sort":
		return true
	}
	return false
}

func report(out io.Writer, err error) {
	if err != nil {
		fmt.Fprintln(out, "Error:", describe(err))
	}
}
