package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/projecthub/internal/client/client"
)

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Update(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) error
	Download(ctx context.Context, ref string) error

	Users(ctx context.Context) error
	AddUser(ctx context.Context) error

	Stats(ctx context.Context) error
}

// commands that need a session
var protected = map[string]bool{
	"logout": true, "l": true, "list": true, "show": true, "create": true, "update": true,
	"delete": true, "summary": true, "download": true, "users": true, "adduser": true,
}

// runREPL reads commands from reader until "exit", "quit" or end of input.
//
// Command errors are rendered for the user. An expired session sends the
// user straight to the login prompt.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer, statusFn func() string) {
	for {
		fmt.Fprintf(w, "pms %s> ", statusFn())
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(w, "Bye!")
			return
		}

		if err := dispatch(ctx, a, w, cmd, args); err != nil {
			renderError(w, err)
			if errors.Is(err, client.ErrUnauthorized) {
				if err := a.Login(ctx); err != nil {
					renderError(w, err)
				}
			}
		}
	}
}

func dispatch(ctx context.Context, a execIface, w io.Writer, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp(w, a.isLoggedIn(), a.isAdmin())
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "stats":
		return a.Stats(ctx)
	}

	if protected[cmd] && !a.isLoggedIn() {
		fmt.Fprintln(w, "Please log in first.")
		return nil
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "l", "list":
		return a.List(ctx)
	case "summary":
		return a.Summary(ctx)
	case "create":
		return a.Create(ctx)
	case "users":
		return a.Users(ctx)
	case "adduser":
		return a.AddUser(ctx)
	case "show", "update", "delete", "download":
		if len(args) != 1 {
			fmt.Fprintf(w, "Usage: %s <%s>\n", cmd, argName(cmd))
			return nil
		}
		switch cmd {
		case "show":
			return a.Show(ctx, args[0])
		case "update":
			return a.Update(ctx, args[0])
		case "delete":
			return a.Delete(ctx, args[0])
		default:
			return a.Download(ctx, args[0])
		}
	default:
		fmt.Fprintln(w, "Unknown command:", cmd)
		return nil
	}
}

func argName(cmd string) string {
	if cmd == "download" {
		return "attachment"
	}
	return "id"
}

func printHelp(w io.Writer, loggedIn, admin bool) {
	switch {
	case !loggedIn:
		fmt.Fprintln(w, "Available commands: register, login, stats, help, exit")
	case admin:
		fmt.Fprintln(w, "Available commands: (l)ist, show <id>, create, update <id>, delete <id>, summary, download <attachment>, users, adduser, stats, logout, help, exit")
	default:
		fmt.Fprintln(w, "Available commands: (l)ist, show <id>, update <id>, summary, download <attachment>, stats, logout, help, exit")
	}
}
