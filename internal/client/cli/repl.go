package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Update(ctx context.Context) error
	Delete(ctx context.Context) error
	Export(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Command errors are printed and the loop continues. It exits on EOF or
// "exit"/"quit".
//
//	Not logged in:  help, register, login, exit
//	Logged in:      help, (l)ist, add, update, delete, export, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "journal %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: (l)ist, add, update, delete, export, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "l", "list", "add", "update", "delete", "export":
			if !a.isLoggedIn() {
				fmt.Fprintln(w, "Please login first")
				continue
			}
			switch cmd {
			case "l", "list":
				cmdErr = a.List(ctx)
			case "add":
				cmdErr = a.Add(ctx)
			case "update":
				cmdErr = a.Update(ctx)
			case "delete":
				cmdErr = a.Delete(ctx)
			case "export":
				cmdErr = a.Export(ctx)
			}

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintf(w, "Error: %v\n", cmdErr)
		}
	}
}
