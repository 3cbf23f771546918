package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	List(ctx context.Context) error
	ChangeDir(ctx context.Context, args []string) error
	Up(ctx context.Context) error
	Pwd(ctx context.Context) error
	Upload(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	BloodPressure(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + ":" + a.nav.Current()
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root starts the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	fmt.Println("HealthPod CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers log their
// own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hp %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)s, cd <dir>, up, pwd, upload <path>, download <name> [target], rm <name>, bp ..., profile ..., ping, logout, exit")
			} else {
				printlnFn("Available commands: register, login, ping, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "ping":
			_ = a.Ping(ctx)

		case "l", "ls", "list":
			_ = a.List(ctx)

		case "cd":
			_ = a.ChangeDir(ctx, args)

		case "up":
			_ = a.Up(ctx)

		case "pwd":
			_ = a.Pwd(ctx)

		case "upload":
			_ = a.Upload(ctx, args)

		case "download":
			_ = a.Download(ctx, args)

		case "rm":
			_ = a.Remove(ctx, args)

		case "bp":
			_ = a.BloodPressure(ctx, args)

		case "profile":
			_ = a.Profile(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
