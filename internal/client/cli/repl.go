package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Upload(ctx context.Context, kind, path string) error
	Paste(ctx context.Context, kind string) error
	Save(ctx context.Context) error
	Match(ctx context.Context) error
	Suggest(ctx context.Context) error
	Roadmap(ctx context.Context) error
	History(ctx context.Context) error
	Current(ctx context.Context) error
	Clear(ctx context.Context) error
}

var guestCommands = map[string]bool{
	"help": true, "signup": true, "login": true, "exit": true, "quit": true,
}

// runREPL reads one command per line and dispatches it to a.
// It returns on EOF or "exit"/"quit". Command errors are reported by the
// commands themselves and do not stop the loop.
//
//	Not logged in: help, signup, login, exit
//	Logged in:     help, me, upload <resume|jd> <path>, paste <resume|jd>,
//	               save, match, suggest, roadmap, history, current, clear,
//	               logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("resumatch %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !guestCommands[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first (type 'help' for commands)")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, upload <resume|jd> <path>, paste <resume|jd>, save, match, suggest, roadmap, history, current, clear, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "upload":
			if len(args) < 2 {
				printlnFn("Usage: upload <resume|jd> <path>")
				continue
			}
			_ = a.Upload(ctx, args[0], strings.Join(args[1:], " "))

		case "paste":
			if len(args) != 1 {
				printlnFn("Usage: paste <resume|jd>")
				continue
			}
			_ = a.Paste(ctx, args[0])

		case "save":
			_ = a.Save(ctx)

		case "match":
			_ = a.Match(ctx)

		case "suggest":
			_ = a.Suggest(ctx)

		case "roadmap":
			_ = a.Roadmap(ctx)

		case "history":
			_ = a.History(ctx)

		case "current":
			_ = a.Current(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
