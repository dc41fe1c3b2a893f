package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"shelf/pkg/docstore"
)

// shellCommands are the commands offered to the liner completer.
var shellCommands = []string{ //nolint:gochecknoglobals // package-level constant
	"ls", "show", "search", "rm", "seed", "help", "exit", "quit",
}

func cmdShell(out io.Writer, errOut io.Writer, store *docstore.Store, env map[string]string, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: shelf shell")
		fprintln(out, "")
		fprintln(out, "Interactive catalog shell. Type 'help' inside for commands.")

		return 0
	}

	shell := &shell{out: out, errOut: errOut, store: store, env: env}

	err := shell.run()
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	return 0
}

// shell is the interactive command loop.
type shell struct {
	out    io.Writer
	errOut io.Writer
	store  *docstore.Store
	env    map[string]string
	liner  *liner.State
}

// historyFile returns the path to the shell history file.
func (s *shell) historyFile() string {
	if home := s.env["HOME"]; home != "" {
		return filepath.Join(home, ".shelf_history")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".shelf_history")
}

func (s *shell) run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(func(line string) []string {
		var out []string

		for _, cmd := range shellCommands {
			if strings.HasPrefix(cmd, strings.ToLower(line)) {
				out = append(out, cmd)
			}
		}

		return out
	})

	if f, err := os.Open(s.historyFile()); err == nil {
		_, _ = s.liner.ReadHistory(f)
		_ = f.Close()
	}

	fprintln(s.out, "shelf - catalog shell")
	fprintln(s.out, "Type 'help' for available commands.")
	fprintln(s.out, "")

	for {
		line, err := s.liner.Prompt("shelf> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fprintln(s.out, "\nBye!")

				break
			}

			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		rest := parts[1:]

		if cmd == "exit" || cmd == "quit" || cmd == "q" {
			fprintln(s.out, "Bye!")

			break
		}

		s.dispatch(cmd, rest)
	}

	s.saveHistory()

	return nil
}

func (s *shell) dispatch(cmd string, args []string) {
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "ls", "list":
		_ = cmdLs(s.out, s.errOut, s.store, args)
	case "show", "get":
		_ = cmdShow(s.out, s.errOut, s.store, args)
	case "search", "find":
		_ = cmdSearch(s.out, s.errOut, s.store, args)
	case "rm", "del", "delete":
		_ = cmdRm(s.out, s.errOut, s.store, args)
	case "seed":
		_ = cmdSeed(s.out, s.errOut, s.store, args)
	default:
		fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
}

func (s *shell) printHelp() {
	fprintln(s.out, "Commands:")
	fprintln(s.out, "  ls [--json]                List records")
	fprintln(s.out, "  show <id|handle>           Show one record")
	fprintln(s.out, "  search [flags]             Filter records (--text, --category, --tag, --flag)")
	fprintln(s.out, "  rm <id>                    Delete a record")
	fprintln(s.out, "  seed                       Populate demo data")
	fprintln(s.out, "  exit / quit / q            Leave the shell")
}

// saveHistory persists command history to disk.
func (s *shell) saveHistory() {
	path := s.historyFile()
	if path == "" {
		return
	}

	f, err := os.Create(path) //nolint:gosec // history lives in the user's home
	if err != nil {
		return
	}

	_, _ = s.liner.WriteHistory(f)
	_ = f.Close()
}
