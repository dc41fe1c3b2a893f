// Package cli implements the shelf command-line interface: catalog CRUD and
// search over a file-backed document store.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shelf/internal/catalog"
	"shelf/pkg/docstore"
)

const minArgs = 2

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	overrides := Config{DataFile: flags.dataFile}

	cfg, sources, err := LoadConfig(workDir, flags.configPath, overrides, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	// Resolve file locations to absolute paths
	if !filepath.IsAbs(cfg.DataFile) {
		cfg.DataFile = filepath.Join(workDir, cfg.DataFile)
	}

	if cfg.BackupDir != "" && !filepath.IsAbs(cfg.BackupDir) {
		cfg.BackupDir = filepath.Join(workDir, cfg.BackupDir)
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	rest := flags.remaining[1:]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage(out)

		return 0
	}

	if cmd == "print-config" {
		return cmdPrintConfig(out, cfg, sources)
	}

	store, err := newStore(cfg, errOut)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	switch cmd {
	case "ls":
		return cmdLs(out, errOut, store, rest)
	case "show":
		return cmdShow(out, errOut, store, rest)
	case "create":
		return cmdCreate(in, out, errOut, store, rest)
	case "update":
		return cmdUpdate(in, out, errOut, store, rest)
	case "rm":
		return cmdRm(out, errOut, store, rest)
	case "search":
		return cmdSearch(out, errOut, store, rest)
	case "bulk-update":
		return cmdBulkUpdate(in, out, errOut, store, rest)
	case "seed":
		return cmdSeed(out, errOut, store, rest)
	case "shell":
		return cmdShell(out, errOut, store, env, rest)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}
}

// newStore builds the product store from the resolved config. Store
// warnings (skipped records, backup failures) go to stderr as structured
// log lines.
func newStore(cfg Config, errOut io.Writer) (*docstore.Store, error) {
	logger := slog.New(slog.NewTextHandler(errOut, nil))

	return docstore.New(docstore.Options{
		Path:         cfg.DataFile,
		BackupDir:    cfg.BackupDir,
		MaxBackups:   cfg.MaxBackups,
		BackupPrefix: strings.TrimSuffix(filepath.Base(cfg.DataFile), ".json"),
		Schema:       catalog.Schema(),
		Search:       catalog.SearchConfig(),
		Logger:       logger,
	})
}

type globalFlags struct {
	workDir    string
	configPath string
	dataFile   string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	i := 0

	for i < len(args) {
		arg := args[i]

		consume := func(name string) (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s requires an argument", name)
			}

			i += 2

			return args[i-1], nil
		}

		var err error

		switch arg {
		case "-C", "--dir":
			flags.workDir, err = consume(arg)
		case "--config":
			flags.configPath, err = consume(arg)
		case "--data-file":
			flags.dataFile, err = consume(arg)
		default:
			flags.remaining = args[i:]

			return flags, nil
		}

		if err != nil {
			return globalFlags{}, err
		}
	}

	return flags, nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}

	return false
}

func printUsage(w io.Writer) {
	fprintln(w, "shelf - file-backed product catalog store")
	fprintln(w, "")
	fprintln(w, "Usage: shelf [global flags] <command> [args]")
	fprintln(w, "")
	fprintln(w, "Commands:")
	fprintln(w, "  ls                     List catalog records")
	fprintln(w, "  show <id|handle>       Show one record as JSON")
	fprintln(w, "  create                 Create a record from JSON (-f file or stdin)")
	fprintln(w, "  update <id>            Patch a record with JSON (-f file or stdin)")
	fprintln(w, "  rm <id>                Delete a record")
	fprintln(w, "  search                 Filter records (--text, --category, --tag, --flag)")
	fprintln(w, "  bulk-update            Patch several records (--id, repeatable)")
	fprintln(w, "  seed                   Populate demo catalog data")
	fprintln(w, "  shell                  Interactive shell")
	fprintln(w, "  print-config           Show resolved configuration")
	fprintln(w, "")
	fprintln(w, "Global flags:")
	fprintln(w, "  -C, --dir <path>       Working directory")
	fprintln(w, "  --config <path>        Explicit config file")
	fprintln(w, "  --data-file <path>     Override data file location")
}
