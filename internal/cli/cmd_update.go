package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"shelf/pkg/docstore"
)

func cmdUpdate(in io.Reader, out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	flagSet := flag.NewFlagSet("update", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fprintf(flagSet.Output(), "Usage: shelf update <id> [-f <file>]\n\n")
		fprintf(flagSet.Output(), "Merge a JSON patch over the record with the given id.\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	file := flagSet.StringP("file", "f", "", "JSON patch file (default: stdin)")

	if hasHelpFlag(args) {
		flagSet.SetOutput(out)
		flagSet.Usage()

		return 0
	}

	parseErr := flagSet.Parse(args)
	if parseErr != nil {
		fprintln(errOut, "error:", parseErr)

		return 1
	}

	if flagSet.NArg() == 0 || flagSet.Arg(0) == "" {
		fprintln(errOut, "error:", errIDRequired)

		return 1
	}

	id := flagSet.Arg(0)

	patch, err := readRecordJSON(in, *file)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	updated, ok, err := store.Update(id, patch)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if !ok {
		fprintln(errOut, "not found:", id)

		return 1
	}

	printRecordJSON(out, updated)

	return 0
}
