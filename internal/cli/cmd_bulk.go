package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"shelf/pkg/docstore"
)

var errNoIDs = errors.New("at least one --id is required")

func cmdBulkUpdate(in io.Reader, out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	flagSet := flag.NewFlagSet("bulk-update", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fprintf(flagSet.Output(), "Usage: shelf bulk-update --id <id> [--id <id> ...] [-f <file>]\n\n")
		fprintf(flagSet.Output(), "Apply the same JSON patch to every given id. Ids without a\n")
		fprintf(flagSet.Output(), "matching record are skipped; the output lists only the records\n")
		fprintf(flagSet.Output(), "that were actually updated.\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	ids := flagSet.StringArray("id", nil, "Record id, repeatable")
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

	if len(*ids) == 0 {
		fprintln(errOut, "error:", errNoIDs)

		return 1
	}

	patch, err := readRecordJSON(in, *file)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	updated, err := store.BulkUpdate(*ids, patch)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	printRecordsJSON(out, updated)

	return 0
}
