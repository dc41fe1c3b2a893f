package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"shelf/pkg/docstore"
)

func cmdLs(out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	flagSet := flag.NewFlagSet("ls", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fprintf(flagSet.Output(), "Usage: shelf ls [flags]\n\nList catalog records in collection order.\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	asJSON := flagSet.Bool("json", false, "Output records as a JSON array")

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

	records, err := store.List()
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if *asJSON {
		printRecordsJSON(out, records)
	} else {
		printRecordTable(out, records)
	}

	return 0
}
