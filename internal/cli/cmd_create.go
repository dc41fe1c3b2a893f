package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"shelf/pkg/docstore"
)

func cmdCreate(in io.Reader, out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	flagSet := flag.NewFlagSet("create", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fprintf(flagSet.Output(), "Usage: shelf create [-f <file>]\n\n")
		fprintf(flagSet.Output(), "Create a record from a JSON object (file or stdin).\n")
		fprintf(flagSet.Output(), "The id, createdAt and updatedAt fields are system-generated.\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	file := flagSet.StringP("file", "f", "", "JSON input file (default: stdin)")

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

	input, err := readRecordJSON(in, *file)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	created, err := store.Create(input)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	printRecordJSON(out, created)

	return 0
}
