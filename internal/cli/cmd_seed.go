package cli

import (
	"errors"
	"io"

	flag "github.com/spf13/pflag"

	"shelf/internal/catalog"
	"shelf/pkg/docstore"
)

func cmdSeed(out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	flagSet := flag.NewFlagSet("seed", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fprintf(flagSet.Output(), "Usage: shelf seed\n\n")
		fprintf(flagSet.Output(), "Create the demo catalog records. Records whose handle already\n")
		fprintf(flagSet.Output(), "exists are left untouched.\n")
	}

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

	created, skipped := 0, 0

	for _, input := range catalog.Demo() {
		rec, err := store.Create(input)

		var dup *docstore.DuplicateHandleError
		if errors.As(err, &dup) {
			skipped++

			continue
		}

		if err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}

		created++

		fprintln(out, "created:", rec.ID(), rec.Handle())
	}

	fprintf(out, "seeded %d record(s), skipped %d existing\n", created, skipped)

	return 0
}
