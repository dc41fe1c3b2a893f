package cli

import (
	"errors"
	"io"

	"shelf/pkg/docstore"
)

var errIDRequired = errors.New("record id or handle is required")

func cmdShow(out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: shelf show <id|handle>")
		fprintln(out, "")
		fprintln(out, "Print one record as JSON. Tries the id first, then the handle.")

		return 0
	}

	if len(args) == 0 || args[0] == "" {
		fprintln(errOut, "error:", errIDRequired)

		return 1
	}

	key := args[0]

	rec, ok, err := store.GetByID(key)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if !ok {
		rec, ok, err = store.GetByHandle(key)
		if err != nil {
			fprintln(errOut, "error:", err)

			return 1
		}
	}

	if !ok {
		fprintln(errOut, "not found:", key)

		return 1
	}

	printRecordJSON(out, rec)

	return 0
}
