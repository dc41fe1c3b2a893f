package cli

import (
	"io"

	"shelf/pkg/docstore"
)

func cmdRm(out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: shelf rm <id>")
		fprintln(out, "")
		fprintln(out, "Delete the record with the given id. Deleting a missing id is not")
		fprintln(out, "an error; the command reports which case occurred.")

		return 0
	}

	if len(args) == 0 || args[0] == "" {
		fprintln(errOut, "error:", errIDRequired)

		return 1
	}

	id := args[0]

	deleted, err := store.Delete(id)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if deleted {
		fprintln(out, "deleted:", id)
	} else {
		fprintln(out, "not found:", id)
	}

	return 0
}
