package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"shelf/pkg/docstore"
)

var errBadFlagFilter = errors.New("invalid --flag value, expected name=true|false")

func cmdSearch(out io.Writer, errOut io.Writer, store *docstore.Store, args []string) int {
	flagSet := flag.NewFlagSet("search", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fprintf(flagSet.Output(), "Usage: shelf search [flags]\n\n")
		fprintf(flagSet.Output(), "Filter records. All given predicates must match.\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	text := flagSet.String("text", "", "Case-insensitive substring over title/handle/description")
	category := flagSet.String("category", "", "Exact category match")
	tags := flagSet.StringArray("tag", nil, "Tag to match, repeatable (any may match)")
	flagFilters := flagSet.StringArray("flag", nil, "Boolean field filter name=true|false, repeatable")
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

	flags, err := parseFlagFilters(*flagFilters)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	records, err := store.Search(docstore.Filter{
		Text:     *text,
		Category: *category,
		Tags:     *tags,
		Flags:    flags,
	})
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

// parseFlagFilters turns repeated name=true|false arguments into the filter
// map.
func parseFlagFilters(raw []string) (map[string]bool, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make(map[string]bool, len(raw))

	for _, pair := range raw {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errBadFlagFilter, pair)
		}

		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadFlagFilter, pair)
		}

		out[name] = parsed
	}

	return out, nil
}
