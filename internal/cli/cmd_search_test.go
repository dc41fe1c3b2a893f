package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func seedDemo(t *testing.T, cli *CLI) {
	t.Helper()

	_, stderr, code := cli.Run("seed")
	if code != 0 {
		t.Fatalf("seed failed (exit %d): %s", code, stderr)
	}
}

func TestSeedAndLs(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	seedDemo(t, cli)

	stdout, _, code := cli.Run("ls")
	if code != 0 {
		t.Fatalf("ls failed: %d", code)
	}

	for _, handle := range []string{"radiance-serum", "gentle-foam-cleanser", "hydra-moisturizer"} {
		if !strings.Contains(stdout, handle) {
			t.Errorf("ls output missing %q:\n%s", handle, stdout)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	seedDemo(t, cli)

	stdout, _, code := cli.Run("seed")
	if code != 0 {
		t.Fatalf("second seed failed: %d", code)
	}

	if !strings.Contains(stdout, "seeded 0 record(s), skipped 4 existing") {
		t.Errorf("expected all records skipped, got %q", stdout)
	}
}

func TestSearchCommand(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	seedDemo(t, cli)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "category and flag",
			args: []string{"search", "--category", "Serums", "--flag", "inStock=true", "--json"},
			want: []string{"radiance-serum"},
		},
		{
			name: "text match",
			args: []string{"search", "--text", "cleanser", "--json"},
			want: []string{"gentle-foam-cleanser"},
		},
		{
			name: "tags intersect",
			args: []string{"search", "--tag", "daily", "--json"},
			want: []string{"gentle-foam-cleanser", "hydra-moisturizer"},
		},
		{
			name: "no filters returns everything",
			args: []string{"search", "--json"},
			want: []string{"radiance-serum", "night-repair-serum", "gentle-foam-cleanser", "hydra-moisturizer"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, code := cli.Run(testCase.args...)
			if code != 0 {
				t.Fatalf("search failed (exit %d): %s", code, stderr)
			}

			var records []map[string]any
			if err := json.Unmarshal([]byte(stdout), &records); err != nil {
				t.Fatalf("search output is not a JSON array: %v\n%s", err, stdout)
			}

			var handles []string
			for _, rec := range records {
				handle, _ := rec["handle"].(string)
				handles = append(handles, handle)
			}

			if len(handles) != len(testCase.want) {
				t.Fatalf("expected handles %v, got %v", testCase.want, handles)
			}

			for i, want := range testCase.want {
				if handles[i] != want {
					t.Errorf("result %d: expected %q, got %q", i, want, handles[i])
				}
			}
		})
	}
}

func TestSearchBadFlagFilter(t *testing.T) {
	t.Parallel()

	cli := NewCLI(t)

	_, stderr, code := cli.Run("search", "--flag", "featured=maybe")
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}

	if !strings.Contains(stderr, "invalid --flag value") {
		t.Errorf("expected flag filter error, got %q", stderr)
	}
}
