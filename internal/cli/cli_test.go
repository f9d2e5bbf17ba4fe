package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sectiongrid/internal/reorder"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config at an empty temp file location and returns a fresh workspace dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("SECTIONGRID_CONFIG", filepath.Join(t.TempDir(), "config.toml"))
	t.Setenv("SECTIONGRID_DIR", "")
	return filepath.Join(t.TempDir(), "ws")
}

func mustRun(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("command failed: sectiongrid %v\nerr: %v\nstderr:\n%s", args, err, string(stderr))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, string(stdout))
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected data key; got: %v", env)
	}
	return env
}

func boardPayloads(t *testing.T, board any) [][]string {
	t.Helper()
	m, ok := board.(map[string]any)
	if !ok {
		t.Fatalf("expected board object, got %#v", board)
	}
	secs, _ := m["sections"].([]any)
	out := make([][]string, 0, len(secs))
	for _, s := range secs {
		cells, _ := s.([]any)
		ps := []string{}
		for _, c := range cells {
			cm, _ := c.(map[string]any)
			if ph, _ := cm["placeholder"].(bool); ph {
				t.Fatalf("unexpected placeholder in board output: %#v", board)
			}
			p, _ := cm["payload"].(string)
			ps = append(ps, p)
		}
		out = append(out, ps)
	}
	return out
}

func TestShow_FallsBackToSeed(t *testing.T) {
	dir := isolate(t)
	env := mustRun(t, "--dir", dir, "show")
	want := [][]string{{"0A", "0B", "0C", "0D", "0E"}, {"1A", "2B"}, {"2A", "2C", "3C"}}
	if got := boardPayloads(t, env["data"]); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "init")
	if _, _, err := runCLI(t, []string{"--dir", dir, "init"}); err == nil {
		t.Fatalf("expected second init to fail")
	}
	mustRun(t, "--dir", dir, "move", "--from", "0,0", "--to", "1,0")
	mustRun(t, "--dir", dir, "init", "--force")

	env := mustRun(t, "--dir", dir, "show")
	if got := boardPayloads(t, env["data"]); got[0][0] != "0A" {
		t.Fatalf("expected seed after forced init, got %v", got)
	}
	evs := mustRun(t, "--dir", dir, "events")
	if xs, _ := evs["data"].([]any); len(xs) != 0 {
		t.Fatalf("expected forced init to clear the diff log, got %d events", len(xs))
	}
}

func TestMove_PersistsLayoutAndDiffs(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "init")

	env := mustRun(t, "--dir", dir, "move", "--from", "0,4", "--to", "2,3")
	data := env["data"].(map[string]any)
	diffs := data["diffs"].(map[string]any)
	if n := len(diffs["begin"].([]any)); n != 3 {
		t.Fatalf("expected 3 begin diffs, got %d", n)
	}
	if n := len(diffs["move"].([]any)); n != 2 {
		t.Fatalf("expected 2 move diffs, got %d", n)
	}
	if n := len(diffs["end"].([]any)); n != 3 {
		t.Fatalf("expected 3 end diffs, got %d", n)
	}
	want := [][]string{{"0A", "0B", "0C", "0D"}, {"1A", "2B"}, {"2A", "2C", "3C", "0E"}}
	if got := boardPayloads(t, data["board"]); !reflect.DeepEqual(got, want) {
		t.Fatalf("move output board: got %v, want %v", got, want)
	}

	shown := mustRun(t, "--dir", dir, "show")
	if got := boardPayloads(t, shown["data"]); !reflect.DeepEqual(got, want) {
		t.Fatalf("persisted board: got %v, want %v", got, want)
	}

	evs := mustRun(t, "--dir", dir, "events")
	xs, _ := evs["data"].([]any)
	if len(xs) != 8 {
		t.Fatalf("expected 8 logged diffs, got %d", len(xs))
	}
	last := mustRun(t, "--dir", dir, "events", "--limit", "2")
	if xs, _ := last["data"].([]any); len(xs) != 2 {
		t.Fatalf("expected limit to keep 2 events, got %d", len(xs))
	}
}

func TestMove_OutOfRangeLeavesWorkspaceUntouched(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "init")

	_, stderr, err := runCLI(t, []string{"--dir", dir, "move", "--from", "1,2", "--to", "1,5"})
	if !errors.Is(err, reorder.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if !strings.Contains(string(stderr), "out of range") {
		t.Fatalf("expected error on stderr, got %q", string(stderr))
	}

	env := mustRun(t, "--dir", dir, "show")
	if got := boardPayloads(t, env["data"]); got[1][0] != "1A" || len(got[1]) != 2 {
		t.Fatalf("board changed after failed move: %v", got)
	}
	evs := mustRun(t, "--dir", dir, "events")
	if xs, _ := evs["data"].([]any); len(xs) != 0 {
		t.Fatalf("expected no logged diffs, got %d", len(xs))
	}
}

func TestMove_RejectsBadCoordinate(t *testing.T) {
	dir := isolate(t)
	if _, _, err := runCLI(t, []string{"--dir", dir, "move", "--from", "x", "--to", "0,0"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestItem(t *testing.T) {
	dir := isolate(t)
	env := mustRun(t, "--dir", dir, "item", "1,1")
	it := env["data"].(map[string]any)["item"].(map[string]any)
	if it["kind"] != "concrete" || it["payload"] != "2B" {
		t.Fatalf("unexpected item %#v", it)
	}

	_, _, err := runCLI(t, []string{"--dir", dir, "item", "1,2"})
	if !errors.Is(err, reorder.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestReset(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "--dir", dir, "move", "--from", "0,0", "--to", "0,4")
	mustRun(t, "--dir", dir, "reset")

	env := mustRun(t, "--dir", dir, "show")
	if got := boardPayloads(t, env["data"]); got[0][0] != "0A" {
		t.Fatalf("expected seed after reset, got %v", got)
	}
	evs := mustRun(t, "--dir", dir, "events")
	if xs, _ := evs["data"].([]any); len(xs) != 0 {
		t.Fatalf("expected empty log after reset, got %d", len(xs))
	}
}

func TestFormatsAndLogLevel(t *testing.T) {
	dir := isolate(t)

	stdout, _, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "item", "0,0"})
	if err != nil {
		t.Fatalf("edn: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "{:data") {
		t.Fatalf("expected edn envelope, got %q", string(stdout))
	}

	stdout, _, err = runCLI(t, []string{"--dir", dir, "--format", "yaml", "item", "0,0"})
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(string(stdout), "kind: concrete") || !strings.Contains(string(stdout), "0A") {
		t.Fatalf("expected yaml output, got %q", string(stdout))
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--log-level", "loud", "show"}); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
}

func TestFormatFromEnvConfig(t *testing.T) {
	dir := isolate(t)
	t.Setenv("SECTIONGRID_OUTPUT_FORMAT", "edn")
	stdout, _, err := runCLI(t, []string{"--dir", dir, "show"})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "{:data") {
		t.Fatalf("expected env to select edn, got %q", string(stdout))
	}
}

func TestDocs(t *testing.T) {
	isolate(t)
	env := mustRun(t, "docs")
	topics, _ := env["data"].(map[string]any)["topics"].([]any)
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %v", topics)
	}

	stdout, _, err := runCLI(t, []string{"docs", "keys", "--raw"})
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Keys") {
		t.Fatalf("expected raw markdown, got %q", string(stdout))
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}
