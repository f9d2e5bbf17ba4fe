package main

import (
	"os"
	"strings"

	"sectiongrid/internal/cli"
	"sectiongrid/internal/model"
)

func isCoordinate(s string) bool {
	if !strings.Contains(s, ",") {
		return false
	}
	_, err := model.ParseCoordinate(s)
	return err == nil
}

// rewriteDirectItemLookupArgs makes `sectiongrid 1,2` work like `sectiongrid item 1,2`.
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
func rewriteDirectItemLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--format":    true,
		"--log-level": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "item")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isCoordinate(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		// First positional token.
		if isCoordinate(a) {
			return insert(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectItemLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
