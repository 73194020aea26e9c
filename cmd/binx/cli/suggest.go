// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestionDistance is the largest edit distance still offered as
// a "did you mean" hint.
const maxSuggestionDistance = 3

// suggestCommand returns the subcommand name nearest to typed, or "".
func suggestCommand(typed string, commands []*Command) string {
	names := make([]string, 0, len(commands))
	for _, command := range commands {
		names = append(names, command.Name)
	}
	return closest(typed, names)
}

// suggestFlag looks at the first flag in args that flagSet does not
// define and returns the nearest defined long flag as "--name", or "".
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	var names []string
	flagSet.VisitAll(func(flag *pflag.Flag) {
		names = append(names, flag.Name)
	})

	for _, arg := range args {
		if arg == "--" {
			return ""
		}
		name, ok := flagName(arg)
		if !ok || isDefined(flagSet, name) {
			continue
		}
		if match := closest(name, names); match != "" {
			return "--" + match
		}
		return ""
	}
	return ""
}

// flagName extracts the name from "--name", "--name=value" or "-n".
func flagName(arg string) (string, bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false
	}
	name := strings.TrimLeft(arg, "-")
	name, _, _ = strings.Cut(name, "=")
	return name, name != ""
}

func isDefined(flagSet *pflag.FlagSet, name string) bool {
	if flagSet.Lookup(name) != nil {
		return true
	}
	return len(name) == 1 && flagSet.ShorthandLookup(name) != nil
}

// closest returns the candidate within maxSuggestionDistance of input
// with the smallest distance. Ties go to the earlier candidate.
func closest(input string, candidates []string) string {
	match, best := "", maxSuggestionDistance+1
	for _, candidate := range candidates {
		if distance := levenshtein(input, candidate); distance < best {
			match, best = candidate, distance
		}
	}
	return match
}

// levenshtein returns the edit distance between a and b in bytes,
// keeping two rows of the dynamic programming table.
func levenshtein(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	above := make([]int, len(b)+1)
	row := make([]int, len(b)+1)
	for column := range above {
		above[column] = column
	}
	for i := range len(a) {
		row[0] = i + 1
		for j := range len(b) {
			substitution := above[j]
			if a[i] != b[j] {
				substitution++
			}
			row[j+1] = min(above[j+1]+1, row[j]+1, substitution)
		}
		above, row = row, above
	}
	return above[len(b)]
}
