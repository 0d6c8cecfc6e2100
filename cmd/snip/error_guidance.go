package main

import (
	"errors"

	"snip/internal/apperror"
	"snip/internal/config"
)

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	switch apperror.KindOf(err) {
	case apperror.KindMultipleMatches:
		lines = append(lines, "hint: use a longer id fragment; `snip ls` or `snip attach ls` shows the ids.")
	case apperror.KindNotFound:
		lines = append(lines, "hint: id fragments match anywhere in the full id, dashes included.")
	case apperror.KindMalformedIdentifier:
		lines = append(lines, "hint: full ids are 36 lower-case characters, like 9cfc5a2d-2946-48ee-82e0-227ba4bcdbd5.")
	case apperror.KindIO:
		lines = append(lines, "hint: check that the file exists and is readable.")
	case apperror.KindStorage:
		lines = append(lines, "hint: the database may be damaged or locked; `snip migrate --inspect` reports its schema version.")
	}

	if errors.Is(err, config.ErrNoHome) {
		lines = append(lines, "hint: set HOME, or pass --db / SNIP_DB to choose a database explicitly.")
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
