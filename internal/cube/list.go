package cube

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// ListEntry is one line of a plain-text cube list.
type ListEntry struct {
	Name  string
	Count int
}

// ParseList parses a plain-text cube list.
//
// Each non-empty line is either "Card Name" or "N Card Name" (also "Nx Card Name").
// Lines starting with '#' or "//" are comments.
func ParseList(text string) ([]ListEntry, error) {
	var entries []ListEntry
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		count := 1
		name := line
		if head, rest, ok := strings.Cut(line, " "); ok {
			if n, err := strconv.Atoi(strings.TrimSuffix(head, "x")); err == nil {
				if n <= 0 {
					return nil, fmt.Errorf("line %d: count must be positive, got %d", lineNumber, n)
				}
				count = n
				name = strings.TrimSpace(rest)
			}
		}
		if name == "" {
			return nil, fmt.Errorf("line %d: missing card name", lineNumber)
		}
		entries = append(entries, ListEntry{Name: name, Count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cube list: %w", err)
	}
	return entries, nil
}
