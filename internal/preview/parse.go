package preview

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseReport reads a text cluster report back into cluster member lists
// and singletons. It is the inverse of the report package's partition
// writer and tolerates the same inputs downstream parsers do: "# " lines
// are comments, "=== Cluster" starts a group, "=== Singletons ===" starts
// the trailing section, and indented lines are domain names.
func ParseReport(r io.Reader) (clusters [][]string, singletons []string, err error) {
	var current []string
	inSingletons := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "=== Cluster"):
			if len(current) > 0 {
				clusters = append(clusters, current)
			}
			current = nil
		case line == "=== Singletons ===":
			if len(current) > 0 {
				clusters = append(clusters, current)
			}
			current = nil
			inSingletons = true
		case line == "" || strings.HasPrefix(line, "#"):
			// Blank separators and comment headers.
		case inSingletons:
			singletons = append(singletons, line)
		default:
			current = append(current, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read cluster report: %w", err)
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}
	return clusters, singletons, nil
}

// ParseReportFile is ParseReport over a file path.
func ParseReportFile(path string) (clusters [][]string, singletons []string, err error) {
	f, err := os.Open(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("open cluster report: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	return ParseReport(f)
}
