// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: Line-oriented text for terminal display and downstream
//     parsers (the cluster-report section convention is a compatibility
//     contract and must not change)
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown for documentation
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) to follow the single responsibility
// principle. Writers implement the Writer interface, allowing them to be
// used interchangeably and composed for multi-format output.
package report
