// Package main provides the entry point for the logoscan CLI.
//
// logoscan harvests brand logos from company websites: it ranks candidate
// logo URLs found in a page's markup, stages the winning images locally,
// and clusters visually identical logos across domains.
//
// Usage:
//
//	logoscan extract <url>
//	logoscan fetch --list <file>
//	logoscan cluster
//	logoscan serve
//
// See --help for all available options.
package main

// main is the entry point for logoscan.
func main() {
	Execute()
}
