// Package scorer ranks candidate logo URLs found in a page's HTML markup.
//
// A set of independent heuristics scans the document: structured-data
// blocks, icon link elements, the OpenGraph image, and every image element
// with its ancestor context. Each heuristic proposes a score with a
// human-readable signal label; scores for the same normalized URL merge by
// maximum, while the heuristics that inspect a single image element combine
// additively within that element's evaluation.
//
// The scorer is a pure function of the HTML text and the base URL: no
// network access, no shared state, and byte-identical ranked output for
// identical input. A heuristic that cannot find its expected structure
// contributes nothing rather than failing the pass; one unparseable
// structured-data block never aborts scanning of the rest of the page.
//
// Design decision: We use golang.org/x/net/html rather than a CSS-selector
// layer because the image heuristics need the ancestor chain of each node
// (enclosing anchor, header/footer placement) during a single walk, which
// the node tree exposes directly.
package scorer
