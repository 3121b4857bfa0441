package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"logoscan/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown, suitable
// for sharing harvest results in documentation or pull requests.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation rather than string templates.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteCandidates outputs the ranking as a table headed by the brand
// name derived from the site's domain stem.
func (w *MarkdownWriter) WriteCandidates(site string, ranked []model.RankedCandidate) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1f("Logo Candidates: %s", brandName(site))
	md.PlainText("")

	if len(ranked) == 0 {
		md.PlainText("No candidates found.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(ranked))
	for i, c := range ranked {
		rows[i] = []string{
			fmt.Sprintf("%d", c.Rank),
			fmt.Sprintf("%d", c.Score),
			c.URL,
			strings.Join(c.Signals, ", "),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Score", "URL", "Signals"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// WritePartition outputs the clustering result with one section per
// cluster and a trailing singletons section.
func (w *MarkdownWriter) WritePartition(partition model.Partition) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Logo Clustering Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Threshold", fmt.Sprintf("Hamming distance <= %d", partition.Threshold)},
			{"Total logos", fmt.Sprintf("%d", partition.Total)},
			{"Clusters (2+ logos)", fmt.Sprintf("%d", len(partition.Clusters))},
			{"Singletons", fmt.Sprintf("%d", len(partition.Singletons))},
		},
	})
	md.PlainText("")

	for i, cluster := range partition.Clusters {
		md.H2f("Cluster %d (%d logos)", i+1, cluster.Size())
		md.PlainText("")
		md.BulletList(cluster.Members...)
		md.PlainText("")
	}

	md.H2("Singletons")
	md.PlainText("")
	if len(partition.Singletons) == 0 {
		md.PlainText("None.")
	} else {
		md.BulletList(partition.Singletons...)
	}
	md.PlainText("")

	return len(md.String()), md.Build()
}

// brandName turns a site identifier into a display name: the domain stem
// of "www.acme-corp.com" renders as "Acme-Corp".
func brandName(site string) string {
	host := strings.TrimPrefix(site, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.SplitN(host, "/", 2)[0]
	host = strings.TrimPrefix(host, "www.")
	stem := strings.Split(host, ".")[0]
	if stem == "" {
		return site
	}
	return cases.Title(language.English).String(stem)
}
