package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/png"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"logoscan/internal/imaging"
	"logoscan/internal/model"
)

// Server renders the cluster gallery.
type Server struct {
	// entries maps domains to their staged logos.
	entries map[string]model.StagedLogo

	// clusters and singletons come from the parsed report.
	clusters   [][]string
	singletons []string

	// thumbSize bounds thumbnail dimensions in pixels.
	thumbSize int

	// logger for request-time decode failures.
	logger *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithThumbnailSize sets the thumbnail pixel bound.
func WithThumbnailSize(size int) ServerOption {
	return func(s *Server) {
		if size > 0 {
			s.thumbSize = size
		}
	}
}

// WithServerLogger sets a custom logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a gallery server over the parsed report content and
// manifest entries.
func NewServer(clusters [][]string, singletons []string, entries []model.StagedLogo, opts ...ServerOption) *Server {
	s := &Server{
		entries:    make(map[string]model.StagedLogo, len(entries)),
		clusters:   clusters,
		singletons: singletons,
		thumbSize:  64,
	}
	for _, e := range entries {
		s.entries[e.Domain] = e
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Handler returns the HTTP handler serving the gallery.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// tile is one rendered thumbnail cell.
type tile struct {
	Domain  string
	DataURI template.URL
	Missing bool
}

// galleryGroup is one cluster section of the page.
type galleryGroup struct {
	Title string
	Tiles []tile
}

// handleIndex renders the whole gallery page.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	groups := make([]galleryGroup, 0, len(s.clusters)+1)
	for i, members := range s.clusters {
		groups = append(groups, galleryGroup{
			Title: fmt.Sprintf("Cluster %d (%d logos)", i+1, len(members)),
			Tiles: s.tiles(members),
		})
	}
	groups = append(groups, galleryGroup{
		Title: fmt.Sprintf("Singletons (%d logos)", len(s.singletons)),
		Tiles: s.tiles(s.singletons),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := galleryTemplate.Execute(w, groups); err != nil {
		s.logger.Warn("render gallery", "error", err)
	}
}

// tiles builds thumbnail cells for the domains, marking domains whose
// staged file is missing or undecodable instead of dropping them.
func (s *Server) tiles(domains []string) []tile {
	tiles := make([]tile, 0, len(domains))
	for _, domain := range domains {
		entry, ok := s.entries[domain]
		if !ok {
			tiles = append(tiles, tile{Domain: domain, Missing: true})
			continue
		}
		uri, err := s.thumbnailDataURI(entry.LocalPath)
		if err != nil {
			s.logger.Debug("thumbnail failed", "domain", domain, "error", err)
			tiles = append(tiles, tile{Domain: domain, Missing: true})
			continue
		}
		tiles = append(tiles, tile{Domain: domain, DataURI: uri})
	}
	return tiles
}

// thumbnailDataURI loads, scales, and inlines one staged logo.
func (s *Server) thumbnailDataURI(path string) (template.URL, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return "", err
	}
	thumb := imaging.Thumbnail(img, s.thumbSize)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return template.URL("data:image/png;base64," + encoded), nil //nolint:gosec // Data URI is built from local PNG bytes
}

// galleryTemplate is the single-page gallery layout.
var galleryTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Logo Clusters</title>
<style>
  body { font-family: sans-serif; margin: 2em; background: #fafafa; }
  h2 { border-bottom: 1px solid #ddd; padding-bottom: 0.3em; }
  .row { display: flex; flex-wrap: wrap; gap: 1em; margin-bottom: 2em; }
  .cell { text-align: center; width: 110px; }
  .cell img { background: #fff; border: 1px solid #ccc; padding: 4px; }
  .cell .missing { width: 64px; height: 64px; line-height: 64px; margin: 0 auto;
                   background: #eee; border: 1px dashed #bbb; color: #999; }
  .cell p { font-size: 0.7em; word-break: break-all; margin: 0.4em 0 0; }
</style>
</head>
<body>
<h1>Logo Clusters</h1>
{{range .}}
<h2>{{.Title}}</h2>
<div class="row">
{{range .Tiles}}
  <div class="cell">
    {{if .Missing}}<div class="missing">?</div>{{else}}<img src="{{.DataURI}}" alt="{{.Domain}}">{{end}}
    <p>{{.Domain}}</p>
  </div>
{{end}}
</div>
{{end}}
</body>
</html>
`))
