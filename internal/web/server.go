package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"

	"github.com/user/energy-chart-go/internal/chart"
	"github.com/user/energy-chart-go/internal/models"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Server serves the interactive chart. The dataset is loaded once by the
// caller; every client gets its own drawing of it.
type Server struct {
	config    models.Config
	rows      []models.DataRow
	loadErr   error
	source    models.SourceMetadata
	templates *template.Template
	handler   *http.ServeMux

	now func() time.Time

	mu    sync.Mutex
	views *lru.Cache // page id -> *view
}

// NewServer builds the server around an already loaded dataset. A non-nil
// loadErr makes every client see the error text instead of the chart.
func NewServer(cfg models.Config, rows []models.DataRow, source models.SourceMetadata, loadErr error) (*Server, error) {
	templates, err := template.New("").ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:    cfg,
		rows:      rows,
		loadErr:   loadErr,
		source:    source,
		templates: templates,
		now:       time.Now,
		views:     lru.New(maxViews),
	}

	handler := http.NewServeMux()
	handler.HandleFunc("GET /{$}", s.IndexHandler)
	handler.HandleFunc("GET /chart.svg", s.ChartSVGHandler)
	handler.HandleFunc("POST /tooltip/enter", s.EnterHandler)
	handler.HandleFunc("POST /tooltip/leave", s.LeaveHandler)
	s.handler = handler

	return s, nil
}

// Handler exposes the routes, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start(addr string) error {
	log.Printf("listening on %s …", addr)
	return http.ListenAndServe(addr, s.handler)
}

// IndexHandler is the main entrypoint for the UI. Each call serves a new
// page with its own view of the chart.
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	pageID, v := s.openView(w, r)

	v.mu.Lock()
	svg, err := chart.InlineSVG(v.renderer.Surface())
	v.mu.Unlock()
	if err != nil {
		log.Printf("couldn't serialize chart: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"title":   s.config.YLabel,
		"caption": s.config.Caption,
		"chart":   template.HTML(svg),
		"page":    pageID,
		"source":  s.source,
		"failed":  s.loadErr != nil,
	}
	if err := s.templates.ExecuteTemplate(w, "index", data); err != nil {
		log.Printf("couldn't execute template for index %s", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// ChartSVGHandler returns a page's current surface as a document. Without
// a known page it returns the chart as first drawn.
func (s *Server) ChartSVGHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")

	v := s.lookupView(r, r.URL.Query().Get("page"))
	if v == nil {
		if err := chart.WriteSVG(w, s.newRenderer().Surface()); err != nil {
			log.Printf("couldn't write chart svg: %s", err)
		}
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err := chart.WriteSVG(w, v.renderer.Surface()); err != nil {
		log.Printf("couldn't write chart svg: %s", err)
	}
}
