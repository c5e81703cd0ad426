// Status HTTP server for a running capture session
package admin

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"posdata/internal/capture"
)

//go:embed templates/index.html
var content embed.FS

// Server exposes the state of a running capture over HTTP.
type Server struct {
	Cap *capture.Capturer
	tpl *template.Template
}

// NewServer creates a status server for the given capturer.
func NewServer(c *capture.Capturer) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{Cap: c, tpl: tpl}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/row", s.handleRow)
	return mux
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := s.Cap.StateSnapshot()
	row, hasRow := s.Cap.LatestRow()
	data := struct {
		State  any
		Row    any
		HasRow bool
	}{State: state, Row: row, HasRow: hasRow}
	s.tpl.Execute(w, data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Cap.StateSnapshot())
}

func (s *Server) handleRow(w http.ResponseWriter, r *http.Request) {
	row, ok := s.Cap.LatestRow()
	if !ok {
		http.Error(w, "no rows captured yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}
