package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/user/energy-chart-go/internal/chart"
)

const (
	clientIDCookieName = "client-id"

	viewIdleTimeout = 30 * time.Minute
	maxViews        = 1024
)

// view is the chart shown by one served page. Every page load gets a new
// view, so a reload or a second tab starts with its own surface, tooltip
// and hover generation.
type view struct {
	mu       sync.Mutex
	clientID string
	renderer *chart.Renderer
	hoverGen uint64 // last hover generation seen from the page
	lastSeen time.Time
}

// openView creates the view for a page being served, setting the client id
// cookie when the client has none. It is the only place views are created.
func (s *Server) openView(w http.ResponseWriter, r *http.Request) (string, *view) {
	clientID, ok := clientIDFromRequest(r)
	if !ok {
		clientID = randomID()
		http.SetCookie(w, &http.Cookie{
			Name:     clientIDCookieName,
			Value:    clientID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	v := &view{clientID: clientID, renderer: s.newRenderer()}
	pageID := randomID()

	s.mu.Lock()
	defer s.mu.Unlock()
	v.lastSeen = s.now()
	// At capacity the least recently used view is dropped.
	s.views.Add(pageID, v)
	return pageID, v
}

// lookupView returns the view of a page previously served to the same
// client, or nil. It never allocates. Idle views are dropped on access.
func (s *Server) lookupView(r *http.Request, pageID string) *view {
	clientID, ok := clientIDFromRequest(r)
	if !ok || pageID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.views.Get(pageID)
	if !ok {
		return nil
	}
	v := value.(*view)
	if v.clientID != clientID {
		return nil
	}
	now := s.now()
	if now.Sub(v.lastSeen) > viewIdleTimeout {
		s.views.Remove(pageID)
		return nil
	}
	v.lastSeen = now
	return v
}

func (s *Server) newRenderer() *chart.Renderer {
	r := chart.NewRenderer(s.config, nil)
	if s.loadErr != nil {
		r.Fail(s.loadErr)
		return r
	}
	// Draw replaces the chart with the error text itself.
	_ = r.Draw(s.rows)
	return r
}

// viewCount reports the number of live views.
func (s *Server) viewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views.Len()
}

func clientIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(clientIDCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func randomID() string {
	var randomBytes [16]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(randomBytes[:])
	return hex.EncodeToString(randomBytes[:])
}
