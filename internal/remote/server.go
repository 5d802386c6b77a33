package remote

import (
	"context"
	"net/http"

	"mangaread/internal/errors"
	"mangaread/internal/library"
	"mangaread/internal/log"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Single-user page server, any origin may connect
	},
}

// Server exposes a library over a websocket endpoint at /ws. Each
// connection is served by its own goroutine; requests on one connection
// are answered strictly in order.
type Server struct {
	lib     *library.Library
	httpSrv *http.Server
}

// NewServer creates a page server for the given library.
func NewServer(lib *library.Library, address string) *Server {
	s := &Server{lib: lib}
	s.httpSrv = &http.Server{
		Addr:    address,
		Handler: s.Handler(),
	}
	return s
}

// Handler returns the HTTP handler serving the websocket endpoint,
// exposed separately so tests can mount it on httptest servers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// ListenAndServe blocks serving connections until Shutdown.
func (s *Server) ListenAndServe() error {
	log.LogWithFields(log.F("address", s.httpSrv.Addr)).Info("page server listening")
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.LogWithFields(log.F("error", err)).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.LogWithFields(log.F("remote", conn.RemoteAddr().String())).Info("reader connected")

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.LogWithFields(log.F("error", err)).Error("websocket unexpected close")
			}
			return
		}

		resp := s.dispatch(req)
		if err := conn.WriteJSON(resp); err != nil {
			log.LogWithFields(log.F("error", err)).Error("writing response failed")
			return
		}
	}
}

func (s *Server) dispatch(req request) response {
	switch req.Op {
	case opInfo:
		manga, err := s.lib.Info()
		if err != nil {
			return errorResponse(err)
		}
		return response{Manga: manga}

	case opPage:
		log.Debugf("serving page %d", req.Number)
		image, err := s.lib.Page(req.Number)
		if err != nil {
			return errorResponse(err)
		}
		return response{Image: image}
	}

	return response{Error: &wireError{
		Code:    codeDecode,
		Message: "unknown op " + req.Op,
	}}
}

func errorResponse(err error) response {
	return response{Error: &wireError{
		Code:    codeForKind(errors.KindOf(err)),
		Message: err.Error(),
	}}
}
