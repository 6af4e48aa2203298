package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/maestoso/scorekit/pkg/composer"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the streaming composition server",
	Long: `Run a WebSocket server that streams composition events to clients.

Each connection is one session with its own conversation history. The
client sends JSON requests:

  {"type": "chat", "request": "...", "musicxml": "...",
   "selection": {"start_measure": 1, "end_measure": 4}}
  {"type": "reset"}

and receives the compose event stream as JSON frames:

  {"type": "text", "text": "..."}
  {"type": "partial", "musicxml": "...", "measures": 3}
  {"type": "complete", "text": "...", "musicxml": "...", "measures": 16}

A request is handled to completion before the next one is read, so a
session never has two generations in flight.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := newGenerator(cmd.Context())
		if err != nil {
			return err
		}

		srv := &composeServer{manager: composer.NewManager(gen)}
		mux := http.NewServeMux()
		mux.HandleFunc("/compose", srv.handleCompose)
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		slog.Info("scorekit server listening", "addr", serveAddr)
		return http.ListenAndServe(serveAddr, mux)
	},
}

type composeServer struct {
	manager  *composer.Manager
	upgrader websocket.Upgrader
}

// clientRequest is one inbound frame.
type clientRequest struct {
	Type      string `json:"type"`
	Request   string `json:"request,omitempty"`
	MusicXML  string `json:"musicxml,omitempty"`
	Selection *struct {
		StartMeasure int    `json:"start_measure"`
		EndMeasure   int    `json:"end_measure"`
		MusicXML     string `json:"musicxml,omitempty"`
	} `json:"selection,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *composeServer) handleCompose(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer ws.Close()

	session := s.manager.Open()
	defer s.manager.Close(session.ID)
	slog.Info("session opened", "id", session.ID, "remote", r.RemoteAddr)

	for {
		var req clientRequest
		if err := ws.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("session read failed", "id", session.ID, "err", err)
			}
			return
		}

		switch req.Type {
		case "chat":
			if err := s.serveChat(r.Context(), ws, session, &req); err != nil {
				slog.Warn("session chat failed", "id", session.ID, "err", err)
				s.writeError(ws, err)
			}
		case "reset":
			session.Reset()
		default:
			s.writeError(ws, fmt.Errorf("unknown request type %q", req.Type))
		}
	}
}

func (s *composeServer) serveChat(ctx context.Context, ws *websocket.Conn, session *composer.Session, req *clientRequest) error {
	var sel *composer.Selection
	if req.Selection != nil {
		sel = &composer.Selection{
			StartMeasure: req.Selection.StartMeasure,
			EndMeasure:   req.Selection.EndMeasure,
			XML:          req.Selection.MusicXML,
		}
	}

	es, err := session.ChatStream(ctx, req.Request, req.MusicXML, sel)
	if err != nil {
		return err
	}
	defer es.Close()

	for {
		ev, err := es.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		ws.SetWriteDeadline(time.Now().Add(30 * time.Second))
		if err := ws.WriteJSON(ev); err != nil {
			return err
		}
	}
}

func (s *composeServer) writeError(ws *websocket.Conn, err error) {
	ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if werr := ws.WriteJSON(errorFrame{Type: "error", Error: err.Error()}); werr != nil {
		slog.Warn("error frame write failed", "err", werr)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	addGeneratorFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
