package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shlapabank/dashboard-go/pkg/session"
	"github.com/shlapabank/dashboard-go/signal"
)

const writeTimeout = 5 * time.Second

type Server struct {
	logger          *zap.Logger
	service         *session.DashboardService
	lock            sync.Mutex
	server          *http.Server
	listener        net.Listener
	connectionsLock sync.Mutex
	connections     map[*websocket.Conn]struct{}
	address         string
}

func NewServer(service *session.DashboardService, logger *zap.Logger) *Server {
	return &Server{
		logger:      logger.Named("server"),
		service:     service,
		connections: make(map[*websocket.Conn]struct{}, 1),
	}
}

func (s *Server) Address() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.address
}

func (s *Server) Port() (int, error) {
	_, portString, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portString)
}

// Setup routes every signal to the connected websocket clients.
func (s *Server) Setup() {
	signal.SetSignalHandler(s.signalHandler)
}

func (s *Server) signalHandler(data []byte) {
	s.connectionsLock.Lock()
	defer s.connectionsLock.Unlock()

	for connection := range s.connections {
		err := connection.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err == nil {
			err = connection.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			s.logger.Error("failed to write signal message", zap.Error(err))
			s.dropLocked(connection)
		}
	}
}

func (s *Server) dropLocked(connection *websocket.Conn) {
	delete(s.connections, connection)
	if err := connection.Close(); err != nil {
		s.logger.Debug("failed to close connection", zap.Error(err))
	}
}

func (s *Server) connectionCount() int {
	s.connectionsLock.Lock()
	defer s.connectionsLock.Unlock()
	return len(s.connections)
}

// Handler serves /rpc, /signals and /healthz.
func (s *Server) Handler() (http.Handler, error) {
	rpcServer, err := session.CreateRPCServer(s.service)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create RPC server")
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/rpc", rpcServer)
	r.Get("/signals", s.signals)
	r.Get("/healthz", s.health)
	return r, nil
}

func (s *Server) Listen(address string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.server != nil {
		return errors.New("server already started")
	}

	_, _, err := net.SplitHostPort(address)
	if err != nil {
		return errors.Wrap(err, "invalid address")
	}

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.listener = listener
	s.server = &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.address = listener.Addr().String()
	return nil
}

func (s *Server) Serve() {
	s.lock.Lock()
	server, listener := s.server, s.listener
	s.lock.Unlock()
	if server == nil {
		return
	}

	err := server.Serve(listener)
	if !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("dashboard server closed with error", zap.Error(err))
	}
}

func (s *Server) Stop(ctx context.Context) {
	s.connectionsLock.Lock()
	for connection := range s.connections {
		s.dropLocked(connection)
	}
	s.connectionsLock.Unlock()

	s.lock.Lock()
	server, listener := s.server, s.listener
	s.server = nil
	s.listener = nil
	s.address = ""
	s.lock.Unlock()
	if server == nil {
		return
	}

	err := server.Shutdown(ctx)
	if err != nil {
		s.logger.Error("failed to shutdown dashboard server", zap.Error(err))
	}
	// Shutdown only closes listeners that Serve has picked up.
	_ = listener.Close()
}

func (s *Server) signals(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // the UI runs from a local file or dev server
		},
	}

	connection, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	s.logger.Debug("new websocket connection", zap.String("remote", r.RemoteAddr))

	s.connectionsLock.Lock()
	s.connections[connection] = struct{}{}
	s.connectionsLock.Unlock()
}

type healthResponse struct {
	Status  string `json:"status"`
	Started bool   `json:"started"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Started: s.service.Started()})
}
