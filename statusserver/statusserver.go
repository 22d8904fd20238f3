// Copyright 2025 the libevm authors.
//
// The libevm additions to go-ethereum are free software: you can redistribute
// them and/or modify them under the terms of the GNU Lesser General Public License
// as published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// The libevm additions are distributed in the hope that they will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see
// <http://www.gnu.org/licenses/>.

// Package statusserver pushes watermark transitions to connected websocket
// clients, e.g. for a dashboard watching batch-processing progress live
// instead of polling the IoSink. It is this module's server-side
// counterpart to the teacher's own client-side use of gorilla/websocket in
// libevm/rpcroute (deleted along with the rest of that package; the
// dependency is kept and wired here instead).
package statusserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/matter-labs/vm-runner/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Update is one watermark transition, broadcast as JSON to every connected
// client.
type Update struct {
	Batch uint32 `json:"batch"`
}

// Server broadcasts Updates to all currently-connected websocket clients.
// The zero value is not usable; construct one with New.
type Server struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Update
}

// New returns a ready-to-use Server.
func New() *Server {
	return &Server{clients: make(map[*client]struct{})}
}

// ServeHTTP implements http.Handler, upgrading the connection to a
// websocket and registering it to receive future Broadcast calls until a
// read from it fails (e.g. the client disconnects) or Broadcast drops it
// for a full send buffer.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("statusserver: websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}

	c := &client{conn: conn, send: make(chan Update, 16)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer s.unregister(c)
	for {
		// We don't expect clients to send anything; this just detects
		// disconnects and respects gorilla/websocket's requirement that
		// somebody always be reading the connection.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for u := range c.send {
		if err := c.conn.WriteJSON(u); err != nil {
			return
		}
	}
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
}

// Broadcast sends u to every currently-connected client. Clients whose send
// buffer is full are disconnected rather than allowed to block the
// broadcaster.
func (s *Server) Broadcast(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- u:
		default:
			log.Warn("statusserver: client send buffer full, disconnecting")
			delete(s.clients, c)
			close(c.send)
		}
	}
}

// MarshalUpdate is a convenience for callers that want the wire format
// without going through a websocket connection, e.g. for logging.
func MarshalUpdate(u Update) ([]byte, error) {
	return json.Marshal(u)
}
