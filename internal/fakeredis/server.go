// Package fakeredis is a minimal in-process RESP-2 server used by this
// module's own tests in place of the teacher's testbed package, which
// shelled out to a real redis-server binary. It understands exactly enough
// of the protocol to drive conn.Connection through handshake, pipelined
// requests, and induced disconnects.
package fakeredis

import (
	"bufio"
	"net"
	"sync"

	"github.com/outpostmon/redisq/wire"
)

// Handler computes the reply to one request. args[0] is the command name.
type Handler func(args []string) wire.Reply

// Server accepts TCP connections on an ephemeral loopback port and answers
// each request in turn with whatever Handler returns, in arrival order
// (RESP pipelining: a client may write many requests before reading any
// reply, so the server must read eagerly and reply in order, never waiting
// for a "round trip" signal from the test).
type Server struct {
	ln      net.Listener
	handler Handler

	mu    sync.Mutex
	conns []net.Conn
	wg    sync.WaitGroup
}

// New starts listening and returns the server. handler is called once per
// decoded request, from whichever connection's read loop received it; tests
// that need per-connection state should close over a mutex.
func New(handler Handler) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &Server{ln: ln, handler: handler}
	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// Addr returns the "host:port" a Dialer should connect to.
func (s *Server) Addr() string { return s.ln.Addr().String() }

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		s.wg.Add(1)
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	for {
		req, err := wire.Decode(r)
		if err != nil {
			return
		}
		args := make([]string, len(req.Items))
		for i, item := range req.Items {
			args[i] = item.Str
		}
		reply := s.handler(args)
		buf := wire.EncodeReply(nil, reply)
		if _, err := w.Write(buf); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

// DropAll forcibly closes every connection accepted so far, simulating a
// mid-session reset a test wants to observe the Connector recover from.
func (s *Server) DropAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

// Close stops accepting new connections and closes every live one.
func (s *Server) Close() {
	s.ln.Close()
	s.DropAll()
	s.wg.Wait()
}
