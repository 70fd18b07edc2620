package src

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"blinkdb/src/log"
)

var maxClientsReply = MakeErrReply("ERR max number of clients reached").ToBytes()

// TCPServer accepts client connections and runs each one on the worker pool.
// The pool size is the maxclients limit.
type TCPServer struct {
	processor *Processor
	pool      *ants.Pool
	listener  net.Listener
	conns     *xsync.MapOf[string, *Connection]
	closing   atomic.Bool
	wg        sync.WaitGroup
}

type Connection struct {
	ID   string
	Conn net.Conn
}

func NewTCPServer(processor *Processor, maxClients int) (*TCPServer, error) {
	if maxClients < 1 {
		maxClients = DefaultMaxClients
	}
	pool, err := ants.NewPool(maxClients,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(v any) {
			log.NetLogger.Errorf("connection handler panic: %v", v)
		}))
	if err != nil {
		return nil, err
	}
	return &TCPServer{
		processor: processor,
		pool:      pool,
		conns:     xsync.NewMapOf[string, *Connection](),
	}, nil
}

func (s *TCPServer) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.NetLogger.Errorf("TCP Server start fail, Listen :%s", address)
		return err
	}
	s.listener = listener
	log.NetLogger.Infof("TCP Server started, Listen :%s", listener.Addr())
	s.wg.Add(1)
	go s.acceptConn()
	return nil
}

// Addr is the bound listen address, useful when started on port 0.
func (s *TCPServer) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *TCPServer) ConnCount() int {
	return s.conns.Size()
}

func (s *TCPServer) acceptConn() {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.NetLogger.Errorf("AcceptConn from panic:%v, recover again", r)
			if !s.closing.Load() {
				s.wg.Add(1)
				go s.acceptConn()
			}
		}
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			log.NetLogger.Error(err)
			continue
		}
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetNoDelay(true); err != nil {
				log.NetLogger.Warnf("Error setting TCP NoDelay: %v", err)
			}
		}
		c := &Connection{ID: uuid.NewString(), Conn: conn}
		s.conns.Store(c.ID, c)
		if s.closing.Load() {
			s.conns.Delete(c.ID)
			_ = conn.Close()
			return
		}
		s.wg.Add(1)
		err = s.pool.Submit(func() {
			defer s.wg.Done()
			s.handle(c)
		})
		if err != nil {
			s.wg.Done()
			s.conns.Delete(c.ID)
			if errors.Is(err, ants.ErrPoolOverload) {
				log.NetLogger.Warnf("reject %s: max number of clients reached", conn.RemoteAddr())
				_, _ = conn.Write(maxClientsReply)
			} else {
				log.NetLogger.Errorf("submit connection: %v", err)
			}
			_ = conn.Close()
		}
	}
}

// handle 一个连接一个协程, 按行读取请求并顺序写回
func (s *TCPServer) handle(c *Connection) {
	connectionsGauge.Inc()
	log.NetLogger.Debugf("client %s connected from %s", c.ID, c.Conn.RemoteAddr())
	defer func() {
		s.conns.Delete(c.ID)
		connectionsGauge.Dec()
		_ = c.Conn.Close()
		log.NetLogger.Debugf("client %s closed", c.ID)
	}()

	scanner := bufio.NewScanner(c.Conn)
	scanner.Buffer(make([]byte, 4096), MaxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		reply, quit := s.processor.Process(line)
		if _, err := c.Conn.Write(reply); err != nil {
			log.NetLogger.Debugf("client %s write: %v", c.ID, err)
			return
		}
		if quit {
			return
		}
	}
	if err := scanner.Err(); err != nil && !s.closing.Load() {
		log.NetLogger.Warnf("client %s read: %v", c.ID, err)
	}
}

// Close stops accepting, closes every live connection and waits for the
// handlers to return.
func (s *TCPServer) Close() error {
	if !s.closing.CompareAndSwap(false, true) {
		return nil
	}
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.conns.Range(func(id string, c *Connection) bool {
		_ = c.Conn.Close()
		return true
	})
	s.wg.Wait()
	s.pool.Release()
	log.NetLogger.Info("TCP Server stopped")
	return err
}
