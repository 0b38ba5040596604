package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"foodgiver/internal/service"
)

var upgrader = websocket.Upgrader{
	// the gate in front of the feed already checks the admin cookie
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (fc *feedClient) send(data []byte) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	_ = fc.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return fc.conn.WriteMessage(websocket.TextMessage, data)
}

// Feed рассылает статистику админ-панели подключённым клиентам раз в interval
type Feed struct {
	admin    *service.AdminService
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	clients map[*feedClient]bool
}

func NewFeed(admin *service.AdminService, interval time.Duration, log *slog.Logger) *Feed {
	return &Feed{
		admin:    admin,
		interval: interval,
		log:      log,
		clients:  make(map[*feedClient]bool),
	}
}

// Run broadcasts until ctx is done.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return
		case <-ticker.C:
			if f.count() == 0 {
				continue
			}
			data, err := f.snapshot(ctx)
			if err != nil {
				f.log.Error("feed snapshot", "error", err)
				continue
			}
			f.broadcast(data)
		}
	}
}

func (f *Feed) snapshot(ctx context.Context) ([]byte, error) {
	st, err := f.admin.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(st)
}

func (f *Feed) broadcast(data []byte) {
	f.mu.Lock()
	clients := make([]*feedClient, 0, len(f.clients))
	for fc := range f.clients {
		clients = append(clients, fc)
	}
	f.mu.Unlock()

	for _, fc := range clients {
		if err := fc.send(data); err != nil {
			f.remove(fc)
		}
	}
}

func (f *Feed) add(fc *feedClient) {
	f.mu.Lock()
	f.clients[fc] = true
	f.mu.Unlock()
}

func (f *Feed) remove(fc *feedClient) {
	f.mu.Lock()
	if f.clients[fc] {
		delete(f.clients, fc)
		fc.conn.Close()
	}
	f.mu.Unlock()
}

func (f *Feed) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for fc := range f.clients {
		fc.conn.Close()
		delete(f.clients, fc)
	}
}

// @Summary Live dashboard counters over websocket
// @Tags admin
// @Success 101
// @Router /admin/feed [get]
func (s *Server) adminFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	fc := &feedClient{conn: conn}
	s.feed.add(fc)
	defer s.feed.remove(fc)

	// first frame right away, then on every tick
	data, err := s.feed.snapshot(c.Request.Context())
	if err != nil || fc.send(data) != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
