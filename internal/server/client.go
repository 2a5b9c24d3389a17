package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"uno-server/internal/protocol"
)

const (
	outboundQueueSize = 256
	writeTimeout      = 10 * time.Second
)

// Client is the server side of one websocket connection: a private
// ordered outbound queue and the write pump that drains it onto the wire
// in FIFO order. Enqueue never blocks, so the session can fan out
// messages while holding its lock.
type Client struct {
	id   uuid.UUID
	conn *websocket.Conn
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func newClient(id uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		out:  make(chan []byte, outboundQueueSize),
		done: make(chan struct{}),
	}
}

// Enqueue implements session.Sink. A closed client drops the message. A
// full queue closes the connection: a peer that far behind cannot be
// caught up, and closing it fails the read loop so the deferred cleanup
// removes the player from the session.
func (c *Client) Enqueue(e protocol.Envelope) bool {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("marshal outbound message for %s: %v", c.id, err)
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.out <- data:
		return true
	default:
		log.Printf("outbound queue for %s overflowed, closing connection", c.id)
		c.close()
		return false
	}
}

// writePump drains the outbound queue until the client closes or a write
// fails.
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.out:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Printf("write to %s failed: %v", c.id, err)
				c.close()
				return
			}
		}
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close(websocket.StatusNormalClosure, "")
	})
}

// ClientManager tracks the live connections so the idle sweep and
// shutdown can reach them.
type ClientManager struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[uuid.UUID]*Client),
	}
}

func (cm *ClientManager) Add(client *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.clients[client.id] = client
}

func (cm *ClientManager) Remove(id uuid.UUID) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.clients, id)
}

func (cm *ClientManager) Get(id uuid.UUID) *Client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.clients[id]
}

func (cm *ClientManager) All() []*Client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	all := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		all = append(all, client)
	}
	return all
}

func (cm *ClientManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}
