package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/fasthttp/websocket"
)

// Conn lo que el hub necesita de una conexión; *websocket.Conn lo cumple
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client una conexión viva etiquetada con su rol y, para equipos, su
// identidad. Un cliente pertenece como máximo a una sala.
type Client struct {
	conn   Conn
	Role   string
	TeamID string

	mu   sync.Mutex
	room string
}

func NewClient(conn Conn, role, teamID string) *Client {
	return &Client{conn: conn, Role: role, TeamID: teamID}
}

// Room devuelve la sala actual del cliente, o "" si no está en ninguna
func (c *Client) Room() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// Send envía un evento nombrado solo a este cliente
func (c *Client) Send(event string, data interface{}) error {
	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Message envelope de todos los eventos, en ambas direcciones
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type outbound struct {
	room    string
	payload []byte
}

// Hub es el registro de salas y el despachador de broadcasts: mapea cada
// código de sesión al conjunto de clientes conectados y reparte eventos a
// toda la sala. La entrega es fire-and-forget por socket.
type Hub struct {
	rooms     map[string]map[*Client]struct{}
	broadcast chan outbound
	mutex     sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[string]map[*Client]struct{}),
		broadcast: make(chan outbound, 64),
	}
}

// Run atiende los broadcasts; debe correr en su propia goroutine
func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.deliver(msg.room, msg.payload)
	}
}

// Join registra al cliente en la sala. Unirse a una sala nueva lo saca
// implícitamente de la anterior.
func (h *Hub) Join(client *Client, room string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client.mu.Lock()
	prev := client.room
	client.room = room
	client.mu.Unlock()

	if prev != "" && prev != room {
		h.removeLocked(client, prev)
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}
	log.Printf("client joined room %s (members: %d)", room, len(h.rooms[room]))
}

// Leave saca al cliente de su sala y cierra la conexión; se invoca
// automáticamente en el disconnect
func (h *Hub) Leave(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client.mu.Lock()
	room := client.room
	client.room = ""
	client.mu.Unlock()

	if room != "" {
		h.removeLocked(client, room)
		log.Printf("client left room %s (members: %d)", room, len(h.rooms[room]))
	}
	client.conn.Close()
}

// Broadcast reparte un evento nombrado a todos los sockets de la sala
func (h *Hub) Broadcast(room, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		log.Printf("could not encode %s event: %v", event, err)
		return
	}
	h.broadcast <- outbound{room: room, payload: payload}
}

// RoomSize cantidad de clientes conectados a una sala
func (h *Hub) RoomSize(room string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}

// deliver escribe a todos los miembros de la sala. Las escrituras ocurren
// fuera del lock del hub: un socket lento no bloquea joins ni otras salas.
func (h *Hub) deliver(room string, payload []byte) {
	h.mutex.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		members = append(members, client)
	}
	h.mutex.RUnlock()

	var failed []*Client
	for _, client := range members {
		client.mu.Lock()
		err := client.conn.WriteMessage(websocket.TextMessage, payload)
		client.mu.Unlock()
		if err != nil {
			log.Printf("dropping client in room %s: %v", room, err)
			failed = append(failed, client)
		}
	}

	if len(failed) > 0 {
		h.mutex.Lock()
		for _, client := range failed {
			h.removeLocked(client, room)
		}
		h.mutex.Unlock()
		for _, client := range failed {
			client.conn.Close()
		}
	}
}

func (h *Hub) removeLocked(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}
