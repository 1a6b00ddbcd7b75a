// Package ws - push-only websocket: сервер отправляет клиенту события
// (новые сообщения, уведомления), входящие сообщения клиента игнорируются.
package ws

import (
	"context"
	"sync"

	"masterhub_backend/internal/logger"
	"masterhub_backend/internal/notifications"
)

type delivery struct {
	userID string
	event  notifications.Event
}

// WebSocketManager держит подключения по профилям (у профиля может быть
// несколько вкладок/устройств) и реализует notifications.Pusher
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	push       chan delivery
	done       chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Run обслуживает регистрацию и доставку до отмены ctx
func (manager *WebSocketManager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			manager.closeAll()
			return

		case client := <-manager.register:
			manager.mu.Lock()
			set, ok := manager.clients[client.UserID]
			if !ok {
				set = make(map[*Client]struct{})
				manager.clients[client.UserID] = set
			}
			set[client] = struct{}{}
			manager.mu.Unlock()
			logger.Debug("websocket client registered", "profile_id", client.UserID, "connections", len(set))

		case client := <-manager.unregister:
			manager.remove(client)

		case d := <-manager.push:
			manager.deliver(d)
		}
	}
}

// PushToUser ставит событие в очередь; не блокирует вызывающий сервис
func (manager *WebSocketManager) PushToUser(userID string, event notifications.Event) {
	select {
	case <-manager.done:
		return
	default:
	}

	select {
	case manager.push <- delivery{userID: userID, event: event}:
	default:
		logger.Warn("websocket push queue is full, dropping event", "profile_id", userID, "type", event.Type)
	}
}

// Connections - число открытых соединений профиля
func (manager *WebSocketManager) Connections(userID string) int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID])
}

func (manager *WebSocketManager) deliver(d delivery) {
	manager.mu.RLock()
	var slow []*Client
	for client := range manager.clients[d.userID] {
		select {
		case client.Send <- d.event:
		default:
			slow = append(slow, client)
		}
	}
	manager.mu.RUnlock()

	// клиент не успевает читать - отключаем
	for _, client := range slow {
		logger.Warn("websocket client is too slow, disconnecting", "profile_id", client.UserID)
		manager.remove(client)
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	set, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(manager.clients, client.UserID)
	}
	logger.Debug("websocket client unregistered", "profile_id", client.UserID)
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for userID, set := range manager.clients {
		for client := range set {
			close(client.Send)
		}
		delete(manager.clients, userID)
	}
}
