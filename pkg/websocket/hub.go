package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub управляет всеми клиентами и адресной рассылкой уведомлений.
// Клиент подписывается на конкретные id оборудования, и уведомление об
// изменении уходит только подписчикам этого оборудования — никаких
// широковещательных "обновите всё".
type Hub struct {
	clients          map[*Client]bool
	equipmentClients map[uint64][]*Client
	Register         chan *Client
	unregister       chan *Client
	mu               sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:          make(map[*Client]bool),
		equipmentClients: make(map[uint64][]*Client),
		Register:         make(chan *Client),
		unregister:       make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			for _, id := range client.EquipmentIDs {
				h.equipmentClients[id] = append(h.equipmentClients[id], client)
			}
			log.Printf("Клиент зарегистрирован: подписка на %d ед. оборудования", len(client.EquipmentIDs))
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				for _, id := range client.EquipmentIDs {
					clients := h.equipmentClients[id]
					for i, c := range clients {
						if c == client {
							h.equipmentClients[id] = append(clients[:i], clients[i+1:]...)
							break
						}
					}
					if len(h.equipmentClients[id]) == 0 {
						delete(h.equipmentClients, id)
					}
				}
				log.Printf("Клиент отсоединён")
			}
			h.mu.Unlock()
		}
	}
}

// NotifyEquipment отправляет payload всем подписчикам данного оборудования.
func (h *Hub) NotifyEquipment(equipmentID uint64, payload interface{}) {
	envelope := Envelope{
		Type:      "equipment.changed",
		Payload:   payload,
		Timestamp: time.Now(),
	}
	message, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("не удалось сериализовать уведомление: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.equipmentClients[equipmentID] {
		select {
		case client.Send <- message:
		default:
			// Медленный клиент не должен задерживать остальных.
		}
	}
}
