package ws

import (
	"fmt"
	"sync"

	"github.com/ignatzorin/cityreport-backend/internal/models"
)

// LiveChannel канал живой доставки одного подключения.
// Push не ждёт подтверждения от клиента.
type LiveChannel interface {
	Push(event string, payload any) error
}

// Registry хранит, какие участники сейчас на связи.
// Граждане и сотрудники лежат в разных картах: их идентификаторы пересекаются.
type Registry struct {
	mu       sync.RWMutex
	users    map[int64]LiveChannel
	officers map[int64]LiveChannel
}

// NewRegistry создаёт пустой реестр. После рестарта все участники офлайн, пока не переподключатся.
func NewRegistry() *Registry {
	return &Registry{
		users:    make(map[int64]LiveChannel),
		officers: make(map[int64]LiveChannel),
	}
}

// Register связывает участника с каналом, заменяя прежнюю связь.
func (r *Registry) Register(party models.Party, ch LiveChannel) error {
	if ch == nil {
		return fmt.Errorf("ws: пустой канал для %s/%d", party.Kind, party.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch party.Kind {
	case models.PartyUser:
		r.users[party.ID] = ch
	case models.PartyOfficer:
		r.officers[party.ID] = ch
	default:
		return fmt.Errorf("ws: неизвестный тип участника %q", party.Kind)
	}
	return nil
}

// Unregister удаляет участника, за которым сейчас закреплён канал.
// Тип участника при отключении неизвестен, поэтому просматриваются обе карты.
func (r *Registry) Unregister(ch LiveChannel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.users {
		if c == ch {
			delete(r.users, id)
		}
	}
	for id, c := range r.officers {
		if c == ch {
			delete(r.officers, id)
		}
	}
}

// Lookup возвращает канал участника, если он на связи.
func (r *Registry) Lookup(party models.Party) (LiveChannel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		ch LiveChannel
		ok bool
	)
	switch party.Kind {
	case models.PartyUser:
		ch, ok = r.users[party.ID]
	case models.PartyOfficer:
		ch, ok = r.officers[party.ID]
	}
	return ch, ok
}

// Online возвращает количество подключённых граждан и сотрудников.
func (r *Registry) Online() (users, officers int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), len(r.officers)
}
