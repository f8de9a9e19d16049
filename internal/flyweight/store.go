package flyweight

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// store is the backing map of a Cache. All methods are called with Cache.mu held.
type store interface {
	get(key Key) (Payload, bool)
	// peek is get without any effect on eviction order.
	peek(key Key) (Payload, bool)
	add(key Key, p Payload)
	len() int
	keys() []Key
}

// mapStore never evicts.
type mapStore struct {
	items map[Key]Payload
}

func newMapStore() *mapStore {
	return &mapStore{items: make(map[Key]Payload)}
}

func (s *mapStore) get(key Key) (Payload, bool) {
	p, ok := s.items[key]
	return p, ok
}

func (s *mapStore) peek(key Key) (Payload, bool) { return s.get(key) }

func (s *mapStore) add(key Key, p Payload) { s.items[key] = p }

func (s *mapStore) len() int { return len(s.items) }

func (s *mapStore) keys() []Key {
	keys := make([]Key, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	return keys
}

// lruStore keeps at most size payloads, evicting the least recently used.
type lruStore struct {
	items *lru.Cache[Key, Payload]
}

func newLRUStore(size int, onEvict func(Key)) (*lruStore, error) {
	items, err := lru.NewWithEvict(size, func(key Key, _ Payload) {
		onEvict(key)
	})
	if err != nil {
		return nil, err
	}
	return &lruStore{items: items}, nil
}

func (s *lruStore) get(key Key) (Payload, bool) { return s.items.Get(key) }

func (s *lruStore) peek(key Key) (Payload, bool) { return s.items.Peek(key) }

func (s *lruStore) add(key Key, p Payload) { s.items.Add(key, p) }

func (s *lruStore) len() int { return s.items.Len() }

func (s *lruStore) keys() []Key { return s.items.Keys() }
