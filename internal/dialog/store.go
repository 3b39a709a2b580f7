package dialog

import "sync"

// Store — процессная карта сессий по chat id. Ничего не переживает
// рестарт. Create затирает прежнюю сессию чата без слияния.
type Store struct {
	mu    sync.Mutex
	data  map[int64]*Session
	locks map[int64]*chatLock
}

// chatLock — мьютекс чата со счётчиком держателей и ожидающих.
// Запись в locks живёт только пока refs > 0, карта не растёт
// бесконечно по числу когда-либо видевшихся чатов.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

func NewStore() *Store {
	return &Store{
		data:  make(map[int64]*Session),
		locks: make(map[int64]*chatLock),
	}
}

func (s *Store) Create(chatID int64, who Identity) *Session {
	sess := newSession(chatID, who)
	s.mu.Lock()
	s.data[chatID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(chatID int64) (*Session, bool) {
	s.mu.Lock()
	sess, ok := s.data[chatID]
	s.mu.Unlock()
	return sess, ok
}

func (s *Store) Delete(chatID int64) {
	s.mu.Lock()
	delete(s.data, chatID)
	s.mu.Unlock()
}

// Lock сериализует обработку событий одного чата: следующее событие
// того же чата ждёт завершения предыдущего, разные чаты независимы.
// Возвращает функцию разблокировки.
func (s *Store) Lock(chatID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &chatLock{}
		s.locks[chatID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, chatID)
		}
		s.mu.Unlock()
	}
}
