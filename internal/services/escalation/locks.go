package escalation

import "sync"

// userLocks выдаёт мьютекс на каждого участника. Нарушения одного
// участника обрабатываются строго последовательно, иначе два нарушения
// подряд прочитают один и тот же счётчик и оба решат, что это первое
// предупреждение.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

// forUser возвращает мьютекс участника, создавая его при первом обращении.
func (l *userLocks) forUser(userID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}
