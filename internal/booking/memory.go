package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// MemoryStore is an in-process Store used by tests and local tooling.
// Field locks are per-field mutexes.  Writes made through the Store passed
// to a WithFieldLock callback are applied immediately and undone if the
// callback fails.
type MemoryStore struct {
	mu           sync.RWMutex
	fields       map[uint64]model.Field
	users        map[uint64]model.User
	reservations map[uint64]model.Reservation
	nextID       uint64

	locksMu sync.Mutex
	locks   map[uint64]*sync.Mutex

	now func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		fields:       map[uint64]model.Field{},
		users:        map[uint64]model.User{},
		reservations: map[uint64]model.Reservation{},
		locks:        map[uint64]*sync.Mutex{},
		now:          time.Now,
	}
}

// PutField inserts or replaces a field.
func (s *MemoryStore) PutField(f model.Field) {
	s.mu.Lock()
	s.fields[f.ID] = f
	s.mu.Unlock()
}

// PutUser inserts or replaces a user.
func (s *MemoryStore) PutUser(u model.User) {
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
}

// PutReservation inserts or replaces a reservation as is.
func (s *MemoryStore) PutReservation(r model.Reservation) {
	s.mu.Lock()
	s.reservations[r.ID] = r
	if r.ID > s.nextID {
		s.nextID = r.ID
	}
	s.mu.Unlock()
}

// DeleteField removes a field and cascades to its reservations.
func (s *MemoryStore) DeleteField(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fields, id)
	for rid, r := range s.reservations {
		if r.FieldID == id {
			delete(s.reservations, rid)
		}
	}
}

// Count returns the number of stored reservations.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reservations)
}

func (s *MemoryStore) FindField(_ context.Context, id uint64) (*model.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fields[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *MemoryStore) FindReservation(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *MemoryStore) FindDetail(_ context.Context, id uint64) (*model.ReservationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	d := s.enrich(r)
	return &d, nil
}

func (s *MemoryStore) FindReservations(_ context.Context, f model.ReservationFilter) ([]model.ReservationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ReservationDetail, 0)
	for _, r := range s.reservations {
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.FieldID != 0 && r.FieldID != f.FieldID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Date != "" && r.Date != f.Date {
			continue
		}
		out = append(out, s.enrich(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime > out[j].StartTime
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) FindBlocking(_ context.Context, q SlotQuery) ([]model.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Reservation
	for _, r := range s.reservations {
		if r.FieldID != q.FieldID || r.Date != q.Date || r.ID == q.ExcludeID {
			continue
		}
		if model.BlocksAvailability(r.Status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertReservation(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := s.now()
	r.ID = s.nextID
	r.CreatedAt, r.UpdatedAt = now, now
	s.reservations[r.ID] = *r
	return nil
}

func (s *MemoryStore) UpdateReservationStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil
	}
	r.Status = status
	r.UpdatedAt = s.now()
	s.reservations[id] = r
	return nil
}

func (s *MemoryStore) DeleteReservation(_ context.Context, id uint64) error {
	s.mu.Lock()
	delete(s.reservations, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) WithFieldLock(ctx context.Context, fieldID uint64, fn func(ctx context.Context, st Store) error) error {
	l := s.fieldLock(fieldID)
	l.Lock()
	defer l.Unlock()

	ls := &lockedStore{MemoryStore: s, prior: map[uint64]*model.Reservation{}}
	if err := fn(ctx, ls); err != nil {
		ls.undo()
		return err
	}
	return nil
}

// lockedStore is the Store handed to a WithFieldLock callback.  It records
// the prior state of every reservation it writes so that a failed callback
// undoes its own writes and nothing else.
type lockedStore struct {
	*MemoryStore
	prior map[uint64]*model.Reservation // nil entry: inserted by the callback
}

func (ls *lockedStore) InsertReservation(ctx context.Context, r *model.Reservation) error {
	if err := ls.MemoryStore.InsertReservation(ctx, r); err != nil {
		return err
	}
	ls.prior[r.ID] = nil
	return nil
}

func (ls *lockedStore) UpdateReservationStatus(ctx context.Context, id uint64, status string) error {
	ls.remember(id)
	return ls.MemoryStore.UpdateReservationStatus(ctx, id, status)
}

func (ls *lockedStore) DeleteReservation(ctx context.Context, id uint64) error {
	ls.remember(id)
	return ls.MemoryStore.DeleteReservation(ctx, id)
}

// WithFieldLock on a locked store runs fn in the same scope.
func (ls *lockedStore) WithFieldLock(ctx context.Context, _ uint64, fn func(ctx context.Context, st Store) error) error {
	return fn(ctx, ls)
}

func (ls *lockedStore) remember(id uint64) {
	if _, seen := ls.prior[id]; seen {
		return
	}
	ls.mu.RLock()
	r, ok := ls.reservations[id]
	ls.mu.RUnlock()
	if ok {
		ls.prior[id] = &r
	}
}

func (ls *lockedStore) undo() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for id, r := range ls.prior {
		if r == nil {
			delete(ls.reservations, id)
		} else {
			ls.reservations[id] = *r
		}
	}
}

func (s *MemoryStore) fieldLock(id uint64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// enrich must be called with s.mu held.
func (s *MemoryStore) enrich(r model.Reservation) model.ReservationDetail {
	d := model.ReservationDetail{Reservation: r}
	if f, ok := s.fields[r.FieldID]; ok {
		d.Field = model.FieldSummary{ID: f.ID, Name: f.Name, HourlyRate: f.HourlyRate}
	}
	if u, ok := s.users[r.UserID]; ok {
		d.User = model.OwnerSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
	}
	return d
}
