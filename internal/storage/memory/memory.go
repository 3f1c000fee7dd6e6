package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"studyledger/internal/core"
	"studyledger/internal/storage"
)

type cell struct {
	subjectID int64
	date      string
}

// Store keeps the whole ledger in maps. Every operation holds the mutex,
// so MutateEntry is atomic per cell like the sqlite transaction.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	periods  map[int64]core.Period
	subjects map[int64]core.Subject
	entries  map[cell]core.Entry
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		periods:  map[int64]core.Period{},
		subjects: map[int64]core.Subject{},
		entries:  map[cell]core.Entry{},
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Periods

func (s *Store) InsertPeriod(_ context.Context, p core.Period) (core.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.periods[p.ID] = p
	return p, nil
}

func (s *Store) GetPeriod(_ context.Context, id int64) (core.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[id]
	if !ok {
		return core.Period{}, fmt.Errorf("period %d: %w", id, core.ErrNotFound)
	}
	return p, nil
}

func (s *Store) ListPeriods(_ context.Context) ([]core.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedPeriods(func(core.Period) bool { return true }), nil
}

func (s *Store) PeriodsCovering(_ context.Context, d core.Date) ([]core.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedPeriods(func(p core.Period) bool { return p.Covers(d) }), nil
}

func (s *Store) sortedPeriods(keep func(core.Period) bool) []core.Period {
	out := make([]core.Period, 0, len(s.periods))
	for _, p := range s.periods {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) UpdatePeriod(_ context.Context, p core.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[p.ID]; !ok {
		return fmt.Errorf("period %d: %w", p.ID, core.ErrNotFound)
	}
	s.periods[p.ID] = p
	return nil
}

func (s *Store) DeletePeriod(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[id]; !ok {
		return fmt.Errorf("period %d: %w", id, core.ErrNotFound)
	}
	for sid, sub := range s.subjects {
		if sub.PeriodID == id {
			s.deleteSubjectLocked(sid)
		}
	}
	delete(s.periods, id)
	return nil
}

// Subjects

func (s *Store) InsertSubject(_ context.Context, sub core.Subject) (core.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[sub.PeriodID]; !ok {
		return core.Subject{}, core.NewStoreError("create subject", fmt.Errorf("period %d does not exist", sub.PeriodID))
	}
	for _, other := range s.subjects {
		if other.PeriodID == sub.PeriodID && other.ShortName == sub.ShortName {
			return core.Subject{}, core.NewStoreError("create subject", fmt.Errorf("short name %q already in period %d", sub.ShortName, sub.PeriodID))
		}
	}
	sub.ID = s.id()
	s.subjects[sub.ID] = copySubject(sub)
	return copySubject(sub), nil
}

func (s *Store) GetSubject(_ context.Context, id int64) (core.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subjects[id]
	if !ok {
		return core.Subject{}, fmt.Errorf("subject %d: %w", id, core.ErrNotFound)
	}
	return copySubject(sub), nil
}

func (s *Store) ListSubjects(_ context.Context, periodID int64) ([]core.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSubjects(func(sub core.Subject) bool { return sub.PeriodID == periodID }), nil
}

func (s *Store) SubjectsByShortName(_ context.Context, shortName string) ([]core.Subject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedSubjects(func(sub core.Subject) bool { return sub.ShortName == shortName }), nil
}

func (s *Store) sortedSubjects(keep func(core.Subject) bool) []core.Subject {
	out := make([]core.Subject, 0)
	for _, sub := range s.subjects {
		if keep(sub) {
			out = append(out, copySubject(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) UpdateSubject(_ context.Context, sub core.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.subjects[sub.ID]
	if !ok {
		return fmt.Errorf("subject %d: %w", sub.ID, core.ErrNotFound)
	}
	sub.PeriodID = current.PeriodID
	s.subjects[sub.ID] = copySubject(sub)
	return nil
}

func (s *Store) DeleteSubject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[id]; !ok {
		return fmt.Errorf("subject %d: %w", id, core.ErrNotFound)
	}
	s.deleteSubjectLocked(id)
	return nil
}

func (s *Store) deleteSubjectLocked(id int64) {
	for k := range s.entries {
		if k.subjectID == id {
			delete(s.entries, k)
		}
	}
	delete(s.subjects, id)
}

// Entries

func (s *Store) GetEntry(_ context.Context, subjectID int64, d core.Date) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[cell{subjectID, d.StorageString()}]
	if !ok {
		return core.Entry{}, fmt.Errorf("entry for subject %d on %s: %w", subjectID, d.StorageString(), core.ErrNotFound)
	}
	return e, nil
}

func (s *Store) MutateEntry(_ context.Context, subjectID int64, d core.Date, fn storage.MutateFunc) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[subjectID]; !ok {
		return 0, core.NewStoreError("write entry", fmt.Errorf("subject %d does not exist", subjectID))
	}

	key := cell{subjectID, d.StorageString()}
	existing, present := s.entries[key]
	current := existing.DedicatedTime

	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if next < 0 {
		return current, core.ErrNegativeAmount
	}

	switch {
	case next == 0:
		delete(s.entries, key)
	case present:
		existing.DedicatedTime = next
		s.entries[key] = existing
	default:
		s.entries[key] = core.Entry{ID: s.id(), Date: d, SubjectID: subjectID, DedicatedTime: next}
	}
	return next, nil
}

func (s *Store) SumEntries(_ context.Context, subjectIDs []int64, iv core.Interval) (map[int64]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := idSet(subjectIDs)
	sums := make(map[int64]int64, len(subjectIDs))
	for _, e := range s.entries {
		if _, ok := wanted[e.SubjectID]; ok && iv.Contains(e.Date) {
			sums[e.SubjectID] += e.DedicatedTime
		}
	}
	return sums, nil
}

func (s *Store) ListEntries(_ context.Context, subjectIDs []int64, iv core.Interval) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := idSet(subjectIDs)
	var out []core.Entry
	for _, e := range s.entries {
		if _, ok := wanted[e.SubjectID]; ok && iv.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return out, nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func copySubject(sub core.Subject) core.Subject {
	if sub.FinalScore != nil {
		score := *sub.FinalScore
		sub.FinalScore = &score
	}
	return sub
}
