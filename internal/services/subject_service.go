package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/storage"
)

// SubjectService keeps short names unique within a period and resolves
// command-line tokens to subjects.
type SubjectService struct {
	subjects storage.SubjectStore
	periods  storage.PeriodStore
	logger   *log.Logger
}

// SubjectChange lists the fields a modify touches. Nil keeps the stored value.
type SubjectChange struct {
	ShortName *string
	Name      *string
}

func NewSubjectService(subjects storage.SubjectStore, periods storage.PeriodStore, logger *log.Logger) *SubjectService {
	if logger == nil {
		logger = log.Discard()
	}
	return &SubjectService{
		subjects: subjects,
		periods:  periods,
		logger:   logger.WithComponent(log.ComponentSubject),
	}
}

func (s *SubjectService) Add(ctx context.Context, periodID int64, shortName, name string) (core.Subject, error) {
	shortName = strings.TrimSpace(shortName)
	if err := core.ValidateShortName(shortName); err != nil {
		return core.Subject{}, err
	}
	if _, err := s.periods.GetPeriod(ctx, periodID); err != nil {
		return core.Subject{}, err
	}
	if err := s.checkUnique(ctx, periodID, shortName, 0); err != nil {
		return core.Subject{}, err
	}

	created, err := s.subjects.InsertSubject(ctx, core.Subject{PeriodID: periodID, ShortName: shortName, Name: name})
	if err != nil {
		return core.Subject{}, fmt.Errorf("add subject: %w", err)
	}

	s.logger.InfoContext(ctx, "Subject added",
		log.FieldSubjectID, created.ID,
		log.FieldPeriodID, periodID,
		log.FieldShortName, shortName)

	return created, nil
}

func (s *SubjectService) Modify(ctx context.Context, id int64, change SubjectChange) (core.Subject, error) {
	sub, err := s.subjects.GetSubject(ctx, id)
	if err != nil {
		return core.Subject{}, err
	}

	if change.ShortName != nil {
		short := strings.TrimSpace(*change.ShortName)
		if err := core.ValidateShortName(short); err != nil {
			return core.Subject{}, err
		}
		if err := s.checkUnique(ctx, sub.PeriodID, short, sub.ID); err != nil {
			return core.Subject{}, err
		}
		sub.ShortName = short
	}
	if change.Name != nil {
		sub.Name = *change.Name
	}

	if err := s.subjects.UpdateSubject(ctx, sub); err != nil {
		return core.Subject{}, fmt.Errorf("modify subject: %w", err)
	}
	s.logger.InfoContext(ctx, "Subject modified", log.FieldSubjectID, sub.ID)
	return sub, nil
}

// Remove deletes the subject and its entries.
func (s *SubjectService) Remove(ctx context.Context, id int64) error {
	if err := s.subjects.DeleteSubject(ctx, id); err != nil {
		return fmt.Errorf("remove subject: %w", err)
	}
	s.logger.InfoContext(ctx, "Subject removed", log.FieldSubjectID, id)
	return nil
}

// SetMark stores the final score. A nil score unmarks the subject.
func (s *SubjectService) SetMark(ctx context.Context, id int64, score *float64) (core.Subject, error) {
	sub, err := s.subjects.GetSubject(ctx, id)
	if err != nil {
		return core.Subject{}, err
	}
	sub.FinalScore = score
	if err := s.subjects.UpdateSubject(ctx, sub); err != nil {
		return core.Subject{}, fmt.Errorf("mark subject: %w", err)
	}

	fields := []any{log.FieldSubjectID, id, log.FieldOperation, log.OpMark}
	if score != nil {
		fields = append(fields, log.FieldScore, *score)
	}
	s.logger.InfoContext(ctx, "Subject mark updated", fields...)
	return sub, nil
}

func (s *SubjectService) Get(ctx context.Context, id int64) (core.Subject, error) {
	return s.subjects.GetSubject(ctx, id)
}

// List returns the subjects of a period ordered by id.
func (s *SubjectService) List(ctx context.Context, periodID int64) ([]core.Subject, error) {
	return s.subjects.ListSubjects(ctx, periodID)
}

// Resolve maps a token to a subject. Integer tokens are ids and ignore periodID.
// Other tokens are short names: a match inside periodID wins, then a match that is
// unique across the store. Several matches elsewhere return core.ErrAmbiguousShortName.
// A periodID of 0 means no period filter.
func (s *SubjectService) Resolve(ctx context.Context, token string, periodID int64) (core.Subject, error) {
	token = strings.TrimSpace(token)
	if id, err := strconv.ParseInt(token, 10, 64); err == nil {
		return s.subjects.GetSubject(ctx, id)
	}

	matches, err := s.subjects.SubjectsByShortName(ctx, token)
	if err != nil {
		return core.Subject{}, err
	}
	if periodID != 0 {
		for _, m := range matches {
			if m.PeriodID == periodID {
				return m, nil
			}
		}
	}

	switch len(matches) {
	case 0:
		return core.Subject{}, fmt.Errorf("subject %q: %w", token, core.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		s.logger.DebugContext(ctx, "Short name matches several periods",
			log.FieldShortName, token,
			log.FieldMatchCount, len(matches))
		return core.Subject{}, fmt.Errorf("subject %q: %w", token, core.ErrAmbiguousShortName)
	}
}

func (s *SubjectService) checkUnique(ctx context.Context, periodID int64, shortName string, selfID int64) error {
	matches, err := s.subjects.SubjectsByShortName(ctx, shortName)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m.PeriodID == periodID && m.ID != selfID {
			return fmt.Errorf("%q: %w", shortName, core.ErrDuplicateShortName)
		}
	}
	return nil
}
