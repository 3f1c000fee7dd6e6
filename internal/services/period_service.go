package services

import (
	"context"
	"fmt"

	"studyledger/internal/core"
	"studyledger/internal/log"
	"studyledger/internal/storage"
)

// PeriodService enforces the period invariants over a PeriodStore:
// start <= end, and no two stored periods share a day.
type PeriodService struct {
	periods storage.PeriodStore
	logger  *log.Logger
}

// PeriodChange lists the fields a modify touches. Nil keeps the stored value.
type PeriodChange struct {
	Start       *core.Date
	End         *core.Date
	Description *string
}

func NewPeriodService(periods storage.PeriodStore, logger *log.Logger) *PeriodService {
	if logger == nil {
		logger = log.Discard()
	}
	return &PeriodService{
		periods: periods,
		logger:  logger.WithComponent(log.ComponentPeriod),
	}
}

// Create stores a new period after checking its range and every existing period.
func (s *PeriodService) Create(ctx context.Context, start, end core.Date, description string) (core.Period, error) {
	p := core.Period{Start: start, End: end, Description: description}
	if err := p.Validate(); err != nil {
		return core.Period{}, err
	}
	if err := s.checkOverlap(ctx, p); err != nil {
		return core.Period{}, err
	}

	created, err := s.periods.InsertPeriod(ctx, p)
	if err != nil {
		return core.Period{}, fmt.Errorf("create period: %w", err)
	}

	s.logger.InfoContext(ctx, "Period created",
		log.FieldPeriodID, created.ID,
		log.FieldFrom, created.Start.StorageString(),
		log.FieldTo, created.End.StorageString())

	return created, nil
}

// Modify applies change to the period and re-checks overlap against every other period.
func (s *PeriodService) Modify(ctx context.Context, id int64, change PeriodChange) (core.Period, error) {
	p, err := s.periods.GetPeriod(ctx, id)
	if err != nil {
		return core.Period{}, err
	}

	if change.Start != nil {
		p.Start = *change.Start
	}
	if change.End != nil {
		p.End = *change.End
	}
	if change.Description != nil {
		p.Description = *change.Description
	}

	if err := p.Validate(); err != nil {
		return core.Period{}, err
	}
	if err := s.checkOverlap(ctx, p); err != nil {
		return core.Period{}, err
	}
	if err := s.periods.UpdatePeriod(ctx, p); err != nil {
		return core.Period{}, fmt.Errorf("modify period: %w", err)
	}

	s.logger.InfoContext(ctx, "Period modified", log.FieldPeriodID, p.ID)
	return p, nil
}

// Remove deletes the period with its subjects and entries.
func (s *PeriodService) Remove(ctx context.Context, id int64) error {
	if err := s.periods.DeletePeriod(ctx, id); err != nil {
		return fmt.Errorf("remove period: %w", err)
	}
	s.logger.InfoContext(ctx, "Period removed", log.FieldPeriodID, id)
	return nil
}

func (s *PeriodService) Get(ctx context.Context, id int64) (core.Period, error) {
	return s.periods.GetPeriod(ctx, id)
}

// List returns every period by ascending start date.
func (s *PeriodService) List(ctx context.Context) ([]core.Period, error) {
	return s.periods.ListPeriods(ctx)
}

// FindCovering returns the period containing d. When the store holds overlapping
// periods the earliest one wins and the conflict is logged.
func (s *PeriodService) FindCovering(ctx context.Context, d core.Date) (core.Period, error) {
	covering, err := s.periods.PeriodsCovering(ctx, d)
	if err != nil {
		return core.Period{}, err
	}
	if len(covering) == 0 {
		return core.Period{}, fmt.Errorf("no period covers %s: %w", d.StorageString(), core.ErrNotFound)
	}
	if len(covering) > 1 {
		for _, other := range covering[1:] {
			s.logger.WarnContext(ctx, "Overlapping periods in store, using the earliest",
				log.FieldDate, d.StorageString(),
				log.FieldPeriodID, covering[0].ID,
				log.FieldConflictID, other.ID,
				log.FieldMatchCount, len(covering))
		}
	}
	return covering[0], nil
}

// checkOverlap compares p against every stored period except itself.
func (s *PeriodService) checkOverlap(ctx context.Context, p core.Period) error {
	all, err := s.periods.ListPeriods(ctx)
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.ID == p.ID && p.ID != 0 {
			continue
		}
		if core.Overlaps(p.Interval(), other.Interval()) {
			s.logger.DebugContext(ctx, "Period rejected for overlap",
				log.FieldPeriodID, p.ID,
				log.FieldConflictID, other.ID)
			return &core.OverlapError{Conflict: other}
		}
	}
	return nil
}
