package queue

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"walkin_queue/internal/metrics"
	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

type Fit string

const (
	FitOptimal  Fit = "optimal"
	FitTooLarge Fit = "too_large"
	FitTooSmall Fit = "too_small"
)

// classifyFit оценивает стол для группы: slack = вместимость − размер группы.
func classifyFit(capacity, partySize, optimalSlack int) Fit {
	slack := capacity - partySize
	switch {
	case slack < 0:
		return FitTooSmall
	case slack <= optimalSlack:
		return FitOptimal
	default:
		return FitTooLarge
	}
}

type Candidate struct {
	Entry models.QueueEntry `json:"entry"`
	Fit   Fit               `json:"fit"`
	Slack int               `json:"slack"`
}

type Recommendation struct {
	Table                        models.Table `json:"table"`
	Recommended                  *Candidate   `json:"recommended,omitempty"`
	CombineWithExistingTable     bool         `json:"combine_with_existing_table"`
	RequiresOverflowConfirmation bool         `json:"requires_overflow_confirmation"`
	Alternatives                 []Candidate  `json:"alternatives"`
}

// callOrderLess: порядок вызова: приоритетные раньше, затем по позиции и времени постановки.
func callOrderLess(a, b *models.QueueEntry) bool {
	if a.IsPrioritized() != b.IsPrioritized() {
		return a.IsPrioritized()
	}
	if a.IsPrioritized() && !a.PrioritizedAt.Equal(*b.PrioritizedAt) {
		return a.PrioritizedAt.Before(*b.PrioritizedAt)
	}
	if a.QueuePosition != b.QueuePosition {
		return a.QueuePosition < b.QueuePosition
	}
	return a.QueuedAt.Before(b.QueuedAt)
}

func fitRank(f Fit) int {
	switch f {
	case FitOptimal:
		return 0
	case FitTooLarge:
		return 1
	}
	return 2
}

// rankCandidates отбирает ожидающие неудержанные записи и сортирует их для стола:
// подходящие по размеру раньше слишком больших групп, затем приоритет,
// затем качество посадки, позиция и время постановки.
func rankCandidates(entries []models.QueueEntry, capacity, optimalSlack int) []Candidate {
	var out []Candidate
	for _, e := range entries {
		if e.Status != models.StatusWaiting || e.IsHeld {
			continue
		}
		out = append(out, Candidate{
			Entry: e,
			Fit:   classifyFit(capacity, e.PartySize, optimalSlack),
			Slack: capacity - e.PartySize,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		aFits, bFits := a.Fit != FitTooSmall, b.Fit != FitTooSmall
		if aFits != bFits {
			return aFits
		}
		if a.Entry.IsPrioritized() != b.Entry.IsPrioritized() {
			return a.Entry.IsPrioritized()
		}
		if fitRank(a.Fit) != fitRank(b.Fit) {
			return fitRank(a.Fit) < fitRank(b.Fit)
		}
		return callOrderLess(&a.Entry, &b.Entry)
	})
	return out
}

// GetTableRecommendation подбирает гостя для освободившегося стола.
func (s *Service) GetTableRecommendation(ctx context.Context, outletID, tableID uuid.UUID) (*Recommendation, error) {
	return s.recommend(ctx, outletID, tableID, storage.ReadReplica)
}

func (s *Service) recommend(ctx context.Context, outletID, tableID uuid.UUID, mode storage.ReadMode) (*Recommendation, error) {
	table, err := s.table(ctx, outletID, tableID)
	if err != nil {
		return nil, err
	}
	entries, _, err := s.store.ListEntries(ctx, storage.EntryFilter{
		OutletID: outletID,
		Statuses: []models.QueueStatus{models.StatusWaiting},
		Mode:     mode,
	})
	if err != nil {
		return nil, storeErr("list candidates", err)
	}

	ranked := rankCandidates(entries, table.Capacity, s.cfg.OptimalSlack)
	rec := &Recommendation{Table: *table, Alternatives: []Candidate{}}
	if len(ranked) == 0 {
		return rec, nil
	}
	top := ranked[0]
	rec.Recommended = &top
	rec.CombineWithExistingTable = top.Fit == FitTooSmall
	rec.RequiresOverflowConfirmation = top.Fit == FitTooLarge

	rest := ranked[1:]
	if len(rest) > s.cfg.Alternatives {
		rest = rest[:s.cfg.Alternatives]
	}
	rec.Alternatives = append(rec.Alternatives, rest...)
	return rec, nil
}

func (s *Service) table(ctx context.Context, outletID, tableID uuid.UUID) (*models.Table, error) {
	t, err := s.directory.GetTable(ctx, tableID)
	if err != nil {
		return nil, storeErr("get table", err)
	}
	if t.OutletID != outletID {
		return nil, fmt.Errorf("table %s at outlet %s: %w", tableID, outletID, ErrNotFound)
	}
	if !t.IsActive {
		return nil, validationf("table %s is not active", t.TableNumber)
	}
	return t, nil
}

type AssignRequest struct {
	EntryID             uuid.UUID
	TableID             uuid.UUID
	StaffID             string
	ConfirmedOverflow   bool
	CombineWithExisting bool
}

// AssignTable привязывает запись к столу и возвращает запись. Статус записи не меняется,
// сама привязка видна в событии table_assigned.
func (s *Service) AssignTable(ctx context.Context, req AssignRequest) (*models.QueueEntry, error) {
	e, err := s.store.GetEntry(ctx, req.EntryID, storage.ReadPrimary)
	if err != nil {
		return nil, storeErr("get entry", err)
	}
	a, fit, err := s.assign(ctx, e, req)
	if err != nil {
		return nil, err
	}
	s.emitAssigned(ctx, e, a, fit)
	return e, nil
}

// assign только сохраняет привязку: событие отправляет вызывающий,
// когда вся операция завершилась успешно.
func (s *Service) assign(ctx context.Context, e *models.QueueEntry, req AssignRequest) (*models.QueueTableAssignment, Fit, error) {
	if !e.Status.IsActive() {
		return nil, "", fmt.Errorf("%w: cannot assign a table to entry in status %s", ErrInvalidTransition, e.Status)
	}
	table, err := s.table(ctx, e.OutletID, req.TableID)
	if err != nil {
		return nil, "", err
	}
	fit := classifyFit(table.Capacity, e.PartySize, s.cfg.OptimalSlack)
	if fit == FitTooSmall && !req.CombineWithExisting {
		return nil, "", fmt.Errorf("%w: table %s seats %d, party of %d", ErrCapacityMismatch, table.TableNumber, table.Capacity, e.PartySize)
	}

	a := &models.QueueTableAssignment{
		ID:                       uuid.New(),
		QueueEntryID:             e.ID,
		TableID:                  table.ID,
		TableNumber:              table.TableNumber,
		TableCapacity:            table.Capacity,
		Status:                   models.AssignmentAssigned,
		AssignedBy:               req.StaffID,
		CombineWithExistingTable: req.CombineWithExisting,
		StaffConfirmedOverflow:   fit == FitTooLarge && req.ConfirmedOverflow,
		AssignedAt:               s.now(),
	}
	if err := s.store.InsertAssignment(ctx, a); err != nil {
		err = storeErr("assign table", err)
		if errors.Is(err, ErrTableConflict) {
			metrics.TableConflicts.Inc()
		}
		return nil, "", err
	}
	s.log.Info("стол назначен", "entry_id", e.ID, "table", table.TableNumber, "fit", fit, "staff", req.StaffID)
	return a, fit, nil
}

func (s *Service) emitAssigned(ctx context.Context, e *models.QueueEntry, a *models.QueueTableAssignment, fit Fit) {
	s.emit(ctx, EventTableAssigned, e, map[string]any{
		"assignment_id":               a.ID,
		"table_id":                    a.TableID,
		"table_number":                a.TableNumber,
		"fit":                         fit,
		"combine_with_existing_table": a.CombineWithExistingTable,
		"staff_confirmed_overflow":    a.StaffConfirmedOverflow,
	})
}

type CallResult struct {
	Entry      *models.QueueEntry           `json:"entry"`
	Assignment *models.QueueTableAssignment `json:"assignment"`
	Fit        Fit                          `json:"fit"`
}

// CallNextCustomer выбирает следующего гостя для стола, назначает стол и вызывает гостя.
func (s *Service) CallNextCustomer(ctx context.Context, outletID, tableID uuid.UUID, staffID string) (*CallResult, error) {
	rec, err := s.recommend(ctx, outletID, tableID, storage.ReadPrimary)
	if err != nil {
		return nil, err
	}
	if rec.Recommended == nil {
		return nil, fmt.Errorf("table %s: %w", rec.Table.TableNumber, ErrNoEligibleEntry)
	}
	top := rec.Recommended
	if top.Fit == FitTooSmall {
		return nil, fmt.Errorf("%w: no waiting party fits table %s", ErrCapacityMismatch, rec.Table.TableNumber)
	}

	entry := top.Entry
	a, _, err := s.assign(ctx, &entry, AssignRequest{
		EntryID:           entry.ID,
		TableID:           tableID,
		StaffID:           staffID,
		ConfirmedOverflow: top.Fit == FitTooLarge,
	})
	if err != nil {
		return nil, err
	}

	reason := "called to table " + rec.Table.TableNumber
	if err := s.applyTransition(ctx, &entry, models.StatusCalled, reason, &staffID, defaultTransition); err != nil {
		if rerr := s.store.ReleaseAssignment(ctx, a.ID, s.now()); rerr != nil {
			s.log.Error("не удалось освободить стол после ошибки вызова", "assignment_id", a.ID, "err", rerr)
		}
		return nil, err
	}
	s.emitAssigned(ctx, &entry, a, top.Fit)
	return &CallResult{Entry: &entry, Assignment: a, Fit: top.Fit}, nil
}
