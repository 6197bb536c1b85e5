package queue

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"walkin_queue/internal/metrics"
	"walkin_queue/internal/models"
	"walkin_queue/internal/storage"

	"github.com/google/uuid"
)

const (
	maxNameLength     = 100
	maxRequestsLength = 500
	codeAttempts      = 5
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

func normalizePhone(p string) string {
	return phoneStripper.Replace(strings.TrimSpace(p))
}

type CreateEntryRequest struct {
	OutletID        uuid.UUID
	CustomerName    string
	CustomerPhone   string
	PartySize       int
	SpecialRequests string
}

// UpdateEntryRequest: частичное обновление: nil означает «не менять».
type UpdateEntryRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerPhone   *string `json:"customer_phone"`
	PartySize       *int    `json:"party_size"`
	SpecialRequests *string `json:"special_requests"`
}

func (r UpdateEntryRequest) Empty() bool {
	return r.CustomerName == nil && r.CustomerPhone == nil && r.PartySize == nil && r.SpecialRequests == nil
}

// apply переносит заданные поля в запись.
func (r UpdateEntryRequest) apply(e *models.QueueEntry) {
	if r.CustomerName != nil {
		e.CustomerName = strings.TrimSpace(*r.CustomerName)
	}
	if r.CustomerPhone != nil {
		e.CustomerPhone = normalizePhone(*r.CustomerPhone)
	}
	if r.PartySize != nil {
		e.PartySize = *r.PartySize
	}
	if r.SpecialRequests != nil {
		e.SpecialRequests = strings.TrimSpace(*r.SpecialRequests)
	}
}

func (s *Service) validateGuest(name, phone string, partySize int, requests string) error {
	if name == "" || len([]rune(name)) > maxNameLength {
		return validationf("customer name must be 1-%d characters", maxNameLength)
	}
	if !phonePattern.MatchString(phone) {
		return validationf("customer phone %q is not a valid phone number", phone)
	}
	if partySize < 1 || partySize > s.cfg.MaxPartySize {
		return validationf("party size must be between 1 and %d", s.cfg.MaxPartySize)
	}
	if len([]rune(requests)) > maxRequestsLength {
		return validationf("special requests must be at most %d characters", maxRequestsLength)
	}
	return nil
}

func (s *Service) ensureNoActiveEntry(ctx context.Context, outletID uuid.UUID, phone string, except uuid.UUID) error {
	entries, _, err := s.store.ListEntries(ctx, storage.EntryFilter{
		OutletID: outletID,
		Statuses: models.ActiveStatuses(),
		Phone:    phone,
		Mode:     storage.ReadPrimary,
	})
	if err != nil {
		return storeErr("check active entry", err)
	}
	for _, e := range entries {
		if e.ID != except {
			return validationf("phone already has an active entry %s", e.Code)
		}
	}
	return nil
}

// CreateQueueEntry ставит гостя в конец очереди точки.
func (s *Service) CreateQueueEntry(ctx context.Context, req CreateEntryRequest) (*models.QueueEntry, error) {
	name := strings.TrimSpace(req.CustomerName)
	phone := normalizePhone(req.CustomerPhone)
	requests := strings.TrimSpace(req.SpecialRequests)
	if err := s.validateGuest(name, phone, req.PartySize, requests); err != nil {
		return nil, err
	}

	outlet, err := s.directory.GetOutlet(ctx, req.OutletID)
	if err != nil {
		return nil, storeErr("get outlet", err)
	}
	if !outlet.QueueEnabled {
		return nil, validationf("walk-in queue is disabled for outlet %s", outlet.Name)
	}
	if err := s.ensureNoActiveEntry(ctx, req.OutletID, phone, uuid.Nil); err != nil {
		return nil, err
	}

	// Проверка выше даёт понятную ошибку с кодом записи; гонку двух
	// одновременных постановок закрывает InsertEntry.
	now := s.now()
	e := &models.QueueEntry{
		ID:              uuid.New(),
		OutletID:        req.OutletID,
		CustomerName:    name,
		CustomerPhone:   phone,
		PartySize:       req.PartySize,
		SpecialRequests: requests,
		Status:          models.StatusWaiting,
		QueuedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for attempt := 1; ; attempt++ {
		if e.Code, err = newCode(); err != nil {
			return nil, err
		}
		err = s.store.InsertEntry(ctx, e)
		if !errors.Is(err, storage.ErrDuplicate) || attempt == codeAttempts {
			break
		}
	}
	if err != nil {
		return nil, storeErr("insert entry", err)
	}

	if minutes, err := s.estimateFor(ctx, e); err != nil {
		s.log.Warn("не удалось оценить ожидание", "entry_id", e.ID, "err", err)
	} else {
		e.EstimatedWaitMinutes = minutes
		if err := s.store.UpdateWaitEstimates(ctx, map[uuid.UUID]int{e.ID: minutes}); err != nil {
			s.log.Warn("не удалось сохранить оценку ожидания", "entry_id", e.ID, "err", err)
		}
	}

	metrics.EntriesCreated.Inc()
	s.log.Info("гость встал в очередь", "entry_id", e.ID, "code", e.Code, "outlet_id", e.OutletID, "position", e.QueuePosition, "party", e.PartySize)
	s.emit(ctx, EventEntryCreated, e, map[string]any{"party_size": e.PartySize})
	if err := s.notifier.SendConfirmation(ctx, e); err != nil {
		metrics.NotificationsFailed.Inc()
		s.log.Warn("подтверждение не отправлено", "entry_id", e.ID, "err", err)
	}
	return e, nil
}

func (s *Service) GetQueueEntry(ctx context.Context, id uuid.UUID) (*models.QueueEntry, error) {
	e, err := s.store.GetEntry(ctx, id, storage.ReadReplica)
	if err != nil {
		return nil, storeErr("get entry", err)
	}
	return e, nil
}

func (s *Service) GetQueueEntryByCode(ctx context.Context, code string) (*models.QueueEntry, error) {
	e, err := s.store.GetEntryByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, storeErr("get entry by code", err)
	}
	return e, nil
}

// ListQueueEntries: записи точки по возрастанию позиции. Без фильтра: все незакрытые.
func (s *Service) ListQueueEntries(ctx context.Context, outletID uuid.UUID, statuses []models.QueueStatus) ([]models.QueueEntry, error) {
	if len(statuses) == 0 {
		statuses = models.OpenStatuses()
	}
	entries, _, err := s.store.ListEntries(ctx, storage.EntryFilter{OutletID: outletID, Statuses: statuses})
	if err != nil {
		return nil, storeErr("list entries", err)
	}
	return entries, nil
}

type SearchParams struct {
	OutletID uuid.UUID
	Query    string
	Statuses []models.QueueStatus
	Page     int
	PageSize int
}

type Page struct {
	Items    []models.QueueEntry `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchQueueEntries ищет по имени, телефону и коду с постраничной выдачей.
func (s *Service) SearchQueueEntries(ctx context.Context, p SearchParams) (*Page, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	items, total, err := s.store.ListEntries(ctx, storage.EntryFilter{
		OutletID: p.OutletID,
		Statuses: p.Statuses,
		Search:   p.Query,
		Limit:    p.PageSize,
		Offset:   (p.Page - 1) * p.PageSize,
	})
	if err != nil {
		return nil, storeErr("search entries", err)
	}
	if items == nil {
		items = []models.QueueEntry{}
	}
	return &Page{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

// UpdateQueueEntry меняет данные гостя у незакрытой записи.
func (s *Service) UpdateQueueEntry(ctx context.Context, id uuid.UUID, req UpdateEntryRequest) (*models.QueueEntry, error) {
	if req.Empty() {
		return nil, validationf("nothing to update")
	}
	e, err := s.store.GetEntry(ctx, id, storage.ReadPrimary)
	if err != nil {
		return nil, storeErr("get entry", err)
	}
	if e.Status.IsTerminal() {
		return nil, validationf("entry %s is closed (%s)", e.Code, e.Status)
	}

	oldPhone, oldParty := e.CustomerPhone, e.PartySize
	req.apply(e)
	if err := s.validateGuest(e.CustomerName, e.CustomerPhone, e.PartySize, e.SpecialRequests); err != nil {
		return nil, err
	}
	if e.CustomerPhone != oldPhone {
		if err := s.ensureNoActiveEntry(ctx, e.OutletID, e.CustomerPhone, e.ID); err != nil {
			return nil, err
		}
	}

	e.UpdatedAt = s.now()
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return nil, storeErr("update entry", err)
	}
	// Удержание могло смениться параллельно: отдаём сохранённое состояние.
	if saved, err := s.store.GetEntry(ctx, id, storage.ReadPrimary); err == nil {
		e = saved
	}
	s.emit(ctx, EventEntryUpdated, e, nil)
	if e.PartySize != oldParty {
		s.refreshLater(e.OutletID)
	}
	return e, nil
}

// GetStatusHistory: журнал изменений записи по времени.
func (s *Service) GetStatusHistory(ctx context.Context, id uuid.UUID) ([]models.QueueStatusChange, error) {
	if _, err := s.store.GetEntry(ctx, id, storage.ReadReplica); err != nil {
		return nil, storeErr("get entry", err)
	}
	changes, err := s.store.StatusHistory(ctx, id)
	if err != nil {
		return nil, storeErr("status history", err)
	}
	return changes, nil
}
