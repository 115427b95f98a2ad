package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-hospital-internment/internal/delivery/dto"
	"go-hospital-internment/internal/domain/entity"
	"go-hospital-internment/internal/domain/repository"
	"go-hospital-internment/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrWardNotFound       = errors.New("ward not found")
	ErrDuplicateWard      = errors.New("a ward with this name already exists")
	ErrCapacityExceeded   = errors.New("ward has more occupied beds than the requested capacity")
	ErrOccupiedWard       = errors.New("ward still has occupied beds")
	ErrBedNotFound        = errors.New("bed not found")
	ErrBedAlreadyOccupied = errors.New("bed is already occupied")
	ErrInvalidWardStatus  = errors.New("invalid ward status")
	ErrWardInactive       = errors.New("ward is not accepting patients")
)

type WardUsecase interface {
	Start(ctx context.Context) error
	Stop()
	GetAllWards(ctx context.Context) []entity.Ward
	GetWard(ctx context.Context, id string) (*entity.Ward, error)
	ListAvailableWards(ctx context.Context) []entity.Ward
	ListAvailableBeds(ctx context.Context, wardName string) ([]string, error)
	AddWard(ctx context.Context, req *dto.CreateWardRequest) (*entity.Ward, error)
	ResizeWard(ctx context.Context, id string, newBedCount int) (*entity.Ward, error)
	SetWardStatus(ctx context.Context, id string, status entity.WardStatus) (*entity.Ward, error)
	DeleteWard(ctx context.Context, id string) error
	OccupyBed(ctx context.Context, wardName, bedNumber, patientID string) error
	FreeBed(ctx context.Context, wardName, bedNumber string) error
}

type wardUsecase struct {
	log          *logrus.Logger
	store        repository.RecordStore
	sync         *recordSync[entity.Ward]
	auditService service.AuditService
	metrics      *service.Metrics
	seed         []entity.Ward
	now          func() time.Time

	// serialises check-mutate-persist sequences
	mu sync.Mutex
}

// NewWardUsecase creates the ward allocator. seed is used when the store
// cannot be read, or written once when the first boot finds no wards.
func NewWardUsecase(
	log *logrus.Logger,
	store repository.RecordStore,
	auditService service.AuditService,
	metrics *service.Metrics,
	seed []entity.Ward,
) WardUsecase {
	u := &wardUsecase{
		log:          log,
		store:        store,
		sync:         newRecordSync[entity.Ward](store, log, entity.CollectionWards, "createdAt"),
		auditService: auditService,
		metrics:      metrics,
		seed:         seed,
		now:          time.Now,
	}
	u.sync.afterApply = u.observe
	return u
}

// Start loads the wards, falling back to the seed data, and subscribes to changes
func (u *wardUsecase) Start(ctx context.Context) error {
	count, err := u.sync.load(ctx)
	switch {
	case err != nil:
		u.log.Warnf("Failed to load wards, using built-in wards: %+v", err)
		u.useSeed(ctx)
	case len(u.seed) > 0:
		u.sync.seedOnce(ctx, count, func() int { return u.useSeed(ctx) })
	}

	u.sync.subscribe(ctx)
	u.log.WithField("wards", u.sync.records.Len()).Info("Ward allocator started")
	return nil
}

func (u *wardUsecase) Stop() {
	u.sync.stop()
}

// useSeed installs the built-in wards locally and tries a one-time migration write.
// It returns how many wards were written.
func (u *wardUsecase) useSeed(ctx context.Context) int {
	for _, w := range u.seed {
		w = w.Clone()
		w.Recount()
		u.sync.records.Put(w, entity.SyncStateLocalOnly)
	}

	written := 0
	for _, w := range u.seed {
		w = w.Clone()
		w.Recount()
		if err := u.sync.set(ctx, w); err != nil {
			u.log.Warnf("Failed to migrate built-in ward %s: %+v", w.Name, err)
			continue
		}
		u.sync.records.MarkSynced(w.ID, w.UpdatedAt)
		written++
	}
	u.observe()
	return written
}

func (u *wardUsecase) observe() {
	u.metrics.ObserveWards(u.sync.records.List())
}

// GetAllWards returns every ward in definition order
func (u *wardUsecase) GetAllWards(ctx context.Context) []entity.Ward {
	wards := u.sync.records.List()
	sortOldestFirst(wards, func(w entity.Ward) time.Time { return w.CreatedAt })
	for i := range wards {
		wards[i] = wards[i].Clone()
	}
	return wards
}

func (u *wardUsecase) GetWard(ctx context.Context, id string) (*entity.Ward, error) {
	w, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrWardNotFound
	}
	w = w.Clone()
	return &w, nil
}

// ListAvailableWards returns active wards with at least one free bed
func (u *wardUsecase) ListAvailableWards(ctx context.Context) []entity.Ward {
	all := u.GetAllWards(ctx)
	available := make([]entity.Ward, 0, len(all))
	for _, w := range all {
		if w.IsActive() && w.AvailableBeds() > 0 {
			available = append(available, w)
		}
	}
	return available
}

// ListAvailableBeds returns the free bed numbers of a ward in numeric order
func (u *wardUsecase) ListAvailableBeds(ctx context.Context, wardName string) ([]string, error) {
	w, ok := u.findByName(wardName)
	if !ok {
		return nil, ErrWardNotFound
	}
	return w.FreeBedNumbers(), nil
}

// AddWard creates a ward with beds "1".."bedCount", all free
func (u *wardUsecase) AddWard(ctx context.Context, req *dto.CreateWardRequest) (*entity.Ward, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.findByName(req.Name); exists {
		return nil, ErrDuplicateWard
	}

	ward, err := entity.NewWard(strings.TrimSpace(req.Name), strings.TrimSpace(req.Service), req.BedCount)
	if err != nil {
		return nil, err
	}
	now := u.now()
	ward.ID = uuid.NewString()
	ward.CreatedAt = now
	ward.UpdatedAt = now

	if err := u.sync.commit(entity.Ward{}, false, ward, func() error { return u.sync.set(ctx, ward) }); err != nil {
		u.log.Warnf("Failed to create ward %s: %+v", ward.Name, err)
		return nil, err
	}

	_ = u.auditService.LogCreate(ctx, entity.AuditActionWardCreate, entity.CollectionWards, ward.ID, ward)

	created := ward.Clone()
	return &created, nil
}

// ResizeWard grows or shrinks a ward, never dropping an occupied bed
func (u *wardUsecase) ResizeWard(ctx context.Context, id string, newBedCount int) (*entity.Ward, error) {
	if newBedCount <= 0 {
		return nil, entity.ErrInvalidBedCount
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrWardNotFound
	}

	next := current.Clone()
	next.Recount()
	if next.OccupiedBeds > newBedCount {
		return nil, ErrCapacityExceeded
	}

	switch diff := newBedCount - next.TotalBeds; {
	case diff > 0:
		next.AppendBeds(diff)
	case diff < 0:
		if err := next.RemoveFreeBeds(-diff); err != nil {
			return nil, ErrCapacityExceeded
		}
	default:
		resized := next.Clone()
		return &resized, nil
	}
	next.UpdatedAt = u.now()

	if err := u.persist(ctx, current, next); err != nil {
		u.log.Warnf("Failed to resize ward %s: %+v", id, err)
		return nil, err
	}

	_ = u.auditService.LogUpdate(ctx, entity.AuditActionWardResize, entity.CollectionWards, id,
		map[string]int{"totalBeds": current.TotalBeds}, map[string]int{"totalBeds": next.TotalBeds})

	resized := next.Clone()
	return &resized, nil
}

// SetWardStatus activates or deactivates a ward
func (u *wardUsecase) SetWardStatus(ctx context.Context, id string, status entity.WardStatus) (*entity.Ward, error) {
	if status != entity.WardStatusActive && status != entity.WardStatusInactive {
		return nil, ErrInvalidWardStatus
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return nil, ErrWardNotFound
	}

	next := current.Clone()
	next.Status = status
	next.UpdatedAt = u.now()

	if err := u.persist(ctx, current, next); err != nil {
		u.log.Warnf("Failed to update status of ward %s: %+v", id, err)
		return nil, err
	}

	updated := next.Clone()
	return &updated, nil
}

// DeleteWard removes a ward without occupied beds
func (u *wardUsecase) DeleteWard(ctx context.Context, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.sync.records.Get(id)
	if !ok {
		return ErrWardNotFound
	}
	if current.HasOccupiedBeds() {
		return ErrOccupiedWard
	}

	if err := u.store.Delete(ctx, entity.CollectionWards, id); err != nil {
		u.log.Warnf("Failed to delete ward %s: %+v", id, err)
		return err
	}
	u.sync.records.Remove(id)
	u.observe()

	_ = u.auditService.LogDelete(ctx, entity.AuditActionWardDelete, entity.CollectionWards, id, current)
	return nil
}

// OccupyBed assigns a free bed of an active ward to a patient
func (u *wardUsecase) OccupyBed(ctx context.Context, wardName, bedNumber, patientID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.findByName(wardName)
	if !ok {
		return ErrWardNotFound
	}
	if !current.IsActive() {
		return ErrWardInactive
	}

	next := current.Clone()
	if err := next.Occupy(strings.TrimSpace(bedNumber), patientID); err != nil {
		return mapBedError(err)
	}
	next.UpdatedAt = u.now()

	if err := u.persist(ctx, current, next); err != nil {
		u.log.Warnf("Failed to occupy bed %s of ward %s: %+v", bedNumber, wardName, err)
		return err
	}
	return nil
}

// FreeBed releases a bed; freeing a free bed succeeds without writing
func (u *wardUsecase) FreeBed(ctx context.Context, wardName, bedNumber string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, ok := u.findByName(wardName)
	if !ok {
		return ErrWardNotFound
	}

	next := current.Clone()
	changed, err := next.Free(strings.TrimSpace(bedNumber))
	if err != nil {
		return mapBedError(err)
	}
	if !changed {
		return nil
	}
	next.UpdatedAt = u.now()

	if err := u.persist(ctx, current, next); err != nil {
		u.log.Warnf("Failed to free bed %s of ward %s: %+v", bedNumber, wardName, err)
		return err
	}
	return nil
}

// persist writes the full ward document; the local change is rolled back on failure
func (u *wardUsecase) persist(ctx context.Context, prev, next entity.Ward) error {
	if err := u.sync.commit(prev, true, next, func() error { return u.sync.set(ctx, next) }); err != nil {
		return fmt.Errorf("persist ward %s: %w", next.ID, err)
	}
	return nil
}

func (u *wardUsecase) findByName(name string) (entity.Ward, bool) {
	key := normalizeName(name)
	matches := u.sync.records.Filter(func(w entity.Ward) bool {
		return normalizeName(w.Name) == key
	})
	if len(matches) == 0 {
		return entity.Ward{}, false
	}
	return matches[0], true
}

func mapBedError(err error) error {
	switch {
	case errors.Is(err, entity.ErrBedNotFound):
		return ErrBedNotFound
	case errors.Is(err, entity.ErrBedAlreadyOccupied):
		return ErrBedAlreadyOccupied
	default:
		return err
	}
}
