package possync

import (
	"context"
	"fmt"
	"time"

	"github.com/Joseamica/backend/internal/model"
	"github.com/Joseamica/backend/internal/apperrors"
)

// fakeStore is an in-memory Store.  InTx snapshots the maps and restores
// them when fn fails, mirroring the rollback semantics of the SQL
// implementation.
type fakeStore struct {
	venues map[uint64]*model.Venue
	staff  map[string]uint64 // venueID|posStaffID -> staff id
	tables map[string]uint64 // venueID|externalID -> table id
	shifts map[string]uint64 // venueID|externalID -> shift id
	orders map[string]*model.Order

	nextID uint64

	staffCreates int
	tableCreates int
	shiftCreates int
	upserts      int
	markedFailed []string

	upsertErr      error // injected UpsertOrder failure
	staffCreateErr error // injected CreateStaff failure
	raceOnStaff    bool  // CreateStaff loses a unique-constraint race once
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues: map[uint64]*model.Venue{},
		staff:  map[string]uint64{},
		tables: map[string]uint64{},
		shifts: map[string]uint64{},
		orders: map[string]*model.Order{},
	}
}

func (f *fakeStore) addVenue(id, orgID uint64) {
	f.venues[id] = &model.Venue{ID: id, OrganizationID: orgID, Name: fmt.Sprintf("venue-%d", id)}
}

func (f *fakeStore) id() uint64 {
	f.nextID++
	return f.nextID
}

func key(venueID uint64, ext string) string {
	return fmt.Sprintf("%d|%s", venueID, ext)
}

func (f *fakeStore) GetVenue(_ context.Context, venueID uint64) (*model.Venue, error) {
	v, ok := f.venues[venueID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) FindStaffByPOSID(_ context.Context, venueID uint64, posStaffID string) (uint64, error) {
	id, ok := f.staff[key(venueID, posStaffID)]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}

func (f *fakeStore) CreateStaff(_ context.Context, fr StaffFragment, venueID, _ uint64) (uint64, error) {
	if f.staffCreateErr != nil {
		return 0, f.staffCreateErr
	}
	if f.raceOnStaff {
		// Another writer inserted the row between find and create.
		f.raceOnStaff = false
		f.staff[key(venueID, fr.POSStaffID)] = f.id()
		return 0, apperrors.ErrDuplicate
	}
	f.staffCreates++
	id := f.id()
	f.staff[key(venueID, fr.POSStaffID)] = id
	return id, nil
}

func (f *fakeStore) FindTableByExternalID(_ context.Context, venueID uint64, externalID string) (uint64, error) {
	id, ok := f.tables[key(venueID, externalID)]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}

func (f *fakeStore) CreateTable(_ context.Context, fr TableFragment, venueID uint64) (uint64, error) {
	f.tableCreates++
	id := f.id()
	f.tables[key(venueID, fr.ExternalID)] = id
	return id, nil
}

func (f *fakeStore) FindShiftByExternalID(_ context.Context, venueID uint64, externalID string) (uint64, error) {
	id, ok := f.shifts[key(venueID, externalID)]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	return id, nil
}

func (f *fakeStore) CreateShift(_ context.Context, fr ShiftFragment, venueID, _ uint64) (uint64, error) {
	f.shiftCreates++
	id := f.id()
	f.shifts[key(venueID, fr.ExternalID)] = id
	return id, nil
}

func (f *fakeStore) UpsertOrder(_ context.Context, u OrderUpsert) (*model.Order, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upserts++
	k := key(u.VenueID, u.Data.ExternalID)
	now := time.Now().UTC()
	o, ok := f.orders[k]
	if !ok {
		ext := u.Data.ExternalID
		o = &model.Order{
			ID:         f.id(),
			VenueID:    u.VenueID,
			ExternalID: &ext,
			CreatedAt:  u.Data.CreatedAt,
		}
		f.orders[k] = o
	}
	o.OrderNumber = u.Data.OrderNumber
	o.Status = u.Data.Status
	o.PaymentStatus = u.Data.PaymentStatus
	o.Subtotal = u.Data.Subtotal
	o.TaxAmount = u.Data.TaxAmount
	o.DiscountAmount = u.Data.DiscountAmount
	o.TipAmount = u.Data.TipAmount
	o.Total = u.Data.Total
	o.CompletedAt = u.Data.CompletedAt
	o.POSRawData = u.Data.RawData
	o.ServedByID = nilIfZero(u.ServedByID)
	o.TableID = nilIfZero(u.TableID)
	o.ShiftID = nilIfZero(u.ShiftID)
	o.SyncStatus = model.SyncSynced
	o.SyncedAt = &now
	return o, nil
}

func nilIfZero(id uint64) *uint64 {
	if id == 0 {
		return nil
	}
	return &id
}

func (f *fakeStore) MarkOrderSyncFailed(_ context.Context, venueID uint64, externalID string) error {
	k := key(venueID, externalID)
	f.markedFailed = append(f.markedFailed, k)
	o, ok := f.orders[k]
	if !ok {
		return apperrors.ErrNotFound
	}
	o.SyncStatus = model.SyncFailed
	return nil
}

func (f *fakeStore) InTx(_ context.Context, fn func(Store) error) error {
	staff := cloneIDs(f.staff)
	tables := cloneIDs(f.tables)
	shifts := cloneIDs(f.shifts)
	orders := make(map[string]*model.Order, len(f.orders))
	for k, v := range f.orders {
		cp := *v
		orders[k] = &cp
	}
	if err := fn(f); err != nil {
		f.staff = staff
		f.tables = tables
		f.shifts = shifts
		f.orders = orders
		return err
	}
	return nil
}

func cloneIDs(m map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// fakeConnStore is an in-memory ConnectionStore.
type fakeConnStore struct {
	rows map[uint64]*model.PosConnectionStatus
}

func newFakeConnStore() *fakeConnStore {
	return &fakeConnStore{rows: map[uint64]*model.PosConnectionStatus{}}
}

func (f *fakeConnStore) GetByVenue(_ context.Context, venueID uint64) (*model.PosConnectionStatus, error) {
	cs, ok := f.rows[venueID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *cs
	return &cp, nil
}

func (f *fakeConnStore) Create(_ context.Context, cs *model.PosConnectionStatus) error {
	if _, ok := f.rows[cs.VenueID]; ok {
		return apperrors.ErrDuplicate
	}
	cp := *cs
	f.rows[cs.VenueID] = &cp
	return nil
}

func (f *fakeConnStore) Update(_ context.Context, cs *model.PosConnectionStatus) error {
	if _, ok := f.rows[cs.VenueID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *cs
	f.rows[cs.VenueID] = &cp
	return nil
}

func (f *fakeConnStore) ListByStatus(_ context.Context, status model.ConnectionStatus) ([]model.PosConnectionStatus, error) {
	var out []model.PosConnectionStatus
	for _, cs := range f.rows {
		if cs.Status == status {
			out = append(out, *cs)
		}
	}
	return out, nil
}

// fakeCmdStore is an in-memory CommandStore preserving enqueue order.
// afterList runs once after ListPending returns, letting tests slip a
// concurrent claim in between listing and claiming.
type fakeCmdStore struct {
	rows      map[string]*model.PosCommand
	order     []string
	afterList func()
}

func newFakeCmdStore() *fakeCmdStore {
	return &fakeCmdStore{rows: map[string]*model.PosCommand{}}
}

func (f *fakeCmdStore) Insert(_ context.Context, cmd *model.PosCommand) error {
	if _, ok := f.rows[cmd.ID]; ok {
		return apperrors.ErrDuplicate
	}
	cp := *cmd
	cp.CreatedAt = time.Now().UTC()
	f.rows[cmd.ID] = &cp
	f.order = append(f.order, cmd.ID)
	return nil
}

func (f *fakeCmdStore) GetByID(_ context.Context, id string) (*model.PosCommand, error) {
	cmd, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *cmd
	return &cp, nil
}

func (f *fakeCmdStore) ListPending(_ context.Context, limit int) ([]model.PosCommand, error) {
	var out []model.PosCommand
	for _, id := range f.order {
		if len(out) == limit {
			break
		}
		if cmd := f.rows[id]; cmd.Status == model.CommandPending {
			out = append(out, *cmd)
		}
	}
	if f.afterList != nil {
		f.afterList()
		f.afterList = nil
	}
	return out, nil
}

func (f *fakeCmdStore) StartAttempt(_ context.Context, id string) error {
	cmd, ok := f.rows[id]
	if !ok || cmd.Status != model.CommandPending {
		return apperrors.ErrNotFound
	}
	cmd.Status = model.CommandProcessing
	cmd.Attempts++
	return nil
}

func (f *fakeCmdStore) Finish(_ context.Context, cmd *model.PosCommand) error {
	if _, ok := f.rows[cmd.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *cmd
	f.rows[cmd.ID] = &cp
	return nil
}
