package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/modules/availability/dto"
	"hangout-api/modules/availability/entity"
	hangoutEntity "hangout-api/modules/hangout/entity"
	hangoutService "hangout-api/modules/hangout/service"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var errFakeQuery = stderrors.New("query not supported by fake")

type fakeQueryer struct{ now time.Time }

func (f *fakeQueryer) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if t, ok := dest.(*time.Time); ok {
		*t = f.now
		return nil
	}
	return errFakeQuery
}

func (f *fakeQueryer) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return errFakeQuery
}

func (f *fakeQueryer) DriverName() string    { return "postgres" }
func (f *fakeQueryer) Rebind(q string) string { return q }
func (f *fakeQueryer) BindNamed(q string, arg any) (string, []any, error) {
	return q, nil, nil
}
func (f *fakeQueryer) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, errFakeQuery
}
func (f *fakeQueryer) QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error) {
	return nil, errFakeQuery
}
func (f *fakeQueryer) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	return nil
}
func (f *fakeQueryer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, errFakeQuery
}

type fakeTxRunner struct{ q database.Queryer }

func (f *fakeTxRunner) InTx(ctx context.Context, fn func(q database.Queryer) error) error {
	return database.Translate(fn(f.q))
}

func (f *fakeTxRunner) InReadTx(ctx context.Context, fn func(q database.Queryer) error) error {
	return database.Translate(fn(f.q))
}

type fakeHangoutRepo struct{ hangout *hangoutEntity.Hangout }

func (f *fakeHangoutRepo) GetByIDForUpdate(ctx context.Context, q database.Queryer, id string) (*hangoutEntity.Hangout, error) {
	return f.GetByID(ctx, q, id)
}

func (f *fakeHangoutRepo) GetByID(ctx context.Context, q database.Queryer, id string) (*hangoutEntity.Hangout, error) {
	if f.hangout == nil || f.hangout.ID != id {
		return nil, nil
	}
	h := *f.hangout
	return &h, nil
}

type fakeMemberRepo struct{ member *hangoutEntity.Member }

func (f *fakeMemberRepo) GetByHangoutAndOwner(ctx context.Context, q database.Queryer, hangoutID string, owner hangoutEntity.Owner) (*hangoutEntity.Member, error) {
	if f.member == nil || f.member.HangoutID != hangoutID || !f.member.OwnedBy(owner) {
		return nil, nil
	}
	m := *f.member
	return &m, nil
}

type fakeSlotRepo struct{ slots map[uuid.UUID]*entity.Slot }

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[uuid.UUID]*entity.Slot)}
}

func (f *fakeSlotRepo) Insert(ctx context.Context, q database.Queryer, s *entity.Slot) error {
	copied := *s
	f.slots[s.ID] = &copied
	return nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Slot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSlotRepo) ListByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) ([]entity.Slot, error) {
	var out []entity.Slot
	for _, s := range f.slots {
		if s.HangoutID == hangoutID && s.MemberID == memberID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Slot, error) {
	var out []entity.Slot
	for _, s := range f.slots {
		if s.HangoutID == hangoutID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) CountByMember(ctx context.Context, q database.Queryer, hangoutID string, memberID uuid.UUID) (int, error) {
	slots, _ := f.ListByMember(ctx, q, hangoutID, memberID)
	return len(slots), nil
}

func (f *fakeSlotRepo) Update(ctx context.Context, q database.Queryer, s *entity.Slot) error {
	copied := *s
	f.slots[s.ID] = &copied
	return nil
}

func (f *fakeSlotRepo) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	delete(f.slots, id)
	return nil
}

func (f *fakeSlotRepo) DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error) {
	var removed int64
	for id, s := range f.slots {
		if s.HangoutID == hangoutID && s.SlotStart.Before(cutoff) {
			delete(f.slots, id)
			removed++
		}
	}
	return removed, nil
}

type fakeSink struct{ kinds []string }

func (f *fakeSink) Publish(ctx context.Context, hangoutID, kind string, actorMemberID *uuid.UUID, payload map[string]any) {
	f.kinds = append(f.kinds, kind)
}

type slotFixture struct {
	svc        SlotServiceInterface
	repo       *fakeSlotRepo
	hangouts   *fakeHangoutRepo
	owner      hangoutEntity.Owner
	hangoutID  string
	conclusion time.Time
}

func newSlotFixture(t *testing.T) *slotFixture {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dayMs := int64(24 * time.Hour / time.Millisecond)
	hangoutID := "m8ghi9012-stu"

	hangout := &hangoutEntity.Hangout{
		ID:           hangoutID,
		Title:        "movie night",
		MemberLimit:  10,
		CurrentStage: hangoutEntity.StageAvailability,
		CreatedAt:    now.Add(-12 * time.Hour),
	}
	hangout.SetPeriods([3]int64{dayMs, dayMs, dayMs})

	owner := hangoutEntity.AccountOwner(uuid.New())
	member := hangoutEntity.NewMember(hangoutID, owner, "casey", false)

	repo := newFakeSlotRepo()
	q := &fakeQueryer{now: now}
	hangouts := &fakeHangoutRepo{hangout: hangout}
	loader := hangoutService.NewContextLoader(hangouts, &fakeMemberRepo{member: member})
	svc := NewSlotService(&fakeTxRunner{q: q}, q, repo, loader, &fakeSink{})

	return &slotFixture{
		svc:        svc,
		repo:       repo,
		hangouts:   hangouts,
		owner:      owner,
		hangoutID:  hangoutID,
		conclusion: hangout.CreatedAt.Add(72 * time.Hour),
	}
}

func (f *slotFixture) request(startOffset, endOffset time.Duration) *dto.SlotRequest {
	return &dto.SlotRequest{
		SlotStart: f.conclusion.Add(startOffset),
		SlotEnd:   f.conclusion.Add(endOffset),
	}
}

func TestCreateSlot(t *testing.T) {
	f := newSlotFixture(t)

	resp, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(0, 2*time.Hour))
	if appErr != nil {
		t.Fatalf("Create() error = %v", appErr)
	}
	if !resp.SlotStart.Equal(f.conclusion) {
		t.Errorf("slot start = %v, want %v", resp.SlotStart, f.conclusion)
	}
}

func TestCreateSlotOverlapRejected(t *testing.T) {
	f := newSlotFixture(t)

	if _, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(0, 2*time.Hour)); appErr != nil {
		t.Fatalf("Create() error = %v", appErr)
	}

	tests := []struct {
		name     string
		start    time.Duration
		end      time.Duration
		wantCode errors.ErrorCode
	}{
		{"identical", 0, 2 * time.Hour, errors.ErrSlotOverlap},
		{"contained", 30 * time.Minute, 90 * time.Minute, errors.ErrSlotOverlap},
		{"straddles end", time.Hour, 3 * time.Hour, errors.ErrSlotOverlap},
		// Shared boundaries count as overlap.
		{"touches end", 2 * time.Hour, 4 * time.Hour, errors.ErrSlotOverlap},
		{"clear of it", 3 * time.Hour, 5 * time.Hour, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(tc.start, tc.end))
			if tc.wantCode == "" {
				if appErr != nil {
					t.Fatalf("Create() error = %v, want nil", appErr)
				}
				return
			}
			if appErr == nil || appErr.Code != tc.wantCode {
				t.Fatalf("Create() error = %v, want code %s", appErr, tc.wantCode)
			}
		})
	}
}

func TestCreateSlotLimit(t *testing.T) {
	f := newSlotFixture(t)

	for i := 0; i < 10; i++ {
		offset := time.Duration(i) * 3 * time.Hour
		if _, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(offset, offset+2*time.Hour)); appErr != nil {
			t.Fatalf("Create() #%d error = %v", i+1, appErr)
		}
	}
	_, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(40*time.Hour, 42*time.Hour))
	if appErr == nil || appErr.Code != errors.ErrSlotLimitReached {
		t.Fatalf("Create() #11 error = %v, want code %s", appErr, errors.ErrSlotLimitReached)
	}
}

func TestCreateSlotWrongStage(t *testing.T) {
	f := newSlotFixture(t)
	f.hangouts.hangout.CurrentStage = hangoutEntity.StageSuggestions

	_, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(0, 2*time.Hour))
	if appErr == nil || appErr.Code != errors.ErrInSuggestionsStage {
		t.Fatalf("Create() error = %v, want code %s", appErr, errors.ErrInSuggestionsStage)
	}
}

func TestUpdateSlotExcludesItself(t *testing.T) {
	f := newSlotFixture(t)

	created, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(0, 2*time.Hour))
	if appErr != nil {
		t.Fatalf("Create() error = %v", appErr)
	}

	// Shifting the same slot by an hour overlaps its own old span; that must
	// not count against it.
	resp, appErr := f.svc.Update(context.Background(), f.hangoutID, f.owner, created.ID, f.request(time.Hour, 3*time.Hour))
	if appErr != nil {
		t.Fatalf("Update() error = %v", appErr)
	}
	if !resp.SlotStart.Equal(f.conclusion.Add(time.Hour)) {
		t.Errorf("slot start = %v, want shifted start", resp.SlotStart)
	}
}

func TestDeleteSlotOwnershipEnforced(t *testing.T) {
	f := newSlotFixture(t)

	created, appErr := f.svc.Create(context.Background(), f.hangoutID, f.owner, f.request(0, 2*time.Hour))
	if appErr != nil {
		t.Fatalf("Create() error = %v", appErr)
	}

	other := &entity.Slot{
		ID:        uuid.New(),
		HangoutID: f.hangoutID,
		MemberID:  uuid.New(),
		SlotStart: f.conclusion.Add(10 * time.Hour),
		SlotEnd:   f.conclusion.Add(12 * time.Hour),
	}
	f.repo.slots[other.ID] = other

	if appErr := f.svc.Delete(context.Background(), f.hangoutID, f.owner, other.ID); appErr == nil || appErr.Code != errors.ErrForbidden {
		t.Fatalf("Delete() of someone else's slot error = %v, want %s", appErr, errors.ErrForbidden)
	}
	if appErr := f.svc.Delete(context.Background(), f.hangoutID, f.owner, created.ID); appErr != nil {
		t.Fatalf("Delete() error = %v", appErr)
	}
}
