package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"hangout-api/core/database"
	"hangout-api/core/errors"
	"hangout-api/modules/hangout/dto"
	"hangout-api/modules/hangout/entity"

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

type memHangoutRepo struct{ rows map[string]*entity.Hangout }

func newMemHangoutRepo() *memHangoutRepo {
	return &memHangoutRepo{rows: make(map[string]*entity.Hangout)}
}

func (r *memHangoutRepo) Insert(ctx context.Context, q database.Queryer, h *entity.Hangout) error {
	copied := *h
	r.rows[h.ID] = &copied
	return nil
}

func (r *memHangoutRepo) GetByID(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error) {
	h, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *h
	return &copied, nil
}

func (r *memHangoutRepo) GetByIDForUpdate(ctx context.Context, q database.Queryer, id string) (*entity.Hangout, error) {
	return r.GetByID(ctx, q, id)
}

func (r *memHangoutRepo) ListByOwner(ctx context.Context, q database.Queryer, owner entity.Owner) ([]entity.Hangout, error) {
	var out []entity.Hangout
	for _, h := range r.rows {
		out = append(out, *h)
	}
	return out, nil
}

func (r *memHangoutRepo) UpdatePeriods(ctx context.Context, q database.Queryer, id string, periods [3]int64) error {
	h, ok := r.rows[id]
	if !ok {
		return database.ErrUnexpectedRowCount
	}
	h.SetPeriods(periods)
	return nil
}

func (r *memHangoutRepo) UpdateStage(ctx context.Context, q database.Queryer, h *entity.Hangout) error {
	if _, ok := r.rows[h.ID]; !ok {
		return database.ErrUnexpectedRowCount
	}
	copied := *h
	r.rows[h.ID] = &copied
	return nil
}

func (r *memHangoutRepo) Delete(ctx context.Context, q database.Queryer, id string) error {
	delete(r.rows, id)
	return nil
}

func (r *memHangoutRepo) ListOverdueIDs(ctx context.Context, q database.Queryer, now time.Time) ([]string, error) {
	var ids []string
	for id, h := range r.rows {
		if !h.IsConcluded && !ConclusionTime(h.CreatedAt, h.Periods()).After(now) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type memMemberRepo struct{ rows map[uuid.UUID]*entity.Member }

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{rows: make(map[uuid.UUID]*entity.Member)}
}

func (r *memMemberRepo) Insert(ctx context.Context, q database.Queryer, m *entity.Member) error {
	copied := *m
	r.rows[m.ID] = &copied
	return nil
}

func (r *memMemberRepo) GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Member, error) {
	m, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *memMemberRepo) GetByHangoutAndOwner(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner) (*entity.Member, error) {
	for _, m := range r.rows {
		if m.HangoutID == hangoutID && m.OwnedBy(owner) {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memMemberRepo) ListByHangout(ctx context.Context, q database.Queryer, hangoutID string) ([]entity.Member, error) {
	var out []entity.Member
	for _, m := range r.rows {
		if m.HangoutID == hangoutID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMemberRepo) CountByHangout(ctx context.Context, q database.Queryer, hangoutID string) (int, error) {
	members, _ := r.ListByHangout(ctx, q, hangoutID)
	return len(members), nil
}

func (r *memMemberRepo) LeaderExists(ctx context.Context, q database.Queryer, hangoutID string) (bool, error) {
	for _, m := range r.rows {
		if m.HangoutID == hangoutID && m.IsLeader {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMemberRepo) SetLeader(ctx context.Context, q database.Queryer, id uuid.UUID, isLeader bool) error {
	m, ok := r.rows[id]
	if !ok {
		return database.ErrUnexpectedRowCount
	}
	m.IsLeader = isLeader
	return nil
}

func (r *memMemberRepo) Delete(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *memMemberRepo) UpdateDisplayNameByAccount(ctx context.Context, q database.Queryer, accountID uuid.UUID, name string) error {
	for _, m := range r.rows {
		if m.AccountID != nil && *m.AccountID == accountID {
			m.DisplayName = name
		}
	}
	return nil
}

func (r *memMemberRepo) IsMember(ctx context.Context, q database.Queryer, hangoutID string, owner entity.Owner) (bool, error) {
	m, _ := r.GetByHangoutAndOwner(ctx, q, hangoutID, owner)
	return m != nil, nil
}

type timedRow struct {
	hangoutID string
	startsAt  time.Time
}

// memTimedStore backs both the slot and suggestion pruning fakes.
type memTimedStore struct{ rows []timedRow }

func (s *memTimedStore) DeleteStartingBefore(ctx context.Context, q database.Queryer, hangoutID string, cutoff time.Time) (int64, error) {
	var kept []timedRow
	var removed int64
	for _, row := range s.rows {
		if row.hangoutID == hangoutID && row.startsAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return removed, nil
}

func (s *memTimedStore) CountByHangout(ctx context.Context, q database.Queryer, hangoutID string) (int, error) {
	count := 0
	for _, row := range s.rows {
		if row.hangoutID == hangoutID {
			count++
		}
	}
	return count, nil
}

type fakeSink struct{ kinds []string }

func (f *fakeSink) Publish(ctx context.Context, hangoutID, kind string, actorMemberID *uuid.UUID, payload map[string]any) {
	f.kinds = append(f.kinds, kind)
}

type fakeEnqueuer struct{ pruned []string }

func (f *fakeEnqueuer) EnqueueStalePrune(hangoutID string) {
	f.pruned = append(f.pruned, hangoutID)
}

type engineFixture struct {
	svc         HangoutServiceInterface
	clock       *fakeQueryer
	hangouts    *memHangoutRepo
	members     *memMemberRepo
	slots       *memTimedStore
	suggestions *memTimedStore
	sink        *fakeSink
	enqueuer    *fakeEnqueuer
	leader      entity.Owner
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	clock := &fakeQueryer{now: time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)}
	hangouts := newMemHangoutRepo()
	members := newMemMemberRepo()
	slots := &memTimedStore{}
	suggestions := &memTimedStore{}
	sink := &fakeSink{}
	enqueuer := &fakeEnqueuer{}

	svc := NewHangoutService(
		&fakeTxRunner{q: clock},
		clock,
		hangouts,
		members,
		slots,
		suggestions,
		sink,
		enqueuer,
		"test-password-secret",
	)

	return &engineFixture{
		svc:         svc,
		clock:       clock,
		hangouts:    hangouts,
		members:     members,
		slots:       slots,
		suggestions: suggestions,
		sink:        sink,
		enqueuer:    enqueuer,
		leader:      entity.AccountOwner(uuid.New()),
	}
}

func (f *engineFixture) create(t *testing.T, req *dto.CreateHangoutRequest) *dto.HangoutResponse {
	t.Helper()
	resp, appErr := f.svc.Create(context.Background(), f.leader, "taylor", req)
	if appErr != nil {
		t.Fatalf("Create() error = %v", appErr)
	}
	return resp
}

func validCreateRequest() *dto.CreateHangoutRequest {
	return &dto.CreateHangoutRequest{
		Title:       "climbing trip",
		PeriodsMs:   [3]int64{day, day, day},
		MemberLimit: 5,
	}
}

func TestCreateHangout(t *testing.T) {
	f := newEngineFixture(t)

	resp := f.create(t, validCreateRequest())
	if resp.CurrentStage != int(entity.StageAvailability) {
		t.Errorf("stage = %d, want availability", resp.CurrentStage)
	}
	wantConclusion := f.clock.now.Add(72 * time.Hour)
	if !resp.ConclusionAt.Equal(wantConclusion) {
		t.Errorf("conclusion = %v, want %v", resp.ConclusionAt, wantConclusion)
	}
	if len(resp.Members) != 1 || !resp.Members[0].IsLeader {
		t.Errorf("creator must be the sole, leading member: %+v", resp.Members)
	}
}

func TestCreateHangoutValidation(t *testing.T) {
	f := newEngineFixture(t)

	tests := []struct {
		name     string
		mutate   func(*dto.CreateHangoutRequest)
		wantCode errors.ErrorCode
	}{
		{"empty title", func(r *dto.CreateHangoutRequest) { r.Title = "  " }, errors.ErrInvalidInput},
		{"half-day period", func(r *dto.CreateHangoutRequest) { r.PeriodsMs[1] = day / 2 }, errors.ErrInvalidPeriod},
		{"eight-day period", func(r *dto.CreateHangoutRequest) { r.PeriodsMs[2] = 8 * day }, errors.ErrInvalidPeriod},
		{"member limit too low", func(r *dto.CreateHangoutRequest) { r.MemberLimit = 1 }, errors.ErrInvalidInput},
		{"member limit too high", func(r *dto.CreateHangoutRequest) { r.MemberLimit = 21 }, errors.ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)

			_, appErr := f.svc.Create(context.Background(), f.leader, "taylor", req)
			if appErr == nil || appErr.Code != tc.wantCode {
				t.Fatalf("Create() error = %v, want code %s", appErr, tc.wantCode)
			}
		})
	}
}

func TestJoinPasswordAndLimit(t *testing.T) {
	f := newEngineFixture(t)
	req := validCreateRequest()
	req.MemberLimit = 2
	req.Password = "s3cret"
	h := f.create(t, req)

	guest := entity.GuestOwner(uuid.New())
	if _, appErr := f.svc.Join(context.Background(), h.ID, guest, "jo", &dto.JoinRequest{Password: "wrong"}); appErr == nil || appErr.Code != errors.ErrWrongPassword {
		t.Fatalf("Join() with wrong password error = %v, want %s", appErr, errors.ErrWrongPassword)
	}
	if _, appErr := f.svc.Join(context.Background(), h.ID, guest, "jo", &dto.JoinRequest{Password: "s3cret"}); appErr != nil {
		t.Fatalf("Join() error = %v", appErr)
	}
	if _, appErr := f.svc.Join(context.Background(), h.ID, guest, "jo", &dto.JoinRequest{Password: "s3cret"}); appErr == nil || appErr.Code != errors.ErrAlreadyExists {
		t.Fatalf("repeat Join() error = %v, want %s", appErr, errors.ErrAlreadyExists)
	}

	third := entity.GuestOwner(uuid.New())
	if _, appErr := f.svc.Join(context.Background(), h.ID, third, "max", &dto.JoinRequest{Password: "s3cret"}); appErr == nil || appErr.Code != errors.ErrHangoutFull {
		t.Fatalf("Join() past the limit error = %v, want %s", appErr, errors.ErrHangoutFull)
	}
}

func TestAdvanceFreezesPeriodAndEnqueuesPrune(t *testing.T) {
	f := newEngineFixture(t)
	h := f.create(t, validCreateRequest())

	f.clock.now = f.clock.now.Add(6 * time.Hour)
	resp, appErr := f.svc.Advance(context.Background(), h.ID, f.leader)
	if appErr != nil {
		t.Fatalf("Advance() error = %v", appErr)
	}
	if resp.CurrentStage != int(entity.StageSuggestions) {
		t.Errorf("stage = %d, want suggestions", resp.CurrentStage)
	}
	// Freezing 6h instead of 1d pulls the conclusion 18 hours earlier.
	stored, _ := f.hangouts.GetByID(context.Background(), nil, h.ID)
	if stored.AvailabilityPeriodMs != (6 * time.Hour).Milliseconds() {
		t.Errorf("availability period = %d, want frozen 6h", stored.AvailabilityPeriodMs)
	}
	if len(f.enqueuer.pruned) != 1 {
		t.Errorf("prune enqueued %d times, want 1", len(f.enqueuer.pruned))
	}
}

func TestAdvanceGuards(t *testing.T) {
	f := newEngineFixture(t)
	h := f.create(t, validCreateRequest())

	outsider := entity.GuestOwner(uuid.New())
	if _, appErr := f.svc.Join(context.Background(), h.ID, outsider, "jo", nil); appErr != nil {
		t.Fatalf("Join() error = %v", appErr)
	}
	if _, appErr := f.svc.Advance(context.Background(), h.ID, outsider); appErr == nil || appErr.Code != errors.ErrNotLeader {
		t.Fatalf("Advance() by non-leader error = %v, want %s", appErr, errors.ErrNotLeader)
	}

	// Into suggestions, then refuse to open voting with nothing to vote on.
	if _, appErr := f.svc.Advance(context.Background(), h.ID, f.leader); appErr != nil {
		t.Fatalf("Advance() error = %v", appErr)
	}
	if _, appErr := f.svc.Advance(context.Background(), h.ID, f.leader); appErr == nil || appErr.Code != errors.ErrNoSuggestions {
		t.Fatalf("Advance() without suggestions error = %v, want %s", appErr, errors.ErrNoSuggestions)
	}
}

func TestEditPeriodsShrinkTriggersPrune(t *testing.T) {
	f := newEngineFixture(t)
	req := validCreateRequest()
	req.PeriodsMs = [3]int64{2 * day, 2 * day, 2 * day}
	h := f.create(t, req)

	f.clock.now = f.clock.now.Add(12 * time.Hour)
	resp, appErr := f.svc.EditPeriods(context.Background(), h.ID, f.leader, [3]int64{day, day, day})
	if appErr != nil {
		t.Fatalf("EditPeriods() error = %v", appErr)
	}
	wantConclusion := h.CreatedAt.Add(72 * time.Hour)
	if !resp.ConclusionAt.Equal(wantConclusion) {
		t.Errorf("conclusion = %v, want %v", resp.ConclusionAt, wantConclusion)
	}
	if len(f.enqueuer.pruned) != 1 {
		t.Errorf("shrink did not enqueue a prune")
	}

	// Growing the schedule back must not enqueue another prune.
	if _, appErr := f.svc.EditPeriods(context.Background(), h.ID, f.leader, [3]int64{2 * day, 2 * day, 2 * day}); appErr != nil {
		t.Fatalf("EditPeriods() error = %v", appErr)
	}
	if len(f.enqueuer.pruned) != 1 {
		t.Errorf("growing the schedule enqueued a prune")
	}
}

func TestPruneStaleRemovesInvalidated(t *testing.T) {
	f := newEngineFixture(t)
	h := f.create(t, validCreateRequest())
	conclusion := h.CreatedAt.Add(72 * time.Hour)

	f.slots.rows = []timedRow{
		{h.ID, conclusion.Add(-time.Hour)},
		{h.ID, conclusion.Add(time.Hour)},
	}
	f.suggestions.rows = []timedRow{
		{h.ID, conclusion.Add(-2 * time.Hour)},
	}

	if err := f.svc.PruneStale(context.Background(), h.ID); err != nil {
		t.Fatalf("PruneStale() error = %v", err)
	}
	if len(f.slots.rows) != 1 {
		t.Errorf("slot rows = %d, want only the still-valid one", len(f.slots.rows))
	}
	if len(f.suggestions.rows) != 0 {
		t.Errorf("stale suggestion survived the prune")
	}
}

func TestConcludeOverdue(t *testing.T) {
	f := newEngineFixture(t)
	h := f.create(t, validCreateRequest())

	f.clock.now = f.clock.now.Add(96 * time.Hour)
	if err := f.svc.ConcludeOverdue(context.Background()); err != nil {
		t.Fatalf("ConcludeOverdue() error = %v", err)
	}

	stored, _ := f.hangouts.GetByID(context.Background(), nil, h.ID)
	if !stored.IsConcluded || stored.CurrentStage != entity.StageConcluded {
		t.Fatalf("overdue hangout not concluded: %+v", stored)
	}
	if got := f.sink.kinds[len(f.sink.kinds)-1]; got != "hangout.concluded" {
		t.Errorf("last event = %s, want hangout.concluded", got)
	}
}

func TestLeaveAndLeadershipClaim(t *testing.T) {
	f := newEngineFixture(t)
	h := f.create(t, validCreateRequest())

	guest := entity.GuestOwner(uuid.New())
	if _, appErr := f.svc.Join(context.Background(), h.ID, guest, "jo", nil); appErr != nil {
		t.Fatalf("Join() error = %v", appErr)
	}

	if appErr := f.svc.ClaimLeadership(context.Background(), h.ID, guest); appErr == nil || appErr.Code != errors.ErrLeaderExists {
		t.Fatalf("ClaimLeadership() with leader present error = %v, want %s", appErr, errors.ErrLeaderExists)
	}

	// Leader leaves: hangout survives leaderless, then the guest claims it.
	if appErr := f.svc.Leave(context.Background(), h.ID, f.leader); appErr != nil {
		t.Fatalf("Leave() error = %v", appErr)
	}
	if appErr := f.svc.ClaimLeadership(context.Background(), h.ID, guest); appErr != nil {
		t.Fatalf("ClaimLeadership() error = %v", appErr)
	}

	// Last member leaving deletes the hangout.
	if appErr := f.svc.Leave(context.Background(), h.ID, guest); appErr != nil {
		t.Fatalf("Leave() error = %v", appErr)
	}
	if stored, _ := f.hangouts.GetByID(context.Background(), nil, h.ID); stored != nil {
		t.Fatalf("hangout survived its last member leaving")
	}
}

func TestKick(t *testing.T) {
	f := newEngineFixture(t)
	h := f.create(t, validCreateRequest())

	guest := entity.GuestOwner(uuid.New())
	joined, appErr := f.svc.Join(context.Background(), h.ID, guest, "jo", nil)
	if appErr != nil {
		t.Fatalf("Join() error = %v", appErr)
	}

	leaderMember, _ := f.members.GetByHangoutAndOwner(context.Background(), nil, h.ID, f.leader)
	if appErr := f.svc.Kick(context.Background(), h.ID, f.leader, leaderMember.ID); appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("self-Kick() error = %v, want %s", appErr, errors.ErrInvalidInput)
	}
	if appErr := f.svc.Kick(context.Background(), h.ID, guest, leaderMember.ID); appErr == nil || appErr.Code != errors.ErrNotLeader {
		t.Fatalf("Kick() by non-leader error = %v, want %s", appErr, errors.ErrNotLeader)
	}
	if appErr := f.svc.Kick(context.Background(), h.ID, f.leader, joined.ID); appErr != nil {
		t.Fatalf("Kick() error = %v", appErr)
	}
	if n, _ := f.members.CountByHangout(context.Background(), nil, h.ID); n != 1 {
		t.Fatalf("member count after kick = %d, want 1", n)
	}
}
