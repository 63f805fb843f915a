package worker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"savings/internal/amqp"
	"savings/internal/core"
)

type fakeSource struct {
	fail map[int64]bool
}

func (f fakeSource) GetFinancialDataForAI(_ context.Context, userID *int64, months int) (core.FinancialReport, error) {
	if userID != nil && f.fail[*userID] {
		return core.FinancialReport{}, &core.StorageError{Op: "execute", Err: errors.New("database is locked")}
	}
	return core.NewFinancialReport(core.EmptyCashFlow(), nil, months), nil
}

type fakeUsers struct {
	users []core.User
	err   error
}

func (f fakeUsers) FindAll(context.Context) ([]core.User, error) { return f.users, f.err }

type recordingPublisher struct {
	mu       sync.Mutex
	msgs     []*amqp.AdvisoryReportMessage
	inFlight atomic.Int32
	peak     atomic.Int32
	err      error
}

func (p *recordingPublisher) PublishFinancialReport(_ context.Context, msg *amqp.AdvisoryReportMessage) error {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
	return nil
}

func users(ids ...int64) []core.User {
	out := make([]core.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.User{ID: id})
	}
	return out
}

func TestAdvisoryWorker_PublishAll(t *testing.T) {
	pub := &recordingPublisher{}
	w := NewAdvisoryWorker(fakeSource{}, fakeUsers{users: users(1, 2, 3, 4, 5, 6)}, pub, 3, 2)

	n, err := w.PublishAll(context.Background())
	if err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	if n != 6 || len(pub.msgs) != 6 {
		t.Fatalf("published %d (recorded %d), want 6", n, len(pub.msgs))
	}
	if peak := pub.peak.Load(); peak > 2 {
		t.Fatalf("peak concurrency %d exceeds limit 2", peak)
	}

	var ids []int64
	for _, m := range pub.msgs {
		if m.UserID == nil {
			t.Fatal("per-user report published without owner")
		}
		if m.Report.PeriodMonths != 3 {
			t.Fatalf("period = %d, want 3", m.Report.PeriodMonths)
		}
		ids = append(ids, *m.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		if id != int64(i+1) {
			t.Fatalf("owners = %v", ids)
		}
	}
}

func TestAdvisoryWorker_NoUsersPublishesGlobalReport(t *testing.T) {
	pub := &recordingPublisher{}
	w := NewAdvisoryWorker(fakeSource{}, fakeUsers{}, pub, 6, 4)

	n, err := w.PublishAll(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("PublishAll = %d, %v", n, err)
	}
	if pub.msgs[0].UserID != nil {
		t.Fatalf("global report should have no owner, got %d", *pub.msgs[0].UserID)
	}
}

func TestAdvisoryWorker_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  fakeSource
		users   fakeUsers
		pubErr  error
		wantErr error
	}{
		{
			name:    "listing users fails",
			users:   fakeUsers{err: &core.StorageError{Op: "execute", Err: errors.New("boom")}},
			wantErr: core.ErrStorage,
		},
		{
			name:    "report fails",
			source:  fakeSource{fail: map[int64]bool{2: true}},
			users:   fakeUsers{users: users(1, 2, 3)},
			wantErr: core.ErrStorage,
		},
		{
			name:    "publish fails",
			users:   fakeUsers{users: users(1)},
			pubErr:  amqp.ErrCircuitOpen,
			wantErr: amqp.ErrCircuitOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewAdvisoryWorker(tt.source, tt.users, &recordingPublisher{err: tt.pubErr}, 6, 1)
			if _, err := w.PublishAll(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAdvisoryWorker_RunStopsOnCancel(t *testing.T) {
	pub := &recordingPublisher{}
	w := NewAdvisoryWorker(fakeSource{}, fakeUsers{users: users(1)}, pub, 6, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	if err := w.Run(ctx, 20*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run returned %v", err)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.msgs) < 2 {
		t.Fatalf("expected several rounds, got %d reports", len(pub.msgs))
	}
}
