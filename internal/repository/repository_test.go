package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/callumw/snagshare/internal/apperr"
	"github.com/callumw/snagshare/internal/domain"
	"github.com/callumw/snagshare/internal/graph"
)

func newTestRepository(mem *graph.MemoryClient) *Repository {
	repo := New(mem)
	repo.newID = func() string { return "share-0001" }
	repo.nowFn = func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	return repo
}

func validShareData() domain.ShareData {
	return domain.ShareData{
		FullName: "Jane Doe",
		Address:  "4 Orchard Close, Guildford",
		AddressDetails: domain.AddressDetails{
			Line1:    "4 Orchard Close",
			Town:     "Guildford",
			Postcode: "GU1 1AA",
		},
		BuilderType:  domain.BuilderBellway,
		BuilderEmail: "aftercare@bellway.example.com",
	}
}

func TestRepository_CreateShare(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	record, err := repo.CreateShare(context.Background(), "user-1", validShareData())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if record.ShareID != "share-0001" {
		t.Errorf("unexpected share id %q", record.ShareID)
	}
	if record.Status != domain.StatusPending {
		t.Errorf("expected status pending, got %s", record.Status)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	call := calls[0]
	if call.Query != createShareCypher {
		t.Fatalf("unexpected query\nexpected:\n%s\ngot:\n%s", createShareCypher, call.Query)
	}
	if call.Params["userId"] != "user-1" {
		t.Errorf("expected userId user-1, got %v", call.Params["userId"])
	}

	props, ok := call.Params["props"].(map[string]any)
	if !ok {
		t.Fatalf("expected props map, got %T", call.Params["props"])
	}
	if props["status"] != string(domain.StatusPending) {
		t.Errorf("status mismatch: got %v", props["status"])
	}
	if props["statusRank"] != domain.StatusPending.Rank() {
		t.Errorf("statusRank mismatch: got %v", props["statusRank"])
	}
	if props["builderEmail"] != "aftercare@bellway.example.com" {
		t.Errorf("builderEmail mismatch: got %v", props["builderEmail"])
	}
}

func TestRepository_GetShare(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"userId":       "user-1",
			"shareId":      "share-0001",
			"fullName":     "Jane Doe",
			"address":      "4 Orchard Close, Guildford",
			"addressTown":  "Guildford",
			"builderType":  "other",
			"builderName":  "Acme Homes",
			"builderEmail": "snags@acme.example.com",
			"status":       "pending",
			"createdAt":    "2026-03-14T09:30:00Z",
			"updatedAt":    "2026-03-14T09:30:00Z",
		},
	}})

	record, err := repo.GetShare(context.Background(), "share-0001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.OwnerUserID != "user-1" {
		t.Errorf("owner mismatch: %q", record.OwnerUserID)
	}
	if record.Status != domain.StatusPending {
		t.Errorf("status mismatch: %q", record.Status)
	}
	if record.Data.BuilderType != domain.BuilderOther || record.Data.BuilderName != "Acme Homes" {
		t.Errorf("builder fields mismatch: %+v", record.Data)
	}
	if record.CreatedAt.IsZero() {
		t.Errorf("createdAt not parsed")
	}
}

func TestRepository_GetShare_NotFound(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	_, err := repo.GetShare(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_SetShareStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.ShareStatus
		result   graph.Result
		wantErr  error
		wantNone bool
	}{
		{
			name:   "forward move applies",
			status: domain.StatusPaid,
			result: graph.Result{Records: []graph.Record{
				{"previous": "pending", "current": "paid"},
			}},
		},
		{
			name:   "equal status is a no-op",
			status: domain.StatusPaid,
			result: graph.Result{Records: []graph.Record{
				{"previous": "paid", "current": "paid"},
			}},
		},
		{
			name:   "backward move rejected",
			status: domain.StatusPending,
			result: graph.Result{Records: []graph.Record{
				{"previous": "paid", "current": "paid"},
			}},
			wantErr: apperr.ErrInvalidTransition,
		},
		{
			name:    "unknown share",
			status:  domain.StatusPaid,
			result:  graph.Result{},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mem := graph.NewMemoryClient()
			repo := newTestRepository(mem)
			mem.PushWriteResult(tt.result)

			err := repo.SetShareStatus(context.Background(), "share-0001", tt.status)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			calls := mem.WriteCalls()
			if len(calls) != 1 {
				t.Fatalf("expected 1 write, got %d", len(calls))
			}
			if calls[0].Params["rank"] != tt.status.Rank() {
				t.Errorf("rank param mismatch: %v", calls[0].Params["rank"])
			}
		})
	}
}

func TestRepository_CountSnags(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"total": int64(3)},
	}})

	total, err := repo.CountSnags(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 snags, got %d", total)
	}
}

func TestRepository_CountSnags_UnknownUser(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	total, err := repo.CountSnags(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 0 {
		t.Fatalf("unknown user should have an empty aggregate, got %d", total)
	}
}

func TestRepository_CurrentShareID(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"shareId": "share-0001"},
	}})

	shareID, err := repo.CurrentShareID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if shareID != "share-0001" {
		t.Fatalf("expected share-0001, got %q", shareID)
	}
}

func TestRepository_ResetProgress(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{"snagsCleared": int64(4), "sharesCleared": int64(1)},
	}})

	outcome, err := repo.ResetProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome.SnagsCleared != 4 || outcome.SharesCleared != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("teardown must be a single statement, got %d writes", len(calls))
	}
	if calls[0].Query != resetProgressCypher {
		t.Fatalf("unexpected query: %s", calls[0].Query)
	}
}

func TestRepository_ResetProgress_EmptyUser(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := newTestRepository(mem)

	outcome, err := repo.ResetProgress(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("reset of an empty user must be a no-op success, got %v", err)
	}
	if outcome != (domain.ResetOutcome{}) {
		t.Fatalf("expected empty outcome, got %+v", outcome)
	}
}

func TestRepository_ResetProgress_FailureClassification(t *testing.T) {
	tests := []struct {
		name        string
		storeErr    error
		wantPartial bool
	}{
		{
			name:        "rejected statement rolled back",
			storeErr:    errors.New("syntax error"),
			wantPartial: false,
		},
		{
			name:        "commit outcome unknown",
			storeErr:    fmt.Errorf("%w: connection reset", graph.ErrOutcomeUnknown),
			wantPartial: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mem := graph.NewMemoryClient().WithWriteError(tt.storeErr)
			repo := newTestRepository(mem)

			_, err := repo.ResetProgress(context.Background(), "user-1")

			var resetErr *apperr.ResetError
			if !errors.As(err, &resetErr) {
				t.Fatalf("expected ResetError, got %v", err)
			}
			if resetErr.Partial != tt.wantPartial {
				t.Fatalf("expected Partial=%v, got %v", tt.wantPartial, resetErr.Partial)
			}
		})
	}
}
