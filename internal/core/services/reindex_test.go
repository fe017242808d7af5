package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven/mocks"
	"github.com/filmgrid/catalog/internal/retry"
)

// transientErr simulates a transient store fault
type transientErr struct{ msg string }

func (e *transientErr) Error() string   { return e.msg }
func (e *transientErr) Transient() bool { return true }

func fastRetry() *retry.Policy {
	return &retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func newTestOrchestrator(docIndex *mocks.MockDocumentIndex, admin *mocks.MockIndexAdmin, pageSize, batchSize int) *RebuildOrchestrator {
	return NewRebuildOrchestrator(RebuildOrchestratorConfig{
		DocumentIndex: docIndex,
		IndexAdmin:    admin,
		RetryPolicy:   fastRetry(),
		PageSize:      pageSize,
		BatchSize:     batchSize,
	})
}

func seedGenreFilms(docIndex *mocks.MockDocumentIndex) {
	docIndex.AddDocument("films", "film-a", `{"genre": [{"id": "g1", "name": "Action"}, {"id": "g2", "name": "Drama"}]}`)
	docIndex.AddDocument("films", "film-b", `{"genre": [{"id": "g1", "name": "Action"}, {"id": "g3", "name": "Comedy"}]}`)
	docIndex.AddDocument("films", "film-c", `{"genre": []}`)
}

func TestRebuild_GenresScenario(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	seedGenreFilms(docIndex)

	// Page size 1 forces the scan through multiple cursor pages.
	o := newTestOrchestrator(docIndex, admin, 1, 500)

	report, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Status != domain.RebuildStatusSucceeded {
		t.Errorf("expected succeeded status, got %s", report.Status)
	}
	if report.DocumentsScanned != 3 {
		t.Errorf("expected 3 documents scanned, got %d", report.DocumentsScanned)
	}
	if report.EntitiesExtracted != 3 || report.EntitiesLoaded != 3 {
		t.Errorf("expected 3 entities extracted and loaded, got %d/%d",
			report.EntitiesExtracted, report.EntitiesLoaded)
	}

	if admin.DocCount("genres") != 3 {
		t.Fatalf("expected 3 genre documents, got %d", admin.DocCount("genres"))
	}
	for _, id := range []string{"g1", "g2", "g3"} {
		if admin.Doc("genres", id) == nil {
			t.Errorf("missing genre document %s", id)
		}
	}

	var g1 domain.Entity
	if err := json.Unmarshal(admin.Doc("genres", "g1"), &g1); err != nil {
		t.Fatalf("failed to decode stored genre: %v", err)
	}
	if g1.Name != "Action" || len(g1.FilmIDs) != 2 {
		t.Errorf("unexpected stored genre: %+v", g1)
	}
}

func TestRebuild_PersonsCompositeDocIDs(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	docIndex.AddDocument("films", "film-a", `{
		"actors": [{"uuid": "p1", "full_name": "Clint Eastwood"}],
		"directors": [{"uuid": "p1", "full_name": "Clint Eastwood"}]
	}`)

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	report, err := o.RebuildPersons(context.Background(), "films", "persons")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.EntitiesLoaded != 2 {
		t.Fatalf("expected 2 person records (one per role), got %d", report.EntitiesLoaded)
	}
	if admin.Doc("persons", "p1:actor") == nil || admin.Doc("persons", "p1:director") == nil {
		t.Errorf("expected composite document IDs, got %v", admin.DocIDs("persons"))
	}
}

func TestRebuild_RemovesStaleEntities(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	seedGenreFilms(docIndex)
	admin.SeedIndex("genres", "stale-1", "stale-2", "stale-3", "stale-4", "stale-5")

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	if _, err := o.RebuildGenres(context.Background(), "films", "genres"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if admin.DocCount("genres") != 3 {
		t.Errorf("expected stale entities gone, got %d documents", admin.DocCount("genres"))
	}
	for _, id := range admin.DocIDs("genres") {
		if id == "stale-1" {
			t.Error("stale entity survived the rebuild")
		}
	}
	if admin.DeleteCalls != 1 {
		t.Errorf("expected pre-existing index to be deleted once, got %d", admin.DeleteCalls)
	}
}

func TestRebuild_Idempotent(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	seedGenreFilms(docIndex)

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	first, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	firstIDs := admin.DocIDs("genres")

	second, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first.EntitiesLoaded != second.EntitiesLoaded {
		t.Errorf("expected identical entity counts, got %d then %d",
			first.EntitiesLoaded, second.EntitiesLoaded)
	}
	secondIDs := admin.DocIDs("genres")
	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("expected identical identity sets, got %v then %v", firstIDs, secondIDs)
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Fatalf("expected identical identity sets, got %v then %v", firstIDs, secondIDs)
		}
	}
}

func TestRebuild_MalformedReferenceTolerated(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	docIndex.AddDocument("films", "film-a", `{"genre": [
		{"id": "g1", "name": "Action"},
		{"id": "broken"},
		{"id": "g2", "name": "Drama"}
	]}`)

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	report, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err != nil {
		t.Fatalf("malformed reference must not fail the run: %v", err)
	}
	if report.EntitiesLoaded != 2 {
		t.Errorf("expected the 2 valid entities loaded, got %d", report.EntitiesLoaded)
	}
}

func TestRebuild_TransientScanErrorRetried(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	seedGenreFilms(docIndex)
	docIndex.ScanErrOnce = &transientErr{msg: "connection reset"}

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	report, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err != nil {
		t.Fatalf("expected transient scan failure to be retried: %v", err)
	}
	if report.Status != domain.RebuildStatusSucceeded {
		t.Errorf("expected succeeded status, got %s", report.Status)
	}
}

func TestRebuild_ScanFailureAbortsBeforeRecreate(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	admin.SeedIndex("genres", "keep-me")
	docIndex.ScanErr = errors.New("mapping corrupt")

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	report, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Status != domain.RebuildStatusFailed {
		t.Errorf("expected failed status, got %s", report.Status)
	}
	// The old target must be untouched when the scan never completed.
	if admin.DeleteCalls != 0 || admin.CreateCalls != 0 {
		t.Errorf("target index touched after scan failure: %d deletes, %d creates",
			admin.DeleteCalls, admin.CreateCalls)
	}
	if admin.DocCount("genres") != 1 {
		t.Errorf("expected pre-existing target preserved, got %d docs", admin.DocCount("genres"))
	}
}

func TestRebuild_CreateFailureAbortsBeforeLoad(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	seedGenreFilms(docIndex)
	admin.CreateErr = errors.New("invalid mapping")

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	report, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Status != domain.RebuildStatusFailed {
		t.Errorf("expected failed status, got %s", report.Status)
	}
	if admin.BulkCalls != 0 {
		t.Errorf("pipeline must not load into an index of unknown shape, got %d bulk calls", admin.BulkCalls)
	}
}

func TestRebuild_BulkFailureIsFatal(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	for _, d := range []struct{ id, genre, name string }{
		{"film-1", "g1", "Action"},
		{"film-2", "g2", "Drama"},
		{"film-3", "g3", "Comedy"},
		{"film-4", "g4", "Horror"},
	} {
		docIndex.AddDocument("films", d.id, `{"genre": [{"id": "`+d.genre+`", "name": "`+d.name+`"}]}`)
	}

	// Batch size 2 gives two batches; the second one fails hard.
	admin.BulkErr = errors.New("rejected")
	admin.BulkErrAfter = 1

	o := newTestOrchestrator(docIndex, admin, 100, 2)

	report, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Status != domain.RebuildStatusFailed {
		t.Errorf("expected failed status, got %s", report.Status)
	}
	// Batch 1 may have landed; the run must still report failure.
	if report.EntitiesLoaded > 2 {
		t.Errorf("expected at most the first batch loaded, got %d", report.EntitiesLoaded)
	}
	if admin.DocCount("genres") > 2 {
		t.Errorf("expected at most 2 documents in the target, got %d", admin.DocCount("genres"))
	}
}

func TestRebuild_ContextCancellation(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	seedGenreFilms(docIndex)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	report, err := o.RebuildGenres(ctx, "films", "genres")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report.Status != domain.RebuildStatusFailed {
		t.Errorf("expected failed status, got %s", report.Status)
	}
}

func TestRebuild_EmptySourceYieldsEmptyTarget(t *testing.T) {
	docIndex := mocks.NewMockDocumentIndex()
	admin := mocks.NewMockIndexAdmin()
	admin.SeedIndex("genres", "stale-1")

	o := newTestOrchestrator(docIndex, admin, 100, 500)

	report, err := o.RebuildGenres(context.Background(), "films", "genres")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.EntitiesLoaded != 0 {
		t.Errorf("expected nothing loaded, got %d", report.EntitiesLoaded)
	}
	if !admin.HasIndex("genres") {
		t.Error("expected target index recreated even when empty")
	}
	if admin.DocCount("genres") != 0 {
		t.Errorf("expected empty target, got %d docs", admin.DocCount("genres"))
	}
}
