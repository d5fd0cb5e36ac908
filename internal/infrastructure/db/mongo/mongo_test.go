package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agileworks/backlog-api/internal/core/domain"
)

func TestIDFilter_MalformedIDIsNotFound(t *testing.T) {
	if _, err := idFilter("not-an-object-id", domain.ErrEpicNotFound); err != domain.ErrEpicNotFound {
		t.Fatalf("expected ErrEpicNotFound, got %v", err)
	}

	oid := primitive.NewObjectID()
	filter, err := idFilter(oid.Hex(), domain.ErrEpicNotFound)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter["_id"] != oid {
		t.Fatalf("expected filter on %s, got %v", oid.Hex(), filter["_id"])
	}
}

func TestEpicDoc_ToDomain(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	doc := epicDoc{
		ID:               primitive.NewObjectID(),
		Name:             "payments",
		Priority:         "HIGH",
		Status:           "IN_PROGRESS",
		DueDate:          &due,
		ProductBacklogID: "b1",
	}

	e := doc.toDomain()
	if e.ID != doc.ID.Hex() {
		t.Fatalf("expected hex id, got %s", e.ID)
	}
	if e.Priority != domain.PriorityHigh || e.Status != domain.StatusInProgress {
		t.Fatalf("unexpected enums: %s %s", e.Priority, e.Status)
	}
	if e.DueDate == nil || e.DueDate.Location() != time.UTC || !e.DueDate.Equal(due) {
		t.Fatalf("expected due date normalized to UTC, got %v", e.DueDate)
	}
	if e.IsLinked() {
		t.Fatalf("epic without sprint id must not be linked")
	}
}

func TestHex_ZeroObjectID(t *testing.T) {
	if got := hex(primitive.NilObjectID); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func TestUserDoc_ToDomainKeepsHash(t *testing.T) {
	doc := userDoc{ID: primitive.NewObjectID(), Email: "a@example.com", PasswordHash: "h", Privilege: "DEVELOPER", ProjectID: "p1"}
	u := doc.toDomain()
	if u.PasswordHash != "h" || u.Privilege != domain.PrivilegeDeveloper || u.ProjectID != "p1" {
		t.Fatalf("unexpected user: %+v", u)
	}
}
