package health

import (
	"context"
	"testing"

	"github.com/fanpulse/fanpulse/internal/infra/sqlite"
)

func TestCheckerReportsHealthy(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	c := NewChecker(db, dir)
	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %s unhealthy: %s", s.Name, s.Error)
		}
		if s.CheckedAt.IsZero() {
			t.Errorf("check %s missing timestamp", s.Name)
		}
	}
}

func TestCheckerReportsClosedDB(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.Close()

	c := NewChecker(db, dir)
	c.runAll(context.Background())

	found := false
	for _, s := range c.Statuses() {
		if s.Name != "sqlite" {
			continue
		}
		found = true
		if s.Healthy {
			t.Error("sqlite check healthy on a closed database")
		}
	}
	if !found {
		t.Fatal("sqlite check missing")
	}
}

func TestCheckWritable(t *testing.T) {
	if err := checkWritable(t.TempDir()); err != nil {
		t.Errorf("writable dir failed: %v", err)
	}
	if err := checkWritable("/nonexistent-fanpulse-dir"); err == nil {
		t.Error("nonexistent dir passed")
	}
}
