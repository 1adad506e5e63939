package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListingsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_listings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no listings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS listings",
		"CHECK (bids_count >= 0)",
		"CHECK (minimum_increment > 0)",
		"FOREIGN KEY (submission_id) REFERENCES submissions(id)",
		"DROP TABLE IF EXISTS listings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestBidsMigrationIsAppendOnlyShape(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_bids.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no bids migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS bids",
		"FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE",
		"CHECK (bid_per_kg > 0)",
		"CHECK (quantity > 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}

	if strings.Contains(content, "updated_at") {
		t.Errorf("bids table should not carry updated_at, rows are append-only")
	}
}
