package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bankroll-lab/internal/domain"
)

const sampleCSV = `date,room,stake_text,buyins_usd,cashouts_usd,hours_played,straddle_exposure,side_bombpots_count,side_standup_minutes,side_bounty_flag,stack_depth_class,notes
2025-01-15,Bellagio,2-5,500.00,750.00,5.5,low,3,10,false,N,good table
2025-01-16,Aria,5-10,1500.00,1200.00,4.0,none,0,0,true,D,tough lineup
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sessions.csv", sampleCSV)

	sessions, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}

	s := sessions[0]
	if s.Date != "2025-01-15" || s.Room != "Bellagio" || s.StakeText != "2-5" {
		t.Errorf("identity fields mismatch: %+v", s)
	}
	if s.BuyinsUSD != 500 || s.CashoutsUSD != 750 || s.HoursPlayed != 5.5 {
		t.Errorf("numeric fields mismatch: %+v", s)
	}
	if s.StraddleExposure != domain.StraddleLow || s.SideBombpotsCount != 3 {
		t.Errorf("side fields mismatch: %+v", s)
	}
	if s.SessionID == "" || len(s.SessionID) != 64 {
		t.Errorf("expected 64-char hex session id, got %q", s.SessionID)
	}
	if !sessions[1].SideBountyFlag {
		t.Error("bounty flag not parsed")
	}
}

func TestLoadFile_DeterministicIDs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sessions.csv", sampleCSV)

	a, err := LoadFile(path)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	for i := range a {
		if a[i].SessionID != b[i].SessionID {
			t.Errorf("session %d: IDs differ across loads", i)
		}
	}
}

func TestLoadFile_OptionalColumnsDefault(t *testing.T) {
	minimal := "date,room,stake_text,buyins_usd,cashouts_usd,hours_played\n" +
		"2025-01-15,Bellagio,2-5,500,750,5.5\n"
	path := writeFile(t, t.TempDir(), "minimal.csv", minimal)

	sessions, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	s := sessions[0]
	if s.StraddleExposure != domain.StraddleNone {
		t.Errorf("straddle default = %q, want none", s.StraddleExposure)
	}
	if s.StackDepthClass != domain.DepthNormal {
		t.Errorf("depth default = %q, want N", s.StackDepthClass)
	}
}

func TestLoadFile_MissingRequiredColumn(t *testing.T) {
	noStake := "date,room,buyins_usd,cashouts_usd,hours_played\n" +
		"2025-01-15,Bellagio,500,750,5.5\n"
	path := writeFile(t, t.TempDir(), "bad.csv", noStake)

	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "stake_text") {
		t.Errorf("expected missing-column error naming stake_text, got %v", err)
	}
}

func TestLoadFile_BadNumericValue(t *testing.T) {
	bad := "date,room,stake_text,buyins_usd,cashouts_usd,hours_played\n" +
		"2025-01-15,Bellagio,2-5,abc,750,5.5\n"
	path := writeFile(t, t.TempDir(), "bad.csv", bad)

	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected parse error naming line 2, got %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", sampleCSV)
	writeFile(t, dir, "a.csv", "date,room,stake_text,buyins_usd,cashouts_usd,hours_played\n"+
		"2025-02-01,Commerce,1-3,300,400,6\n")

	sessions, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 combined sessions, got %d", len(sessions))
	}
	// Files combine in name order, a.csv first
	if sessions[0].Room != "Commerce" {
		t.Errorf("expected a.csv rows first, got %s", sessions[0].Room)
	}
}

func TestLoadDir_Empty(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
