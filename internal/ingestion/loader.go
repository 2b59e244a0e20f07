// Package ingestion loads raw session logs from CSV, validates them, and
// can generate sample data when no logs exist yet.
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/idhash"
)

// ErrNoData is returned when a data directory contains no CSV files.
var ErrNoData = errors.New("no session data files found")

// Canonical CSV columns. Header order in the file is free; lookup is by name.
var requiredColumns = []string{
	"date", "room", "stake_text",
	"buyins_usd", "cashouts_usd", "hours_played",
}

// LoadFile reads one session CSV. Every row gets a deterministic session
// ID derived from its identifying fields, so re-importing the same file
// yields the same IDs.
func LoadFile(path string) ([]*domain.RawSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	sessions, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return sessions, nil
}

// LoadDir reads and combines every *.csv file in dir, sorted by file name
// for a stable combined order. Returns ErrNoData when none exist.
func LoadDir(dir string) ([]*domain.RawSession, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan data dir: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNoData
	}
	sort.Strings(matches)

	var all []*domain.RawSession
	for _, path := range matches {
		sessions, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, sessions...)
	}
	return all, nil
}

func parseCSV(r io.Reader) ([]*domain.RawSession, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var sessions []*domain.RawSession
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		session, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func parseRecord(record []string, cols map[string]int) (*domain.RawSession, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	buyins, err := parseFloat(get("buyins_usd"), "buyins_usd")
	if err != nil {
		return nil, err
	}
	cashouts, err := parseFloat(get("cashouts_usd"), "cashouts_usd")
	if err != nil {
		return nil, err
	}
	hours, err := parseFloat(get("hours_played"), "hours_played")
	if err != nil {
		return nil, err
	}

	s := &domain.RawSession{
		Date:             get("date"),
		Room:             get("room"),
		StakeText:        get("stake_text"),
		BuyinsUSD:        buyins,
		CashoutsUSD:      cashouts,
		HoursPlayed:      hours,
		StraddleExposure: defaultString(get("straddle_exposure"), domain.StraddleNone),
		StackDepthClass:  defaultString(get("stack_depth_class"), domain.DepthNormal),
		Notes:            get("notes"),
	}

	if v := get("side_bombpots_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid side_bombpots_count %q", v)
		}
		s.SideBombpotsCount = n
	}
	if v := get("side_standup_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid side_standup_minutes %q", v)
		}
		s.SideStandupMinutes = n
	}
	if v := get("side_bounty_flag"); v != "" {
		b, err := strconv.ParseBool(strings.ToLower(v))
		if err != nil {
			return nil, fmt.Errorf("invalid side_bounty_flag %q", v)
		}
		s.SideBountyFlag = b
	}

	s.SessionID = idhash.ComputeSessionID(s.Date, s.Room, s.StakeText, s.BuyinsUSD, s.CashoutsUSD, s.HoursPlayed)
	return s, nil
}

func parseFloat(v, name string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
