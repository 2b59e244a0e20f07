package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSessionID computes a deterministic session_id using SHA256.
// Formula: SHA256(date|room|stake_text|buyins|cashouts|hours)
// Returns hex-encoded hash (64 characters).
//
// Monetary amounts are fixed to two decimals and hours to one so that a
// re-imported log produces identical IDs regardless of float formatting
// in the source file.
func ComputeSessionID(
	date string,
	room string,
	stakeText string,
	buyinsUSD float64,
	cashoutsUSD float64,
	hoursPlayed float64,
) string {
	data := fmt.Sprintf("%s|%s|%s|%.2f|%.2f|%.1f",
		date,
		room,
		stakeText,
		buyinsUSD,
		cashoutsUSD,
		hoursPlayed,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
