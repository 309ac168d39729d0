// Package sequence generates the per-tenant, per-day document numbers used
// for journal entries (JE-) and invoices (INV-).
//
// Numbers have the fixed shape PREFIX-YYYYMMDD-NNN with a 3-digit zero-padded
// suffix, so sorting numbers as strings in descending order yields the highest
// sequence for a day. Callers scan the last existing number for a prefix and
// ask for the next one; the scan-then-insert window is closed by the unique
// index on the number column, which turns a lost race into a duplicate error.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DatePrefix returns "<kind>-YYYYMMDD-" for the given date, in UTC.
func DatePrefix(kind string, date time.Time) string {
	return fmt.Sprintf("%s-%s-", kind, date.UTC().Format("20060102"))
}

// Next returns the document number following last within its day prefix.
// last is the lexicographically-greatest existing number sharing the prefix,
// or nil when no number exists for that day yet (the sequence starts at 1).
func Next(prefix string, last *string) string {
	seq := 1
	if last != nil {
		parts := strings.Split(*last, "-")
		if len(parts) >= 3 {
			n, _ := strconv.Atoi(parts[2])
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq)
}
