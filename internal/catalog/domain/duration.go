package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Duration identifies a subscription period, e.g. "3m" or "1y".
type Duration string

const (
	DurationOneMonth     Duration = "1m"
	DurationThreeMonths  Duration = "3m"
	DurationSixMonths    Duration = "6m"
	DurationTwelveMonths Duration = "12m"
	DurationOneYear      Duration = "1y"

	// DefaultDuration is used when a shopper adds a duration-variant
	// offering without choosing a period.
	DefaultDuration = DurationOneMonth
)

// ErrUnknownDuration is returned when an offering has no price for the
// requested duration.
var ErrUnknownDuration = errors.New("unknown duration")

// OfferingDurations lists the periods a catalog offering may be priced for.
func OfferingDurations() []Duration {
	return []Duration{DurationOneMonth, DurationThreeMonths, DurationSixMonths, DurationTwelveMonths}
}

// HostingDurations lists the periods a hosting plan may be billed for.
func HostingDurations() []Duration {
	return []Duration{DurationOneMonth, DurationThreeMonths, DurationSixMonths, DurationOneYear}
}

// Months returns the number of months implied by the key, or 0 when the
// key is malformed.
func (d Duration) Months() int {
	s := string(d)
	switch {
	case strings.HasSuffix(s, "m"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "m"))
		if err != nil || n <= 0 {
			return 0
		}
		return n
	case strings.HasSuffix(s, "y"):
		n, err := strconv.Atoi(strings.TrimSuffix(s, "y"))
		if err != nil || n <= 0 {
			return 0
		}
		return n * 12
	default:
		return 0
	}
}

// Label renders the duration for invoices and cart lines.
func (d Duration) Label() string {
	if strings.HasSuffix(string(d), "y") {
		years := d.Months() / 12
		if years == 1 {
			return "1 Year"
		}
		return fmt.Sprintf("%d Years", years)
	}
	months := d.Months()
	if months == 1 {
		return "1 Month"
	}
	return fmt.Sprintf("%d Months", months)
}

// Valid reports whether the key parses to a positive period.
func (d Duration) Valid() bool {
	return d.Months() > 0
}
