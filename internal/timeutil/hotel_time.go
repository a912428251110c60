package timeutil

import (
	"time"
)

// HotelTZ is the hotel's local time zone (CET/CEST)
var HotelTZ *time.Location

func init() {
	var err error
	HotelTZ, err = time.LoadLocation("Europe/Rome")
	if err != nil {
		// Fallback: fixed zone if tzdata is not available
		HotelTZ = time.FixedZone("CET", 1*60*60)
	}
}

// Now returns the current time in hotel-local time
func Now() time.Time {
	return time.Now().In(HotelTZ)
}

// ToLocal converts any time to hotel-local time
func ToLocal(t time.Time) time.Time {
	return t.In(HotelTZ)
}

// Storage and display date layouts. Both are part of the storage contract:
// daily revenue records are keyed by the underscore form, the UI shows the
// slash form, and they must round-trip exactly.
const (
	DateKeyLayout     = "02_01_2006"
	DisplayDateLayout = "02/01/2006"
	TimestampLayout   = "2006-01-02 15:04:05"
)

// DateKey formats t as the DD_MM_YYYY storage key
func DateKey(t time.Time) string {
	return t.In(HotelTZ).Format(DateKeyLayout)
}

// TodayKey returns the date key for the current hotel-local day
func TodayKey() string {
	return DateKey(time.Now())
}

// ParseDateKey parses a DD_MM_YYYY key back into a hotel-local time
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, HotelTZ)
}

// DisplayDate converts a DD_MM_YYYY key to its DD/MM/YYYY display form.
// A malformed key is returned unchanged so a bad record stays visible.
func DisplayDate(key string) string {
	t, err := ParseDateKey(key)
	if err != nil {
		return key
	}
	return t.Format(DisplayDateLayout)
}

// Dinner service starts at 18:30 hotel-local time.
const (
	dinnerHour   = 18
	dinnerMinute = 30
)

// IsDinnerService reports whether t falls in dinner service (>= 18:30 local)
func IsDinnerService(t time.Time) bool {
	local := t.In(HotelTZ)
	h, m := local.Hour(), local.Minute()
	return h > dinnerHour || (h == dinnerHour && m >= dinnerMinute)
}
