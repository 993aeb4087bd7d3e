package bulletin

import (
	"testing"
	"time"
)

func TestFormatWhen_JST(t *testing.T) {
	ts := time.Date(2024, 1, 15, 5, 30, 0, 0, time.UTC)
	if got := FormatWhen(ts); got != "01/15（月） 14:30" {
		t.Errorf("FormatWhen = %q", got)
	}
}

func TestFormatWhen_CrossesDateLine(t *testing.T) {
	// 16:00 UTC is 01:00 the next day in JST; the weekday must follow.
	ts := time.Date(2024, 3, 31, 16, 0, 0, 0, time.UTC)
	if got := FormatWhen(ts); got != "04/01（月） 01:00" {
		t.Errorf("FormatWhen = %q", got)
	}
}

func TestFormatWhen_IgnoresSourceZone(t *testing.T) {
	// The same instant expressed in another zone must render identically.
	utc := time.Date(2024, 1, 15, 5, 30, 0, 0, time.UTC)
	offset := utc.In(time.FixedZone("X", -5*3600))
	if FormatWhen(utc) != FormatWhen(offset) {
		t.Error("formatting must depend only on the instant")
	}
}
