package bulletin

import (
	"fmt"
	"time"
)

// jst is a fixed UTC+9 zone. A fixed offset keeps formatting deterministic
// regardless of the host's zone database or local time zone.
var jst = time.FixedZone("JST", 9*60*60)

var weekdayKanji = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// FormatWhen renders a stored UTC timestamp for display in Japan Standard
// Time as "MM/DD（曜） HH:mm" with a 24-hour clock. The weekday is computed
// in JST, not in the timestamp's original zone.
func FormatWhen(t time.Time) string {
	local := t.In(jst)
	return fmt.Sprintf("%02d/%02d（%s） %02d:%02d",
		int(local.Month()), local.Day(), weekdayKanji[local.Weekday()], local.Hour(), local.Minute())
}
