package weather

import "time"

const timestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders epoch seconds in loc as "YYYY-MM-DD HH:MM:SS".
// A nil loc means UTC.
func FormatTimestamp(epoch int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(epoch, 0).In(loc).Format(timestampLayout)
}
