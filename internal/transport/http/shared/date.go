package shared

import "time"

const dateLayout = "2006-01-02"

func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
