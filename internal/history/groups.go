package history

import (
	"sort"
	"time"
)

// Bucket labels one recency group in the sidebar.
type Bucket string

const (
	BucketToday     Bucket = "Today"
	BucketYesterday Bucket = "Yesterday"
	BucketThisWeek  Bucket = "This Week"
	BucketOlder     Bucket = "Older"
)

// BucketOrder is the fixed rendering order of the groups.
var BucketOrder = []Bucket{BucketToday, BucketYesterday, BucketThisWeek, BucketOlder}

// GroupByRecency partitions entries into the four recency buckets
// relative to now, using calendar-day boundaries in now's location:
// Today starts at the beginning of now's day, Yesterday 24h before
// that, This Week 7x24h before that, and Older takes the rest. Every
// bucket key is present in the result even when empty, and each
// bucket's entries are sorted most recent first.
func GroupByRecency(entries []Entry, now time.Time) map[Bucket][]Entry {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.Add(-24 * time.Hour)
	weekStart := todayStart.Add(-7 * 24 * time.Hour)

	groups := map[Bucket][]Entry{
		BucketToday:     {},
		BucketYesterday: {},
		BucketThisWeek:  {},
		BucketOlder:     {},
	}

	for _, e := range entries {
		ts := e.Timestamp
		switch {
		case !ts.Before(todayStart):
			groups[BucketToday] = append(groups[BucketToday], e)
		case !ts.Before(yesterdayStart):
			groups[BucketYesterday] = append(groups[BucketYesterday], e)
		case !ts.Before(weekStart):
			groups[BucketThisWeek] = append(groups[BucketThisWeek], e)
		default:
			groups[BucketOlder] = append(groups[BucketOlder], e)
		}
	}

	for k := range groups {
		es := groups[k]
		sort.Slice(es, func(i, j int) bool {
			return es[i].Timestamp.After(es[j].Timestamp)
		})
	}

	return groups
}
