package usecase

import "time"

const dateLayout = "2006-01-02"

// BuildQuery anchors the topic terms to the given day with a since: clause.
func BuildQuery(terms string, day time.Time) string {
	return terms + " since:" + day.Format(dateLayout)
}

// Rescope re-anchors the query to today when its embedded date fell
// behind. The second result reports whether the scope advanced, in which
// case the caller must clear its seen-set before the next fetch.
func Rescope(query, terms string, now time.Time) (string, bool) {
	today := now.Format(dateLayout)
	if len(query) >= len(today) && query[len(query)-len(today):] == today {
		return query, false
	}
	return BuildQuery(terms, now), true
}
