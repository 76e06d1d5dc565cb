package article

import (
	"net/url"
	"time"

	"github.com/SergeyParamoshkin/publisher/internal/errresponse"
)

type CriteriaKind int

const (
	CriteriaNone CriteriaKind = iota
	CriteriaAuthor
	CriteriaKeyword
	CriteriaPeriod
)

func (k CriteriaKind) String() string {
	switch k {
	case CriteriaAuthor:
		return "author"
	case CriteriaKeyword:
		return "keyword"
	case CriteriaPeriod:
		return "period"
	default:
		return "none"
	}
}

// Criteria is the single filter applied to a listing.
type Criteria struct {
	Kind  CriteriaKind
	Value string
	From  time.Time
	To    time.Time
}

const DateFormatMessage = "Invalid date/time format. Use ISO_LOCAL_DATE_TIME e.g. 2007-12-03T10:15:30"

// Fractional seconds are accepted after the seconds field by both layouts
// that carry one.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ResolveListing picks the listing filter from the query. The first
// present parameter wins: author, then keyword, then the from/to pair.
// Dates are only looked at when neither author nor keyword is given, and a
// period needs both bounds.
func ResolveListing(query url.Values, loc *time.Location) (Criteria, error) {
	if loc == nil {
		loc = time.Local
	}

	if _, ok := query["author"]; ok {
		return Criteria{Kind: CriteriaAuthor, Value: query.Get("author")}, nil
	}
	if _, ok := query["keyword"]; ok {
		return Criteria{Kind: CriteriaKeyword, Value: query.Get("keyword")}, nil
	}

	from, hasFrom, err := localDateTime(query, "from", loc)
	if err != nil {
		return Criteria{}, err
	}
	to, hasTo, err := localDateTime(query, "to", loc)
	if err != nil {
		return Criteria{}, err
	}
	if hasFrom && hasTo {
		return Criteria{Kind: CriteriaPeriod, From: from, To: to}, nil
	}

	return Criteria{Kind: CriteriaNone}, nil
}

func localDateTime(query url.Values, key string, loc *time.Location) (time.Time, bool, error) {
	if _, ok := query[key]; !ok {
		return time.Time{}, false, nil
	}

	value := query.Get(key)
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true, nil
		}
	}

	return time.Time{}, true, errresponse.InvalidInput(DateFormatMessage)
}
