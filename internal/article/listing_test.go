package article

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/publisher/internal/errresponse"
)

func query(t *testing.T, raw string) url.Values {
	t.Helper()

	q, err := url.ParseQuery(raw)
	require.NoError(t, err)

	return q
}

func TestResolveListing(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Criteria
	}{
		{"nothing", "", Criteria{Kind: CriteriaNone}},
		{"unknown parameter", "title=x", Criteria{Kind: CriteriaNone}},
		{"author", "author=a1", Criteria{Kind: CriteriaAuthor, Value: "a1"}},
		{"author wins over keyword", "keyword=k1&author=a1", Criteria{Kind: CriteriaAuthor, Value: "a1"}},
		{"author wins over malformed dates", "author=a1&from=yesterday&to=today", Criteria{Kind: CriteriaAuthor, Value: "a1"}},
		{"empty author is still present", "author=&keyword=k1", Criteria{Kind: CriteriaAuthor}},
		{"keyword", "keyword=k1", Criteria{Kind: CriteriaKeyword, Value: "k1"}},
		{"keyword wins over dates", "keyword=k1&from=2018-01-01T00:00:00&to=2018-01-03T00:00:00", Criteria{Kind: CriteriaKeyword, Value: "k1"}},
		{
			"period", "from=2018-01-01T00:00:00&to=2018-01-03T10:15",
			Criteria{
				Kind: CriteriaPeriod,
				From: time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2018, time.January, 3, 10, 15, 0, 0, time.UTC),
			},
		},
		{
			"fractional seconds", "from=2007-12-03T10:15:30.5&to=2007-12-03T10:15:31",
			Criteria{
				Kind: CriteriaPeriod,
				From: time.Date(2007, time.December, 3, 10, 15, 30, 500000000, time.UTC),
				To:   time.Date(2007, time.December, 3, 10, 15, 31, 0, time.UTC),
			},
		},
		{"lone from", "from=2018-01-01T00:00:00", Criteria{Kind: CriteriaNone}},
		{"lone to", "to=2018-01-01T00:00:00", Criteria{Kind: CriteriaNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveListing(query(t, tt.query), time.UTC)
			require.NoError(t, err)

			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Value, got.Value)
			assert.True(t, tt.want.From.Equal(got.From), "from: want %v, got %v", tt.want.From, got.From)
			assert.True(t, tt.want.To.Equal(got.To), "to: want %v, got %v", tt.want.To, got.To)
		})
	}
}

func TestResolveListing_MalformedDates(t *testing.T) {
	for _, raw := range []string{
		"from=yesterday&to=2018-01-03T00:00:00",
		"from=2018-01-01T00:00:00&to=2018-01-03",
		"from=2018-01-01T00:00:00Z&to=2018-01-03T00:00:00",
		"from=&to=2018-01-03T00:00:00",
		"from=01/02/2018",
	} {
		_, err := ResolveListing(query(t, raw), time.UTC)

		var input *errresponse.InvalidInputError
		require.True(t, errors.As(err, &input), raw)
		assert.Equal(t, DateFormatMessage, input.Detail)
	}
}

func TestResolveListing_ReadsDatesInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)

	got, err := ResolveListing(query(t, "from=2018-01-01T03:00:00&to=2018-01-02T03:00:00"), loc)
	require.NoError(t, err)

	assert.True(t, time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC).Equal(got.From))
	assert.True(t, time.Date(2018, time.January, 2, 0, 0, 0, 0, time.UTC).Equal(got.To))
}

func TestCriteriaKind_String(t *testing.T) {
	assert.Equal(t, "author", CriteriaAuthor.String())
	assert.Equal(t, "keyword", CriteriaKeyword.String())
	assert.Equal(t, "period", CriteriaPeriod.String())
	assert.Equal(t, "none", CriteriaNone.String())
}
