package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedFixture = `[
  {
    "id": "evt-1",
    "sport_key": "basketball_nba",
    "commence_time": "2026-08-30T00:00:00Z",
    "home_team": "Los Angeles Lakers",
    "away_team": "Boston Celtics",
    "bookmakers": [
      {
        "key": "book_a",
        "title": "Book A",
        "markets": [
          {
            "key": "h2h",
            "outcomes": [
              {"name": "Los Angeles Lakers", "price": -110},
              {"name": "Boston Celtics", "price": -110}
            ]
          },
          {
            "key": "spreads",
            "outcomes": [
              {"name": "Los Angeles Lakers", "price": -110, "point": -3.5},
              {"name": "Boston Celtics", "price": -110, "point": 3.5}
            ]
          }
        ]
      },
      {
        "key": "book_b",
        "title": "Book B",
        "markets": [
          {
            "key": "h2h",
            "outcomes": [
              {"name": "Los Angeles Lakers", "price": -50},
              {"name": "Boston Celtics", "price": -110}
            ]
          }
        ]
      }
    ]
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*OddsAPIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewOddsAPIClient(OddsAPIConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		RequestsPerSec: 1000, // keep tests fast
	}, nil)
	return client, server
}

func TestFetchEventsNormalizesQuotes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		fmt.Fprint(w, feedFixture)
	})

	events, err := client.FetchEvents(context.Background(), "basketball_nba")
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "Los Angeles Lakers", event.HomeTeam)

	// Book B's malformed -50 price invalidates its only market, so only
	// Book A survives normalization.
	require.Len(t, event.Quotes, 1)
	quote := event.Quotes[0]
	assert.Equal(t, "book_a", quote.Bookmaker)

	require.NotNil(t, quote.Moneyline)
	assert.Equal(t, -110, quote.Moneyline.Home.American)

	require.NotNil(t, quote.Spread)
	assert.Equal(t, -3.5, quote.Spread.Point)

	assert.Nil(t, quote.Total)
}

func TestFetchEventsPartialMarketIsAbsentNotFatal(t *testing.T) {
	// Missing away outcome: the moneyline is dropped for that book without
	// failing the fetch.
	partial := `[
	  {
	    "id": "evt-2",
	    "sport_key": "basketball_nba",
	    "home_team": "Denver Nuggets",
	    "away_team": "Milwaukee Bucks",
	    "bookmakers": [
	      {
	        "key": "book_a",
	        "markets": [
	          {"key": "h2h", "outcomes": [{"name": "Denver Nuggets", "price": -120}]},
	          {
	            "key": "totals",
	            "outcomes": [
	              {"name": "Over", "price": -110, "point": 224.5},
	              {"name": "Under", "price": -110, "point": 224.5}
	            ]
	          }
	        ]
	      }
	    ]
	  }
	]`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, partial)
	})

	events, err := client.FetchEvents(context.Background(), "basketball_nba")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Quotes, 1)

	quote := events[0].Quotes[0]
	assert.Nil(t, quote.Moneyline)
	require.NotNil(t, quote.Total)
	assert.Equal(t, 224.5, quote.Total.Point)
}

func TestFetchEventsNonOKStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.FetchEvents(context.Background(), "basketball_nba")
	assert.Error(t, err)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := client.FetchEvents(context.Background(), "basketball_nba")
		require.Error(t, err)
	}

	assert.Equal(t, "open", client.BreakerState())

	_, err := client.FetchEvents(context.Background(), "basketball_nba")
	assert.Error(t, err)
}
