package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeasonURL(t *testing.T) {
	require.Equal(t, "https://example.com/stats/2024", SeasonURL("https://example.com/stats", 2024))
	require.Equal(t, "https://example.com/stats/2024", SeasonURL("https://example.com/stats/", 2024))
}

func TestStaticClientFetchSeason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		fmt.Fprintf(w, "<html>%s</html>", r.URL.Path)
	}))
	defer srv.Close()

	c := NewStaticClient(srv.URL, 0)
	defer c.Close()

	body, err := c.FetchSeason(context.Background(), 2024)
	require.NoError(t, err)
	require.Equal(t, "<html>/2024</html>", body)
}

func TestStaticClientFallsBackToBareURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			fmt.Fprint(w, "current season")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewStaticClient(srv.URL, 0)
	defer c.Close()

	body, err := c.FetchSeason(context.Background(), 2031)
	require.NoError(t, err)
	require.Equal(t, "current season", body)
}

func TestStaticClientErrorWhenBothFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewStaticClient(srv.URL, 0)
	defer c.Close()

	_, err := c.FetchSeason(context.Background(), 2024)
	require.Error(t, err)
}

func TestParseHTML(t *testing.T) {
	doc, err := ParseHTML("<html><body><table><tr><td>x</td></tr></table></body></html>")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("table").Length())
}
