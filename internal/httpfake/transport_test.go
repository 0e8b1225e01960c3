package httpfake_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Tracktor/zoho-crm/internal/httpfake"
	"github.com/stretchr/testify/require"
)

func TestTransport(t *testing.T) {
	tr := httpfake.New().On(http.MethodPost, "https://example.com/items",
		httpfake.Text(http.StatusCreated, "first"),
		httpfake.JSON(http.StatusOK, map[string]string{"n": "2"}),
	)
	client := tr.Client()

	bodies := []string{}
	for i := 0; i < 3; i++ {
		resp, err := client.Post("https://example.com/items?page=1", "text/plain", strings.NewReader("payload"))
		require.NoError(t, err)
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		bodies = append(bodies, string(data))
	}
	require.Equal(t, []string{"first", `{"n":"2"}`, `{"n":"2"}`}, bodies)

	require.Equal(t, 3, tr.Count(http.MethodPost, "https://example.com/items"))
	requests := tr.Requests()
	require.Equal(t, "payload", string(requests[0].Body))
	require.Equal(t, "1", requests[0].URL.Query().Get("page"))

	_, err := client.Get("https://example.com/other")
	require.ErrorContains(t, err, "no route")
}

func TestTransportFailure(t *testing.T) {
	tr := httpfake.New().On(http.MethodGet, "https://example.com/", httpfake.Fail(httpfake.ErrTimeout))

	_, err := tr.Client().Get("https://example.com/")
	require.Error(t, err)
	require.ErrorIs(t, err, httpfake.ErrTimeout)
}
