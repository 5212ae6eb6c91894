package gorilla

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ecotrack/iotstream/internal/testutil"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Echoes every frame back, prefixed with the session cookie if there is one.
// A frame saying "bye" makes the server close the connection normally.
func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := ""
		if c, err := r.Cookie("sessionid"); err == nil {
			prefix = c.Value + ":"
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			typ, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(data) == "bye" {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
			if err := conn.WriteMessage(typ, append([]byte(prefix), data...)); err != nil {
				return
			}
		}
	})
}

func wsURL(t *testing.T, httpURL string) *url.URL {
	u, err := url.Parse(strings.Replace(httpURL, "http", "ws", 1) + "/ws/network/")
	require.NoError(t, err)
	return u
}

func TestTransportEcho(t *testing.T) {
	ts := httptest.NewServer(echoHandler())
	defer ts.Close()

	rec := testutil.NewCallbackRecorder(t)
	tr, err := new(Dialer).NewTransport(wsURL(t, ts.URL), rec.Callbacks())
	require.NoError(t, err)
	go tr.Run()
	rec.WaitOpen(t)

	tr.Send([]byte(`{"latency_data":[4,5]}`))
	assert.Equal(t, `{"latency_data":[4,5]}`, string(rec.WaitFrame(t)))

	tr.Close()
	assert.NoError(t, rec.WaitClose(t))
	rec.NoMoreCloses(t, 200*time.Millisecond)
}

func TestTransportRequestHeader(t *testing.T) {
	ts := httptest.NewServer(echoHandler())
	defer ts.Close()

	header := http.Header{}
	header.Set("Cookie", "sessionid=abc123")
	d := &Dialer{RequestHeader: header}

	rec := testutil.NewCallbackRecorder(t)
	tr, err := d.NewTransport(wsURL(t, ts.URL), rec.Callbacks())
	require.NoError(t, err)
	// Changing the header afterwards doesn't affect the transport.
	header.Set("Cookie", "sessionid=changed")

	go tr.Run()
	rec.WaitOpen(t)
	tr.Send([]byte("hello"))
	assert.Equal(t, "abc123:hello", string(rec.WaitFrame(t)))
	tr.Close()
	rec.WaitClose(t)
}

func TestTransportServerClosesNormally(t *testing.T) {
	ts := httptest.NewServer(echoHandler())
	defer ts.Close()

	rec := testutil.NewCallbackRecorder(t)
	tr, err := new(Dialer).NewTransport(wsURL(t, ts.URL), rec.Callbacks())
	require.NoError(t, err)
	go tr.Run()
	rec.WaitOpen(t)

	tr.Send([]byte("bye"))
	assert.NoError(t, rec.WaitClose(t))
}

func TestTransportServerDrops(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// No closing handshake.
		conn.Close()
	}))
	defer ts.Close()

	rec := testutil.NewCallbackRecorder(t)
	tr, err := new(Dialer).NewTransport(wsURL(t, ts.URL), rec.Callbacks())
	require.NoError(t, err)
	go tr.Run()
	rec.WaitOpen(t)
	assert.Error(t, rec.WaitClose(t))
}

func TestTransportDialFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	rec := testutil.NewCallbackRecorder(t)
	tr, err := new(Dialer).NewTransport(wsURL(t, ts.URL), rec.Callbacks())
	require.NoError(t, err)
	go tr.Run()

	assert.ErrorIs(t, rec.WaitClose(t), websocket.ErrBadHandshake)
	assert.Empty(t, rec.Opened)
}

func TestNewTransportRejectsScheme(t *testing.T) {
	u, err := url.Parse("https://localhost/ws/network/")
	require.NoError(t, err)
	_, err = new(Dialer).NewTransport(u, testutil.NewCallbackRecorder(t).Callbacks())
	assert.Error(t, err)
}
