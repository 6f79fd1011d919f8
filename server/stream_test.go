package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStream_ProgressThenResult(t *testing.T) {
	svc := newTestService(t)
	srv := httptest.NewServer(Router(svc))
	defer srv.Close()

	conn := dialStream(t, srv)
	iterations := 160
	require.NoError(t, conn.WriteJSON(estimateRequest{Cards: []string{"QH", "QC"}, Iterations: &iterations}))

	var frames []streamFrame
	for {
		var f streamFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		if f.Type != "progress" {
			break
		}
	}
	last := frames[len(frames)-1]
	require.Equal(t, "result", last.Type, last.Error)
	require.NotNil(t, last.Result)
	require.Equal(t, 160, last.Result.Run.Iterations)

	// 50, 100, 150 and the final 160.
	progress := frames[:len(frames)-1]
	require.Len(t, progress, 4)
	require.Equal(t, 50, progress[0].Progress.Iteration)
	require.Equal(t, 160, progress[3].Progress.Iteration)
}

func TestStream_BadRequest(t *testing.T) {
	srv := httptest.NewServer(Router(newTestService(t)))
	defer srv.Close()

	conn := dialStream(t, srv)
	require.NoError(t, conn.WriteJSON(estimateRequest{Cards: []string{"AH"}}))
	var f streamFrame
	require.NoError(t, conn.ReadJSON(&f))
	require.Equal(t, "error", f.Type)
	require.Contains(t, f.Error, "degenerate input")
}

func TestStream_DroppedFrameIsLogged(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestService(t)
	svc.log = newLogger(Config{LogLevel: "debug", NoColor: true}, &buf)

	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(done)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
		svc.deliver(conn, streamFrame{Type: "result"})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	<-done

	require.Contains(t, buf.String(), "stream frame dropped")
	require.Contains(t, buf.String(), "result")
}
