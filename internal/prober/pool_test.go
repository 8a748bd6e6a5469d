package prober

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestProbeAll(t *testing.T) {
	small := pngBytes(t, 320, 400)
	large := pngBytes(t, 1080, 1350)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/small.png":
			w.Write(small)
		case "/large.png":
			w.Write(large)
		case "/broken.png":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	pool := NewPool(3, http.DefaultClient, nil)
	results := pool.ProbeAll([]ProbeJob{
		{URL: server.URL + "/small.png", DeclaredWidth: 320},
		{URL: server.URL + "/large.png", DeclaredWidth: 1080},
		{URL: server.URL + "/broken.png", DeclaredWidth: 640},
		{URL: server.URL + "/missing.png", DeclaredWidth: 480},
	})

	require.Len(t, results, 4)

	byURL := make(map[string]ProbeResult, len(results))
	for _, r := range results {
		byURL[r.Job.URL] = r
	}

	smallRes := byURL[server.URL+"/small.png"]
	assert.True(t, smallRes.Success)
	assert.Equal(t, 320*400, smallRes.Area())

	largeRes := byURL[server.URL+"/large.png"]
	assert.True(t, largeRes.Success)
	assert.Equal(t, 1080, largeRes.Width)
	assert.Equal(t, 1350, largeRes.Height)

	assert.False(t, byURL[server.URL+"/broken.png"].Success)
	assert.Error(t, byURL[server.URL+"/broken.png"].Error)
	assert.Zero(t, byURL[server.URL+"/broken.png"].Area())

	assert.False(t, byURL[server.URL+"/missing.png"].Success)
}

func TestNewPoolClampsWorkers(t *testing.T) {
	pool := NewPool(0, http.DefaultClient, nil)
	assert.Equal(t, 1, pool.numWorkers)
}

func TestProbeAllEmpty(t *testing.T) {
	pool := NewPool(2, http.DefaultClient, nil)
	results := pool.ProbeAll(nil)
	assert.Empty(t, results)
}

func TestProbeAllIsReusable(t *testing.T) {
	img := pngBytes(t, 100, 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	}))
	defer server.Close()

	pool := NewPool(2, http.DefaultClient, nil)
	for i := 0; i < 3; i++ {
		results := pool.ProbeAll([]ProbeJob{{URL: server.URL + "/a.png"}})
		require.Len(t, results, 1)
		assert.True(t, results[0].Success)
	}
}
