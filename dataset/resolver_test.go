package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root string, kind Kind, name, content string) {
	t.Helper()
	dir := filepath.Join(root, string(kind))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestChainTriesCandidatesInOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeFile(t, second, Daily, "UCLA.csv", "from second")

	chain := NewResolver([]string{first, second}, ResolverOptions{})
	data, err := chain.Resolve(context.Background(), Daily, "UCLA.csv")
	require.NoError(t, err)
	assert.Equal(t, "from second", string(data))

	writeFile(t, first, Daily, "UCLA.csv", "from first")
	data, err = chain.Resolve(context.Background(), Daily, "UCLA.csv")
	require.NoError(t, err)
	assert.Equal(t, "from first", string(data))
}

func TestChainNotFound(t *testing.T) {
	chain := NewResolver([]string{t.TempDir(), t.TempDir()}, ResolverOptions{})
	_, err := chain.Resolve(context.Background(), Yearly, "GCU.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", "..", "../secret.csv", "a/b.csv", `a\b.csv`} {
		assert.ErrorIs(t, ValidateName(name), ErrInvalidName, name)
	}
	assert.NoError(t, ValidateName("TexasA&M.csv"))
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, "/datasets/daily/UCLA.csv", r.URL.Path)
		w.Write([]byte("Incident Type,Location\n"))
	}))
	defer srv.Close()

	src := &HTTPSource{BaseURL: srv.URL + "/datasets/", Retries: 5, InitialInterval: time.Millisecond}
	data, err := src.Resolve(context.Background(), Daily, "UCLA.csv")
	require.NoError(t, err)
	assert.Equal(t, "Incident Type,Location\n", string(data))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPSourceNotFoundIsFinal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := &HTTPSource{BaseURL: srv.URL, Retries: 5, InitialInterval: time.Millisecond}
	_, err := src.Resolve(context.Background(), Daily, "UCLA.csv")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChainFallsBackFromHTTPToDir(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	dir := t.TempDir()
	writeFile(t, dir, Daily, "NYU.csv", "local")

	chain := NewResolver([]string{srv.URL, dir}, ResolverOptions{Timeout: time.Second, Rate: 100})
	data, err := chain.Resolve(context.Background(), Daily, "NYU.csv")
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))
}
