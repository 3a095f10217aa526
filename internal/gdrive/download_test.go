package gdrive

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/f1", r.URL.Path)
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		fmt.Fprint(w, "hello from the drive")
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL, Options{})

	var buf bytes.Buffer

	n, err := client.DownloadFile(context.Background(), "f1", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("hello from the drive")), n)
	assert.Equal(t, "hello from the drive", buf.String())
}

func TestDownloadFile_FailureNamesFile(t *testing.T) {
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404}}`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL, Options{})

	var buf bytes.Buffer

	_, err := client.DownloadFile(context.Background(), "f1", &buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, strings.Contains(err.Error(), "f1"))

	// Downloads never retry.
	assert.Equal(t, 1, requests)
}

func TestExportDoc_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/doc-1/export", r.URL.Path)
		assert.Equal(t, ExportMimeText, r.URL.Query().Get("mimeType"))
		fmt.Fprint(w, "rendered document text")
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL, Options{})

	data, err := client.ExportDoc(context.Background(), "doc-1", "")
	require.NoError(t, err)
	assert.Equal(t, "rendered document text", string(data))
}

func TestExportDoc_FailureNamesFileAndFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"unsupported conversion"}}`)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL, Options{})

	_, err := client.ExportDoc(context.Background(), "doc-1", ExportMimeCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.True(t, strings.Contains(err.Error(), "doc-1"))
	assert.True(t, strings.Contains(err.Error(), ExportMimeCSV))
}
