package backup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeDrive struct {
	mutex    sync.Mutex
	folders  []map[string]string
	requests []string
	bodies   []string
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	body, _ := io.ReadAll(r.Body)
	f.requests = append(f.requests, r.Method)
	f.bodies = append(f.bodies, string(body))

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"files": f.folders})
	case http.MethodPost:
		id := "file-1"
		if strings.Contains(string(body), folderMimeType) {
			id = "new-folder"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "parents": []string{"folder"}})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestUploader(t *testing.T, fake *fakeDrive, folderID string) *DriveUploader {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	u, err := NewDriveUploader(
		context.Background(),
		folderID,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return u
}

func TestDriveUploader_ExistingFolder(t *testing.T) {
	fake := &fakeDrive{folders: []map[string]string{{"id": "folder-7", "name": rootBackupsFolderName}}}
	u := newTestUploader(t, fake, "")
	assert.Equal(t, "folder-7", u.folderID)

	id, err := u.Upload(context.Background(), "calisthenics-backup-2024-01-01.json", []byte(`{"version":1}`))
	require.NoError(t, err)
	assert.Equal(t, "file-1", id)
	assert.Equal(t, []string{http.MethodGet, http.MethodPost}, fake.requests)
	assert.Contains(t, fake.bodies[1], `{"version":1}`)
	assert.Contains(t, fake.bodies[1], "folder-7")
}

func TestDriveUploader_CreatesFolder(t *testing.T) {
	fake := &fakeDrive{}
	u := newTestUploader(t, fake, "")
	assert.Equal(t, "new-folder", u.folderID)
}

func TestDriveUploader_ConfiguredFolder(t *testing.T) {
	fake := &fakeDrive{}
	u := newTestUploader(t, fake, "configured")
	assert.Equal(t, "configured", u.folderID)
	assert.Empty(t, fake.requests)
}
