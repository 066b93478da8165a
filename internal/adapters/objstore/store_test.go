package objstore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmodding/website-jobs/config"
)

const locationXML = `<?xml version="1.0" encoding="UTF-8"?>
<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`

const listingXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>mod-files</Name>
  <Prefix>mods/raft-extras/</Prefix>
  <KeyCount>1</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>mods/raft-extras/1.0/raft-extras.rmod</Key>
    <LastModified>2024-01-01T00:00:00.000Z</LastModified>
    <ETag>&quot;etag&quot;</ETag>
    <Size>10</Size>
    <StorageClass>STANDARD</StorageClass>
  </Contents>
</ListBucketResult>`

const listErrorXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>InternalError</Code>
  <Message>backend unavailable</Message>
</Error>`

const deleteResultXML = `<?xml version="1.0" encoding="UTF-8"?>
<DeleteResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Deleted><Key>mods/raft-extras/1.0/raft-extras.rmod</Key></Deleted>
</DeleteResult>`

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewStore(config.StorageConfig{
		S3Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		S3AccessKey: "test-access",
		S3SecretKey: "test-secret",
		S3Bucket:    "mod-files",
		S3UseSSL:    false,
	})
	require.NoError(t, err)
	return store
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestNewStore_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewStore(config.StorageConfig{S3Bucket: "mod-files"})
	require.Error(t, err)

	_, err = NewStore(config.StorageConfig{S3Endpoint: "s3.example.com"})
	require.Error(t, err)
}

func TestStore_DeleteTree(t *testing.T) {
	t.Run("removes every listed object", func(t *testing.T) {
		var deletes atomic.Int32
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			switch {
			case q.Has("location"):
				writeXML(w, http.StatusOK, locationXML)
			case q.Get("list-type") == "2":
				assert.Equal(t, "mods/raft-extras/", q.Get("prefix"))
				writeXML(w, http.StatusOK, listingXML)
			case q.Has("delete"):
				deletes.Add(1)
				writeXML(w, http.StatusOK, deleteResultXML)
			default:
				t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			}
		})

		err := store.DeleteTree(context.Background(), "/mods/raft-extras/")
		require.NoError(t, err)
		assert.Equal(t, int32(1), deletes.Load())
	})

	t.Run("listing failure is an error", func(t *testing.T) {
		// A nil return means the tree is gone, so a failed listing must not
		// look like success with objects still in the bucket.
		var deletes atomic.Int32
		store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			switch {
			case q.Has("location"):
				writeXML(w, http.StatusOK, locationXML)
			case q.Get("list-type") == "2":
				writeXML(w, http.StatusInternalServerError, listErrorXML)
			case q.Has("delete"):
				deletes.Add(1)
				writeXML(w, http.StatusOK, deleteResultXML)
			}
		})

		err := store.DeleteTree(context.Background(), "/mods/raft-extras/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list objects")
		assert.Equal(t, int32(0), deletes.Load())
	})
}
