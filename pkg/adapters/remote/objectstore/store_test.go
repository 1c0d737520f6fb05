package objectstore

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUMNIMx/noteflow/pkg/core"
)

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	s, err := New(Config{Endpoint: "http://localhost:9000", Bucket: "notes", Prefix: "noteflow/"})
	require.NoError(t, err)
	assert.Equal(t, "noteflow/users/u1.json", s.objectName(core.UserKey("u1")))
}

func TestMapErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, core.ErrNotProvisioned},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, core.ErrPermissionDenied},
		{"forbidden status", minio.ErrorResponse{Code: "SignatureDoesNotMatch", StatusCode: http.StatusForbidden}, core.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapErr(tt.err), tt.want)
		})
	}

	plain := errors.New("connection refused")
	assert.Equal(t, plain, mapErr(plain))
}

func TestReadFailedTreatsMissingKeyAsAbsent(t *testing.T) {
	s := &Store{}
	_, found, err := s.readFailed("users/u1", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = s.readFailed("users/u1", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound})
	assert.ErrorIs(t, err, core.ErrNotProvisioned)
}

func TestUpdatedAt(t *testing.T) {
	modified := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	info := minio.ObjectInfo{
		LastModified: modified,
		UserMetadata: map[string]string{"X-Amz-Meta-Noteflow-Updated-At": "1234"},
	}
	assert.Equal(t, int64(1234), updatedAt(info))

	info.UserMetadata = nil
	assert.Equal(t, modified.UnixMilli(), updatedAt(info))
}
