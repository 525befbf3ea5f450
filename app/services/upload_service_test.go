package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/storage"
)

type memDisk struct {
	key, contentType string
	body             []byte
}

func (d *memDisk) Name() string { return "mem" }

func (d *memDisk) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	b, err := io.ReadAll(r)
	d.key, d.contentType, d.body = key, contentType, b
	return err
}

func (d *memDisk) Exists(_ context.Context, key string) bool { return d.key == key }
func (d *memDisk) Delete(context.Context, string) error      { return nil }
func (d *memDisk) URL(key string) string                     { return "https://cdn.trendiwear.test/" + key }

func TestUploadStore(t *testing.T) {
	disk := &memDisk{}
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uploads := &UploadService{disk: func() storage.Disk { return disk }, now: func() time.Time { return at }}
	actor := auth.Principal{UserID: 3, Role: auth.RoleProfessional}

	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 700)...)
	res, err := uploads.Store(bg, actor, " Products ", bytes.NewReader(png), int64(len(png)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "uploads/products/1767225600000-"), res.Key)
	assert.True(t, strings.HasSuffix(res.Key, ".png"), res.Key)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, "https://cdn.trendiwear.test/"+res.Key, res.URL)
	assert.Equal(t, png, disk.body)
	assert.Equal(t, "image/png", disk.contentType)

	_, err = uploads.Store(bg, actor, "", strings.NewReader("just some text"), 14)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = uploads.Store(bg, actor, "secrets", bytes.NewReader(png), int64(len(png)))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = uploads.Store(bg, actor, "misc", bytes.NewReader(png), 6<<20)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = uploads.Store(bg, actor, "misc", bytes.NewReader(nil), 0)
	requireStatus(t, err, http.StatusBadRequest)
}
