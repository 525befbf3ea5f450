package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/metrics"
	"github.com/PascalSeth/trendiwear/pkg/storage"
)

// UploadFolders are the folders a client may upload into.
var UploadFolders = []string{"products", "avatars", "blogs", "collections", "categories", "portfolio", "misc"}

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UploadService struct {
	disk func() storage.Disk
	now  func() time.Time
}

func NewUploadService() *UploadService {
	return &UploadService{disk: storage.Default, now: time.Now}
}

type UploadResult struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Store sniffs r, accepts images only, and writes them to the default disk
// under uploads/<folder>/<unix-millis>-<uuid><ext>.
func (s *UploadService) Store(ctx context.Context, actor auth.Principal, folder string, r io.Reader, size int64) (*UploadResult, error) {
	folder = strings.ToLower(strings.TrimSpace(folder))
	if folder == "" {
		folder = "misc"
	}
	if !validFolder(folder) {
		return nil, apperr.BadRequest("Invalid folder, expected one of: " + strings.Join(UploadFolders, ", "))
	}
	if max := config.UploadMaxBytes(); size > max {
		return nil, apperr.BadRequest(fmt.Sprintf("File exceeds the %d byte limit", max))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperr.BadRequest("Could not read upload")
	}
	head = head[:n]
	if n == 0 {
		return nil, apperr.BadRequest("File is empty")
	}
	ct := mimetype.Detect(head).String()
	ext, ok := imageExt[ct]
	if !ok {
		return nil, apperr.BadRequest("Only JPEG, PNG, GIF and WebP images are allowed")
	}

	key := fmt.Sprintf("uploads/%s/%d-%s%s", folder, s.now().UnixMilli(), uuid.NewString(), ext)
	disk := s.disk()
	if err := disk.Put(ctx, key, io.MultiReader(bytes.NewReader(head), r), size, ct); err != nil {
		return nil, apperr.Internal(err)
	}
	metrics.UploadsStored.WithLabelValues(disk.Name(), folder).Inc()
	logger.WithCtx(ctx).Info("file uploaded", "key", key, "user", actor.UserID, "disk", disk.Name())

	return &UploadResult{Key: key, URL: disk.URL(key), ContentType: ct, Size: size}, nil
}

func validFolder(f string) bool {
	for _, v := range UploadFolders {
		if v == f {
			return true
		}
	}
	return false
}
