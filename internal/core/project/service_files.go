// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package project

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BryanPineda21/HWSphere/internal/platform/apperr"
	"github.com/BryanPineda21/HWSphere/internal/platform/constants"
	"github.com/BryanPineda21/HWSphere/internal/platform/storage"
	"github.com/BryanPineda21/HWSphere/pkg/slug"
)

// ObjectKey returns the storage key of a file uploaded to projectID at uploadedAt:
// projectFiles/<YYYYMMDD-HHMMSS>-<project ID>/<slot>_<file name>.
// Keys of different projects never collide, whatever their file names.
func ObjectKey(uploadedAt time.Time, projectID string, slot FileSlot, fileName string) string {
	return fmt.Sprintf("%s/%s-%s/%s_%s",
		constants.ObjectKeyPrefix,
		uploadedAt.UTC().Format("20060102-150405"),
		projectID,
		slot,
		slug.FileName(fileName),
	)
}

/*
uploadAll stores every upload and points the slot of p at it.

The first failure aborts the rest; objects already stored by this call are
deleted again. Uploads are not retried.

Returns:
  - []string: URLs of the objects stored by this call
  - error: UPLOAD_FAILED naming the file, or VALIDATION_ERROR for an unknown slot
*/
func (service *Service) uploadAll(context context.Context, p *Project, uploads []Upload) ([]string, error) {
	uploadedAt := service.now()
	urls := make([]string, 0, len(uploads))

	for _, upload := range uploads {
		ref := p.FileURL(upload.Slot)
		if ref == nil {
			service.deleteObjects(context, urls)
			return nil, apperr.ValidationError("Unknown file slot",
				apperr.FieldError{Field: FieldFiles, Message: fmt.Sprintf("unknown slot %q", upload.Slot)})
		}

		key := ObjectKey(uploadedAt, p.ID, upload.Slot, upload.FileName)
		url, err := service.files.Upload(context, key, upload.Body, upload.Size, upload.ContentType,
			service.progressLogger(context, key))
		if err != nil {
			service.logger.ErrorContext(context, "project_file_upload_failed",
				slog.String("file_name", upload.FileName),
				slog.String("key", key),
				slog.Any("error", err),
			)
			service.deleteObjects(context, urls)
			return nil, apperr.UploadFailed(upload.FileName, err)
		}

		*ref = &url
		urls = append(urls, url)
	}
	return urls, nil
}

// progressLogger logs each quarter of an upload at debug level.
func (service *Service) progressLogger(context context.Context, key string) storage.ProgressFunc {
	next := int64(25)
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		for percent := written * 100 / total; percent >= next && next <= 100; next += 25 {
			service.logger.DebugContext(context, "project_file_upload_progress",
				slog.String("key", key),
				slog.Int64("percent", next),
			)
		}
	}
}

// deleteObjects removes stored files, logging failures.
func (service *Service) deleteObjects(context context.Context, urls []string) {
	for _, url := range urls {
		if err := service.files.Delete(context, url); err != nil {
			service.logger.WarnContext(context, "project_file_delete_failed",
				slog.String("url", url),
				slog.Any("error", err),
			)
		}
	}
}
