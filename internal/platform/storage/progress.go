// Copyright (c) 2026 HWSphere. All rights reserved.
// Author: Bryan Pineda

package storage

import "io"

// progressReader reports consumed bytes to a [ProgressFunc].
type progressReader struct {
	reader   io.Reader
	total    int64
	written  int64
	progress ProgressFunc
}

func newProgressReader(reader io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil {
		return reader
	}
	return &progressReader{reader: reader, total: total, progress: progress}
}

func (reader *progressReader) Read(p []byte) (int, error) {
	n, err := reader.reader.Read(p)
	if n > 0 {
		reader.written += int64(n)
		reader.progress(reader.written, reader.total)
	}
	return n, err
}
