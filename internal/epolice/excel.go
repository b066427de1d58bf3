package epolice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/xuri/excelize/v2"
)

// Bulk-data endpoints: template download, spreadsheet upload, server-side
// Excel export. All three move binary bodies, no envelope handling.

// DownloadTemplate fetches the import template workbook for a resource.
func (r *Resources) DownloadTemplate(ctx context.Context, resource string) ([]byte, error) {
	return r.c.GetBlob(ctx, "/"+resource+"/template/download")
}

// ExportExcel fetches the server-rendered workbook of a full collection.
func (r *Resources) ExportExcel(ctx context.Context, resource string) ([]byte, error) {
	return r.c.GetBlob(ctx, "/"+resource+"/export/excel")
}

// UploadExcel checks a workbook is readable and non-empty locally, then
// posts it multipart. Catching an unusable file before the upload keeps the
// failure message specific instead of a backend 400.
func (r *Resources) UploadExcel(ctx context.Context, resource, filename string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not a readable workbook: %w", err)
	}
	sheets := f.GetSheetList()
	ok := false
	for _, s := range sheets {
		rows, rerr := f.GetRows(s)
		if rerr == nil && len(rows) > 1 {
			ok = true
			break
		}
	}
	_ = f.Close()
	if !ok {
		return fmt.Errorf("workbook has no data rows")
	}
	_, err = r.c.PostMultipart(ctx, http.MethodPost, "/"+resource+"/upload-excel", nil, "file", filename, bytes.NewReader(data))
	return err
}
