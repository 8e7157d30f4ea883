package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/infrastructure/extract"
	"legal-literacy-portal/internal/metrics"
)

const multipartOverhead = 1 << 20

// uploadReader turns a multipart "file" field into extracted text
type uploadReader struct {
	extractor *extract.Extractor
	metrics   *metrics.Metrics
}

func newUploadReader(e *extract.Extractor, m *metrics.Metrics) *uploadReader {
	return &uploadReader{extractor: e, metrics: m}
}

// parse reads the multipart form, bounded by the upload size cap times maxFiles
func (u *uploadReader) parse(w http.ResponseWriter, r *http.Request, maxFiles int) error {
	limit := u.extractor.MaxSize()*int64(maxFiles) + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			size := r.ContentLength
			if size <= 0 {
				size = tooLarge.Limit
			}
			u.metrics.RecordUploadRejection(string(models.KindInputTooLarge))
			return models.NewInputTooLarge(size, u.extractor.MaxSize())
		}
		return models.NewValidationFailed([]string{"request must be multipart/form-data with a file field"})
	}
	return nil
}

// text extracts the readable text of the "file" field
func (u *uploadReader) text(ctx context.Context, r *http.Request) (string, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", models.NewValidationFailed([]string{"file is required"})
	}
	defer file.Close()

	data, err := u.read(header.Filename, header.Size, file)
	if err != nil {
		return "", header.Filename, err
	}

	text, err := u.extractor.Extract(ctx, header.Filename, data)
	if err != nil {
		u.metrics.RecordUploadRejection(string(models.KindOf(err)))
		return "", header.Filename, err
	}
	return text, header.Filename, nil
}

// attachments reads every file under field without extracting text
func (u *uploadReader) attachments(r *http.Request, field string) ([]models.Attachment, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []models.Attachment
	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			return nil, models.NewExtractionFailed(err)
		}
		data, err := u.read(header.Filename, header.Size, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, models.Attachment{Filename: header.Filename, Data: data})
	}
	return out, nil
}

func (u *uploadReader) read(filename string, size int64, f multipart.File) ([]byte, error) {
	if err := u.extractor.Check(filename, size); err != nil {
		u.metrics.RecordUploadRejection(string(models.KindOf(err)))
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(f, u.extractor.MaxSize()+1))
	if err != nil {
		return nil, models.NewExtractionFailed(err)
	}
	if int64(len(data)) > u.extractor.MaxSize() {
		u.metrics.RecordUploadRejection(string(models.KindInputTooLarge))
		return nil, models.NewInputTooLarge(int64(len(data)), u.extractor.MaxSize())
	}
	return data, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
