package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

type stubOCR struct {
	text string
	err  error
}

func (s stubOCR) ExtractImageText(ctx context.Context, image []byte) (string, error) {
	return s.text, s.err
}

type recordingObserver struct {
	kinds []string
}

func (r *recordingObserver) ObserveExtraction(kind string, d time.Duration) {
	r.kinds = append(r.kinds, kind)
}

func newTestExtractor(images ImageTextExtractor, obs Observer) *Extractor {
	return NewExtractor(config.UploadsConfig{
		MaxFileSize:       config.MaxFileSize,
		AllowedExtensions: config.DefaultAllowedExtensions,
	}, images, obs, logger.NewNop())
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(40, 10, text)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestExtractor_Check(t *testing.T) {
	e := newTestExtractor(nil, nil)

	tests := []struct {
		name     string
		filename string
		size     int64
		kind     models.ErrorKind
	}{
		{"txt accepted", "lease.txt", 10, ""},
		{"upper case extension", "SCAN.JPG", 10, ""},
		{"exactly the cap", "a.pdf", config.MaxFileSize, ""},
		{"one byte over", "a.pdf", config.MaxFileSize + 1, models.KindInputTooLarge},
		{"unsupported", "macro.exe", 10, models.KindUnsupportedType},
		{"no extension", "README", 10, models.KindUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Check(tt.filename, tt.size)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.kind, models.KindOf(err))
		})
	}
}

func TestExtractor_TooLargeMessage(t *testing.T) {
	e := newTestExtractor(nil, nil)

	err := e.Check("big.pdf", 12*1024*1024+512*1024)
	var pe *models.PortalError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "File too large: 12.50 MB (maximum 10 MB)", pe.Message)
}

func TestExtractor_Text(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestExtractor(nil, obs)

	text, err := e.Extract(context.Background(), "note.txt", []byte("\xef\xbb\xbfAct now!"))
	require.NoError(t, err)
	assert.Equal(t, "Act now!", text)
	assert.Equal(t, []string{"txt"}, obs.kinds)
}

func TestExtractor_NoReadableText(t *testing.T) {
	e := newTestExtractor(stubOCR{text: "  \n"}, nil)

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{"blank.txt", []byte("   \n\t")},
		{"scan.png", []byte("png bytes")},
	} {
		_, err := e.Extract(context.Background(), tc.name, tc.data)
		assert.Equal(t, models.KindExtractionFailed, models.KindOf(err), tc.name)
		assert.ErrorIs(t, err, models.ErrNoReadableText, tc.name)
	}
}

func TestExtractor_Failures(t *testing.T) {
	tests := []struct {
		name     string
		images   ImageTextExtractor
		filename string
		data     []byte
	}{
		{"invalid utf8", nil, "a.txt", []byte{0xff, 0xfe, 0xfd}},
		{"legacy doc", nil, "old.doc", []byte("binary")},
		{"image without ocr", nil, "scan.jpg", []byte("jpg")},
		{"ocr error", stubOCR{err: errors.New("rate limited")}, "scan.webp", []byte("webp")},
		{"corrupt docx", nil, "a.docx", []byte("not a zip")},
		{"corrupt pdf", nil, "a.pdf", []byte("not a pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(tt.images, nil)
			_, err := e.Extract(context.Background(), tt.filename, tt.data)
			assert.Equal(t, models.KindExtractionFailed, models.KindOf(err))
			assert.NotErrorIs(t, err, models.ErrNoReadableText)
		})
	}
}

func TestExtractor_DOCX(t *testing.T) {
	e := newTestExtractor(nil, nil)
	data := buildDOCX(t,
		`<w:p><w:r><w:t>LEASE AGREEMENT</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">The tenant </w:t></w:r><w:r><w:t>pays R5000.</w:t></w:r></w:p>`)

	text, err := e.Extract(context.Background(), "lease.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "LEASE AGREEMENT\nThe tenant pays R5000.\n", text)
}

func TestExtractor_DOCXInflationLimit(t *testing.T) {
	const maxSize = 1024
	e := NewExtractor(config.UploadsConfig{
		MaxFileSize:       maxSize,
		AllowedExtensions: config.DefaultAllowedExtensions,
	}, nil, nil, logger.NewNop())

	tests := []struct {
		name string
		body string
	}{
		{"body inflates past the limit", `<w:p><w:r><w:t>` + strings.Repeat("a", 100*maxSize) + `</w:t></w:r></w:p>`},
		{"text past the upload cap", `<w:p><w:r><w:t>` + strings.Repeat("a", 2*maxSize) + `</w:t></w:r></w:p>`},
		{"many short paragraphs", strings.Repeat(`<w:p><w:r><w:t>ab</w:t></w:r></w:p>`, maxSize)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := buildDOCX(t, tt.body)
			require.LessOrEqual(t, int64(len(data)), int64(maxSize), "compressed upload must pass the size check")

			text, err := e.Extract(context.Background(), "bomb.docx", data)
			assert.Empty(t, text)
			assert.Equal(t, models.KindExtractionFailed, models.KindOf(err))
			assert.ErrorIs(t, err, errDocumentTooLarge)
		})
	}
}

func TestExtractor_DOCXWithinLimit(t *testing.T) {
	e := NewExtractor(config.UploadsConfig{
		MaxFileSize:       1024,
		AllowedExtensions: config.DefaultAllowedExtensions,
	}, nil, nil, logger.NewNop())

	body := strings.Repeat("a", 900)
	text, err := e.Extract(context.Background(), "short.docx", buildDOCX(t, `<w:p><w:r><w:t>`+body+`</w:t></w:r></w:p>`))
	require.NoError(t, err)
	assert.Equal(t, body+"\n", text)
}

func TestExtractor_PDF(t *testing.T) {
	e := newTestExtractor(nil, nil)

	text, err := e.Extract(context.Background(), "offer.pdf", buildPDF(t, "Guaranteed return"))
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(text), "guaranteed return")
}

func TestExtractor_Image(t *testing.T) {
	e := newTestExtractor(stubOCR{text: "SIGN IMMEDIATELY"}, nil)

	text, err := e.Extract(context.Background(), "photo.jpeg", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "SIGN IMMEDIATELY", text)
}

func TestNewExtractor_Defaults(t *testing.T) {
	e := NewExtractor(config.UploadsConfig{}, nil, nil, logger.NewNop())

	assert.Equal(t, config.MaxFileSize, e.MaxSize())
	assert.NoError(t, e.Check("a.docx", 1))
}
