package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

// ImageTextExtractor reads text out of an image, usually through a vision model
type ImageTextExtractor interface {
	ExtractImageText(ctx context.Context, image []byte) (string, error)
}

// Observer records extraction latency per file kind
type Observer interface {
	ObserveExtraction(kind string, d time.Duration)
}

var imageExtensions = []string{"jpg", "jpeg", "png", "webp"}

var errLegacyDoc = errors.New("legacy .doc files cannot be read, save the document as .docx or .pdf")

var errDocumentTooLarge = errors.New("document text exceeds the upload size limit")

// docxBodyFactor bounds the inflated word/document.xml at this multiple of the upload cap.
// The collected text itself never exceeds the upload cap.
const docxBodyFactor = 8

// Extractor enforces the upload rules and turns an uploaded file into text
type Extractor struct {
	maxSize  int64
	allowed  []string
	images   ImageTextExtractor
	observer Observer
	logger   *logger.Logger
}

// NewExtractor creates an extractor. images and observer may be nil.
func NewExtractor(cfg config.UploadsConfig, images ImageTextExtractor, observer Observer, log *logger.Logger) *Extractor {
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = config.MaxFileSize
	}
	allowed := make([]string, 0, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed = append(allowed, normalizeExt(ext))
	}
	if len(allowed) == 0 {
		allowed = append(allowed, config.DefaultAllowedExtensions...)
	}
	return &Extractor{
		maxSize:  maxSize,
		allowed:  allowed,
		images:   images,
		observer: observer,
		logger:   log.WithComponent("extractor"),
	}
}

// MaxSize returns the upload size cap in bytes
func (e *Extractor) MaxSize() int64 {
	return e.maxSize
}

// Check applies the extension allow-list and the size cap
func (e *Extractor) Check(filename string, size int64) error {
	ext := normalizeExt(filepath.Ext(filename))
	if !slices.Contains(e.allowed, ext) {
		return models.NewUnsupportedType(ext, e.allowed)
	}
	if size > e.maxSize {
		return models.NewInputTooLarge(size, e.maxSize)
	}
	return nil
}

// Extract returns the text of an uploaded file. A file without readable text is an
// extraction failure wrapping models.ErrNoReadableText.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if err := e.Check(filename, int64(len(data))); err != nil {
		return "", err
	}

	kind := normalizeExt(filepath.Ext(filename))
	start := time.Now()

	var (
		text string
		err  error
	)
	switch {
	case kind == "txt":
		text, err = extractPlain(data)
	case kind == "pdf":
		text, err = extractPDF(data)
	case kind == "docx":
		text, err = extractDOCX(data, e.maxSize*docxBodyFactor, e.maxSize)
	case kind == "doc":
		err = errLegacyDoc
	case slices.Contains(imageExtensions, kind):
		text, err = e.extractImage(ctx, data)
	default:
		err = fmt.Errorf("no extractor for %q files", kind)
	}

	if e.observer != nil {
		e.observer.ObserveExtraction(kind, time.Since(start))
	}

	if err != nil {
		e.logger.Warn().Err(err).Str("kind", kind).Int("size", len(data)).Msg("text extraction failed")
		return "", models.NewExtractionFailed(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", models.NewExtractionFailed(models.ErrNoReadableText)
	}

	e.logger.Debug().Str("kind", kind).Int("size", len(data)).Int("text_length", len(text)).Msg("text extracted")
	return text, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	if e.images == nil {
		return "", errors.New("image text recognition is not configured")
	}
	return e.images.ExtractImageText(ctx, data)
}

func extractPlain(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return string(out), nil
}

func extractDOCX(data []byte, bodyLimit, textLimit int64) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		if f.UncompressedSize64 > uint64(bodyLimit) {
			return "", errDocumentTooLarge
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document body: %w", err)
		}
		defer rc.Close()

		// the size in the zip header is not trusted
		body := &io.LimitedReader{R: rc, N: bodyLimit + 1}
		text, err := documentText(body, textLimit)
		if body.N <= 0 {
			return "", errDocumentTooLarge
		}
		return text, err
	}
	return "", errors.New("docx has no word/document.xml")
}

// documentText collects the w:t runs of a WordprocessingML body, one line per paragraph.
// It stops once the text passes limit bytes.
func documentText(r io.Reader, limit int64) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		sb     strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
		if int64(sb.Len()) > limit {
			return "", errDocumentTooLarge
		}
	}
	return sb.String(), nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
