package v1

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"whiskd-backend/internal/domain"
	"whiskd-backend/internal/infrastructure/relay"
	"whiskd-backend/pkg/logger"
	"whiskd-backend/pkg/utils"
)

// readPaymentProof extracts the transfer receipt from a multipart checkout form.
func readPaymentProof(w http.ResponseWriter, r *http.Request, maxUploadSize int64) (*domain.Attachment, error) {
	l := logger.WithContext(r.Context())

	// 1. Parse Multipart Form with configurable limit
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		l.Warn().Err(err).Msg("Upload: ParseMultipartForm failed")
		return nil, fmt.Errorf("%w: file too large or invalid format", domain.ErrPaymentProofRequired)
	}

	// 2. Get File
	file, header, err := r.FormFile(relay.FieldPaymentProof)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, domain.ErrPaymentProofRequired
	}
	if err != nil {
		l.Warn().Err(err).Msg("Upload: FormFile failed")
		return nil, domain.ErrPaymentProofRequired
	}
	defer file.Close()

	// 3. Validate MIME Type, falling back to the extension when the browser sent none
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename)))
	}
	if !utils.IsImage(contentType) {
		l.Warn().Str("content_type", contentType).Str("file", header.Filename).Msg("Upload: invalid MIME type")
		return nil, domain.ErrInvalidPaymentProof
	}

	// 4. Read the file, the relay sends it as is
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment proof: %w", err)
	}

	l.Debug().
		Str("file", header.Filename).
		Str("content_type", contentType).
		Int("size", len(data)).
		Msg("Payment proof received")

	return &domain.Attachment{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
