package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

const (
	maxJSONBody     = 1 << 20
	multipartMemory = 8 << 20
	multipartSlack  = 1 << 20
	coverImageField = "coverImage"
)

var errInvalidBody = domain.Validation("Invalid request body")

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody.WithCause(err)
	}
	return nil
}

// parseForm reads urlencoded or multipart bodies into r.PostForm.
func parseForm(w http.ResponseWriter, r *http.Request, maxUpload int64) error {
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartSlack)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return errCoverTooLarge.WithCause(err)
			}
			return errInvalidBody.WithCause(err)
		}
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		return errInvalidBody.WithCause(err)
	}
	return nil
}

// formValue returns a pointer to the trimmed value when the key was sent.
func formValue(r *http.Request, key string) *string {
	vals, ok := r.PostForm[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := strings.TrimSpace(vals[0])
	return &v
}

var (
	errCoverTooLarge = domain.Validation("Cover image is too large")
	errCoverNotImage = domain.Validation("Cover image must be an image")
)

// readCover loads the optional cover file, enforcing the size limit and
// an image content type sniffed from the bytes.
func readCover(r *http.Request, maxSize int64) (*ports.CoverImage, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(coverImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errInvalidBody.WithCause(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, errInvalidBody.WithCause(err)
	}
	if int64(len(data)) > maxSize {
		return nil, errCoverTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errCoverNotImage
	}

	return &ports.CoverImage{Data: data, ContentType: contentType, Filename: header.Filename}, nil
}
