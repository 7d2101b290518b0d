package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/bullboard/bullboard-backend/api/responses"
	pkgerrors "github.com/bullboard/bullboard-backend/pkg/errors"
	"github.com/bullboard/bullboard-backend/pkg/logger"
	"github.com/bullboard/bullboard-backend/pkg/storage/imagehost"
)

// ImageUploader is the image host surface the media endpoint needs.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (*imagehost.UploadResult, error)
}

// MediaUpload forwards a multipart image to the external image host and
// returns the hosted URL plus the handle needed to delete it later.
func MediaUpload(uploader ImageUploader, maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	maxBytes := int64(maxUploadMB) << 20

	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "image host unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image exceeds upload limit"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "image file is required"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "only image uploads are accepted"))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload"))
			return
		}

		result, err := uploader.Upload(r.Context(), header.Filename, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "image host rejected upload"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"url":      result.URL,
			"deleteId": result.DeleteID,
		})
	}
}
