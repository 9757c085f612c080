package services

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/SAP-F-2025/jobboard-service/internal/storage"
	"github.com/SAP-F-2025/jobboard-service/internal/validator"
)

// uploadHandler validates and stores request uploads for the services
type uploadHandler struct {
	files     FileStore
	validator *validator.Validator
	logger    *slog.Logger
	maxSize   int64
}

func newUploadHandler(files FileStore, v *validator.Validator, logger *slog.Logger, maxSize int64) *uploadHandler {
	return &uploadHandler{files: files, validator: v, logger: logger, maxSize: maxSize}
}

// present reports whether a non-empty file was attached
func (u *Upload) present() bool {
	return u != nil && u.Size > 0 && u.Open != nil
}

// validate checks size and, for images, format before any row is written
func (h *uploadHandler) validate(field string, u *Upload, isImage bool) error {
	if !u.present() {
		return nil
	}
	if errs := h.validator.GetBusinessValidator().ValidateUpload(field, u.FileName, u.Size, h.maxSize, isImage); len(errs) > 0 {
		return errs
	}
	return nil
}

// save stores u in folder and returns the generated file name. Images are
// resized to the logo bounds.
func (h *uploadHandler) save(ctx context.Context, field, folder string, u *Upload, isImage bool) (string, error) {
	rc, err := u.Open()
	if err != nil {
		return "", storageError(ctx, h.logger, "open upload", err)
	}
	defer rc.Close()

	var name string
	if isImage {
		name, err = h.files.SaveImage(folder, u.FileName, rc, storage.LogoMaxDimension)
	} else {
		name, err = h.files.Save(folder, u.FileName, rc)
	}
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) || errors.Is(err, image.ErrFormat) {
			return "", validator.ValidationErrors{{
				Field:   field,
				Message: "file is not a readable image",
				Value:   u.FileName,
				Rule:    "image_format",
			}}
		}
		return "", storageError(ctx, h.logger, "save "+folder, err)
	}

	return name, nil
}
