package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"taktivent/internal/media"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// uploadImageHandler godoc
//
//	@Summary		Upload image
//	@Description	Stores one image for an event, song or performer and returns its URL
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file	true	"Image file, at most 10 MB"
//	@Success		201		{object}	media.Asset
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/uploads [post]
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(media.MaxImageSize); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("image file is required"))
		return
	}
	defer file.Close()

	if header.Size > media.MaxImageSize {
		app.badRequestResponse(w, r, errors.New("image must be at most 10 MB"))
		return
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		app.badRequestResponse(w, r, fmt.Errorf("read image: %w", err))
		return
	}
	if ct := http.DetectContentType(sniff[:n]); !allowedImageTypes[ct] {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported image type %q", ct))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	asset, err := app.media.Upload(r.Context(), file)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	app.logger.Infow("image uploaded", "user_id", getUserFromContext(r).ID, "public_id", asset.PublicID)

	if err := app.jsonResponse(w, http.StatusCreated, asset); err != nil {
		app.internalServerError(w, r, err)
	}
}

// presignUploadHandler godoc
//
//	@Summary		Signed upload parameters
//	@Description	Parameters for uploading an image straight to Cloudinary from the browser
//	@Tags			uploads
//	@Produce		json
//	@Success		200	{object}	media.SignedUpload
//	@Security		ApiKeyAuth
//	@Router			/uploads/presigned [post]
func (app *application) presignUploadHandler(w http.ResponseWriter, r *http.Request) {
	signed, err := app.media.Presign(app.config.cloudinary, app.now())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, signed); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteImageHandler godoc
//
//	@Summary		Delete image
//	@Description	Removes a previously uploaded image. Call DELETE /uploads?url={url}.
//	@Tags			uploads
//	@Param			url	query	string	true	"Image URL"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/uploads [delete]
func (app *application) deleteImageHandler(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		app.badRequestResponse(w, r, errors.New("url is required"))
		return
	}

	publicID, err := media.PublicIDFromURL(imageURL)
	if err != nil || !strings.HasPrefix(publicID, media.Folder+"/") {
		app.badRequestResponse(w, r, errors.New("not an uploaded image"))
		return
	}

	app.media.Delete(r.Context(), publicID)
	w.WriteHeader(http.StatusNoContent)
}
