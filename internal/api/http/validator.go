package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"kungfu-delivery/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const (
	imageField           = "image"
	defaultMaxUpload     = 5 << 20
	msgImageRequired     = "请上传图片文件（字段名 image）"
	msgImageType         = "只允许上传图片文件 (jpeg, jpg, png, gif)"
	msgImageTooLarge     = "图片大小不能超过 %dMB"
	msgValidationPrefix  = "参数校验失败: "
	msgInvalidQueryParam = "无效的查询参数 %s"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// RequestValidator decodes request bodies and checks them against their
// validate tags.
type RequestValidator struct {
	validate       *validator.Validate
	MaxUploadBytes int64
}

func NewRequestValidator(maxUploadBytes int64) *RequestValidator {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUpload
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v, MaxUploadBytes: maxUploadBytes}
}

// DecodeJSON reads the body into dst and validates it. An empty body leaves
// dst untouched.
func (rv *RequestValidator) DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation(msgBadJSON)
	}
	return rv.Struct(dst)
}

func (rv *RequestValidator) Struct(v any) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.Validation(fmt.Sprintf("%s%s (%s)", msgValidationPrefix, fe.Field(), fe.Tag()))
	}
	return apperr.Validation(msgValidationPrefix + err.Error())
}

// ImageUpload returns the single uploaded image and its lower case extension.
// The caller closes the file.
func (rv *RequestValidator) ImageUpload(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, rv.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(rv.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", apperr.Validation(fmt.Sprintf(msgImageTooLarge, rv.MaxUploadBytes>>20))
		}
		return nil, "", apperr.Validation(msgImageRequired)
	}

	file, header, err := r.FormFile(imageField)
	if err != nil {
		return nil, "", apperr.Validation(msgImageRequired)
	}
	if err := rv.ValidateFileSize(header); err != nil {
		file.Close()
		return nil, "", err
	}
	if !rv.IsValidImageType(header) {
		file.Close()
		return nil, "", apperr.Validation(msgImageType)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		ext = extForContentType(header.Header.Get("Content-Type"))
	}
	return file, ext, nil
}

// IsValidImageType requires an allowed extension and, when the client sent
// one, an allowed content type.
func (rv *RequestValidator) IsValidImageType(file *multipart.FileHeader) bool {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/octet-stream" {
		return allowedImageTypes[contentType] && (ext == "" || allowedImageExts[ext])
	}
	return allowedImageExts[ext]
}

func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > rv.MaxUploadBytes {
		return apperr.Validation(fmt.Sprintf(msgImageTooLarge, rv.MaxUploadBytes>>20))
	}
	return nil
}

func extForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	}
	return ".jpg"
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, apperr.Validation(msgBadID)
	}
	return id, nil
}

// queryInt returns fallback when the parameter is absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(fmt.Sprintf(msgInvalidQueryParam, name))
	}
	return n, nil
}
