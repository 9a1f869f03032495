// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов об ошибках в формате {"detail": ...}, совместимом с исходным
// сервисом. Детали бывают строковые (квота, аутентификация) и объектные
// (валидация файла, ошибки модели).
package response

import (
	"fmt"
	"strings"

	"github.com/magabrotheeeer/ai-vision-service/internal/models"
)

// Response стандартная обёртка ошибки с полем detail.
type Response struct {
	Detail any `json:"detail"`
}

// Error возвращает Response со строковым detail.
func Error(msg string) Response {
	return Response{Detail: msg}
}

// ObjectDetail объектное тело ошибки с тегом и сообщением.
type ObjectDetail struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// InvalidFileDetail тело ошибки 400 для недопустимого типа файла.
type InvalidFileDetail struct {
	ObjectDetail
	Received string `json:"received"`
}

// TooLargeDetail тело ошибки 413 для превышения размера файла.
type TooLargeDetail struct {
	ObjectDetail
	ReceivedSizeMB float64 `json:"received_size_mb"`
	MaxSizeMB      int     `json:"max_size_mb"`
}

// InvalidFileType формирует Response для InvalidFileTypeError.
func InvalidFileType(err *models.InvalidFileTypeError, allowed []string) Response {
	return Response{Detail: InvalidFileDetail{
		ObjectDetail: ObjectDetail{
			Error:   "Invalid file type",
			Message: fmt.Sprintf("Only %s files are allowed", strings.Join(allowed, ", ")),
		},
		Received: err.Filename,
	}}
}

// FileTooLarge формирует Response для FileTooLargeError.
func FileTooLarge(err *models.FileTooLargeError, maxSizeMB int) Response {
	return Response{Detail: TooLargeDetail{
		ObjectDetail: ObjectDetail{
			Error:   "File too large",
			Message: fmt.Sprintf("Maximum file size is %dMB", maxSizeMB),
		},
		ReceivedSizeMB: err.SizeMB(),
		MaxSizeMB:      maxSizeMB,
	}}
}

// ProviderError формирует Response для ошибки модели анализа.
func ProviderError(err *models.ProviderError) Response {
	return Response{Detail: ObjectDetail{
		Error:   "OpenAI API error",
		Message: fmt.Sprintf("Failed to analyze image: %v", err.Err),
	}}
}

// InternalError формирует Response для непредвиденной ошибки.
func InternalError(err error) Response {
	return Response{Detail: ObjectDetail{
		Error:   "Internal server error",
		Message: err.Error(),
	}}
}
