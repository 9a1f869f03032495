// Package upload содержит правила валидации загружаемых изображений:
// допустимые расширения, соответствие MIME-типов и ограничение размера.
//
// Расширение проверяется только по имени файла, без чтения содержимого.
// Размер проверяется после полного чтения тела файла в память.
package upload

import (
	"strings"

	"github.com/magabrotheeeer/ai-vision-service/internal/models"
)

// MaxFileSize максимальный размер загружаемого файла в байтах (5 MiB).
// Граница включительная: файл ровно в MaxFileSize байт принимается.
const MaxFileSize = 5 * 1024 * 1024

var mimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// AllowedExtensions возвращает список допустимых расширений файлов.
func AllowedExtensions() []string {
	out := make([]string, len(allowedExtensions))
	copy(out, allowedExtensions)
	return out
}

// MatchExtension сопоставляет имя файла со списком допустимых расширений
// без учёта регистра. Возвращает InvalidFileTypeError, если суффикс
// не совпал ни с одним расширением.
func MatchExtension(filename string) (string, error) {
	lower := strings.ToLower(filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return ext, nil
		}
	}
	return "", &models.InvalidFileTypeError{
		Filename: lower,
		Allowed:  AllowedExtensions(),
	}
}

// MimeType возвращает MIME-тип для допустимого расширения.
// Для неизвестного расширения возвращает image/jpeg, как и исходный сервис.
func MimeType(ext string) string {
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "image/jpeg"
}

// CheckSize проверяет размер уже прочитанного содержимого файла.
// Возвращает FileTooLargeError, если размер превышает MaxFileSize.
func CheckSize(size int64) error {
	if size > MaxFileSize {
		return &models.FileTooLargeError{SizeBytes: size}
	}
	return nil
}
