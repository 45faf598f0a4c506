package imagestore

import (
	"mime"
	"path"
	"strings"
)

const fallbackContentType = "application/octet-stream"

// contentTypes фиксирует типы для поддерживаемых расширений, чтобы не
// зависеть от системного mime.types.
var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".json": "application/json",
}

// ContentType определяет Content-Type по расширению имени файла.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}

	return fallbackContentType
}
