// Package imageproto описывает HTTP-протокол сервера изображений.
package imageproto

// Параметры HTTP-интерфейса, общие для сервера и клиента.
const (
	PathPrefix      = "/image"
	ImagePathFormat = "%s" + PathPrefix + "/%s"
	HealthPath      = "/health"

	// CacheControl выставляется на каждую успешно отданную картинку (24 часа).
	CacheControl    = "public, max-age=86400"
	HeaderRequestID = "X-Request-Id"
)
