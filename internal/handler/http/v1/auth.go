package v1

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// reporterKey - ключ контекста gin с отпечатком API-ключа автора записи
const reporterKey = "reporter"

// MarkerWriteAuth пропускает к созданию и уборке маркеров только запросы с известным API-ключом.
// В контекст кладется отпечаток ключа, чтобы записи в логах можно было связать с клиентом.
func MarkerWriteAuth(keys []string, log *logrus.Logger) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, key := range keys {
		allowed = append(allowed, []byte(key))
	}

	return func(c *gin.Context) {
		entry := log.WithFields(logrus.Fields{
			"middleware": "marker_write_auth",
			"route":      c.FullPath(),
			"marker_id":  c.Param("id"),
		})

		apiKey := presentedKey(c)
		if apiKey == "" {
			entry.Warn("Marker write without API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: "API key required"})
			return
		}

		for _, key := range allowed {
			if subtle.ConstantTimeCompare(key, []byte(apiKey)) == 1 {
				c.Set(reporterKey, keyFingerprint(apiKey))
				c.Next()
				return
			}
		}

		entry.WithField("reporter", keyFingerprint(apiKey)).Warn("Marker write with unknown API key")
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: "Invalid API key"})
	}
}

// presentedKey берет ключ из X-API-Key или из Authorization: Bearer
func presentedKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// keyFingerprint - первые 8 байт sha256 ключа в hex; сам ключ в логи не попадает
func keyFingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// reporter возвращает отпечаток ключа автора запроса или "anonymous", если ключи не настроены
func reporter(c *gin.Context) string {
	if v := c.GetString(reporterKey); v != "" {
		return v
	}
	return "anonymous"
}
