package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleetledger/internal/config"
	"fleetledger/internal/domain"
	"fleetledger/internal/httpapi"
	"fleetledger/internal/logging"
	"fleetledger/internal/store"
)

// bufferedWriter captures the handler's response so it can be replayed
// verbatim on a retried request and persisted against the idempotency key.
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bufferedWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Idempotency implements the three-case reservation protocol for mutating
// endpoints that must tolerate client retries without double-applying an
// effect (payment capture): unknown key reserves and runs
// the handler; a completed key replays the stored response; an in-progress
// key fails fast rather than letting two writers race the same operation.
func Idempotency(store_ *store.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			httpapi.RespondError(c, domain.NewError(domain.CodeValidation, "Idempotency-Key header is required"))
			c.Abort()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			httpapi.RespondError(c, domain.NewError(domain.CodeValidation, "failed to read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		fingerprint := fingerprintOf(c.Request.Method, c.Request.URL.Path, bodyBytes)

		rec, err := store_.Reserve(c.Request.Context(), key, fingerprint, config.Envs.IdempotencyTTLDefault)
		if err != nil {
			if !errors.Is(err, store.ErrAlreadyReserved) {
				httpapi.RespondError(c, err)
				c.Abort()
				return
			}

			existing, findErr := store_.Find(c.Request.Context(), key)
			if findErr != nil || existing == nil {
				httpapi.RespondError(c, domain.NewError(domain.CodeInternalError, "failed to resolve idempotency key"))
				c.Abort()
				return
			}
			if existing.RequestFingerprint != fingerprint {
				httpapi.RespondError(c, domain.NewError(domain.CodeConflict, "idempotency key reused with a different request"))
				c.Abort()
				return
			}
			if existing.Status == store.IdempotencyCompleted {
				status := 200
				if existing.ResponseStatusCode != nil {
					status = *existing.ResponseStatusCode
				}
				c.Data(status, "application/json; charset=utf-8", existing.ResponseBody)
				c.Abort()
				return
			}
			httpapi.RespondError(c, domain.NewError(domain.CodeRequestInProgress, "a request with this idempotency key is still in progress"))
			c.Abort()
			return
		}
		_ = rec

		bw := &bufferedWriter{ResponseWriter: c.Writer, status: 200}
		c.Writer = bw
		c.Next()

		if err := store_.Finalize(c.Request.Context(), key, bw.status, bw.body.Bytes()); err != nil {
			// The response already reached the client; log-and-move-on rather
			// than mutating a response that was already written.
			logging.Logger.Error("failed to finalize idempotency key", zap.String("key", key), zap.Error(err))
		}
	}
}

func fingerprintOf(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
