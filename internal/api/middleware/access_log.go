package middleware

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// requestLog is one access log line. Queries and request bodies are
// deliberately absent: search queries and questions are user content and do
// not belong in access logs.
type requestLog struct {
	Time      string `json:"ts"`
	RequestID string `json:"request_id,omitempty"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	BytesOut  int    `json:"bytes_out"`
	Duration  string `json:"duration"`
	Client    string `json:"client,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// statusWriter captures the status code and body size of a response.
type statusWriter struct {
	http.ResponseWriter
	status   int
	bytesOut int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesOut += n
	return n, err
}

// AccessLog writes one structured JSON line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		defer func() {
			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			line, err := json.Marshal(requestLog{
				Time:      start.UTC().Format(time.RFC3339Nano),
				RequestID: RequestIDFrom(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    status,
				BytesOut:  sw.bytesOut,
				Duration:  time.Since(start).Round(time.Microsecond).String(),
				Client:    clientAddr(r),
				UserAgent: r.UserAgent(),
			})
			if err != nil {
				log.Printf("access_log_marshal_error: %v", err)
				return
			}
			log.Println(string(line))
		}()

		next.ServeHTTP(sw, r)
	})
}

// clientAddr prefers proxy-set headers and falls back to the socket peer.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
