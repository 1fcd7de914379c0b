package preview

import (
	"bytes"
	"net/http"
	"strings"
)

const (
	scriptPath = "/livereload.js"
	scriptTag  = `<script async src="` + scriptPath + `"></script>`

	maxInjectSize = 512 * 1024
)

// isHTMLPath reports whether a request path is served as an HTML page.
func isHTMLPath(p string) bool {
	return p == "" || strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".html")
}

// injectLiveReload adds the live reload script to HTML pages served by next.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isHTMLPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		inj := &injector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(inj, r)
		inj.finalize()
	})
}

// injector buffers an HTML response so the script can be placed before
// </body>. Responses over maxInjectSize or of another type pass through.
type injector struct {
	http.ResponseWriter
	status        int
	buf           bytes.Buffer
	buffering     bool
	passthrough   bool
	headerWritten bool
}

func (i *injector) WriteHeader(code int) {
	i.status = code
	if i.passthrough {
		i.ResponseWriter.WriteHeader(code)
		i.headerWritten = true
	}
}

func (i *injector) Write(data []byte) (int, error) {
	if !i.passthrough && !i.buffering {
		ct := i.Header().Get("Content-Type")
		if ct != "" && !strings.Contains(ct, "text/html") {
			i.startPassthrough()
			return i.ResponseWriter.Write(data)
		}
		i.buffering = true
	}
	if i.passthrough {
		return i.ResponseWriter.Write(data)
	}
	if i.buf.Len()+len(data) > maxInjectSize {
		i.startPassthrough()
		if _, err := i.ResponseWriter.Write(i.buf.Bytes()); err != nil {
			return 0, err
		}
		i.buf.Reset()
		return i.ResponseWriter.Write(data)
	}
	return i.buf.Write(data)
}

func (i *injector) startPassthrough() {
	i.passthrough = true
	i.buffering = false
	if !i.headerWritten {
		i.ResponseWriter.WriteHeader(i.status)
		i.headerWritten = true
	}
}

// finalize writes the buffered page with the script injected.
func (i *injector) finalize() {
	if i.passthrough {
		return
	}
	if i.buf.Len() == 0 {
		if !i.headerWritten {
			i.ResponseWriter.WriteHeader(i.status)
		}
		return
	}
	i.Header().Del("Content-Length")
	i.ResponseWriter.WriteHeader(i.status)
	_, _ = i.ResponseWriter.Write(InjectScript(i.buf.Bytes()))
}

// InjectScript places the live reload script tag before the last </body>,
// or appends it when the page has none.
func InjectScript(page []byte) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(append([]byte{}, page...), scriptTag...)
	}
	out := make([]byte, 0, len(page)+len(scriptTag))
	out = append(out, page[:idx]...)
	out = append(out, scriptTag...)
	return append(out, page[idx:]...)
}
