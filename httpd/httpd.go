// Package httpd is a single-connection HTTP/1.1 server shaped for the
// cooperative firmware loop: one accept and one request per tick, bounded
// reads, handlers that reply through Send.
package httpd

import (
	"io"
	"net/url"
	"strings"

	"heaterctl-go/errcode"
	"heaterctl-go/logx"
	"heaterctl-go/types"
	"heaterctl-go/x/strconvx"
	"heaterctl-go/x/strx"
)

const (
	maxHeaderBytes = 4 * 1024
	maxBodyBytes   = 8 * 1024
)

// Request is one parsed HTTP request. Header keys are lower-cased.
type Request struct {
	Method string
	Path   string
	Query  string
	Header map[string]string
	Body   []byte

	form  url.Values
	query url.Values
}

// Arg looks a parameter up in the form body first, then the query string.
func (r *Request) Arg(name string) string {
	if r.form == nil {
		r.form = parseValues(string(r.Body), r.Header["content-type"])
	}
	if v := r.form.Get(name); v != "" {
		return v
	}
	if r.query == nil {
		r.query, _ = url.ParseQuery(r.Query)
	}
	return r.query.Get(name)
}

func parseValues(body, contentType string) url.Values {
	const formType = "application/x-www-form-urlencoded"
	if len(contentType) < len(formType) || !strx.EqualFold(contentType[:len(formType)], formType) {
		return url.Values{}
	}
	v, err := url.ParseQuery(body)
	if err != nil {
		return url.Values{}
	}
	return v
}

// HandlerFunc replies by calling Server.Send exactly once.
type HandlerFunc func(req *Request)

// RawHandlerFunc gets the connection itself and owns the whole response,
// status line included.
type RawHandlerFunc func(req *Request, conn io.Writer)

type route struct {
	method  string
	path    string
	handler HandlerFunc
	raw     RawHandlerFunc
}

// FileReader is the static-content source, satisfied by fstore.Store.
type FileReader interface {
	Exists(path string) bool
	ReadBinary(path string) ([]byte, error)
}

type Server struct {
	log   *logx.Logger
	files FileReader

	ln     types.Listener
	routes []route
	static []mapping

	cur       io.ReadWriteCloser
	responded bool
}

func New(files FileReader, log *logx.Logger) *Server {
	return &Server{files: files, log: log}
}

// Begin starts listening. Routes survive a Stop/Begin cycle.
func (s *Server) Begin(open func(port uint16) (types.Listener, error), port uint16) error {
	ln, err := open(port)
	if err != nil {
		return err
	}
	s.ln = ln
	s.log.Infof("httpd: listening on port %d", port)
	return nil
}

func (s *Server) Running() bool { return s.ln != nil }

func (s *Server) Stop() {
	if s.ln == nil {
		return
	}
	s.ln.Close()
	s.ln = nil
}

// On registers a handler for an exact method and path. Registering the same
// pair again replaces the handler in place.
func (s *Server) On(method, path string, fn HandlerFunc) {
	for i := range s.routes {
		if s.routes[i].method == method && s.routes[i].path == path {
			s.routes[i].handler = fn
			s.routes[i].raw = nil
			return
		}
	}
	s.routes = append(s.routes, route{method: method, path: path, handler: fn})
}

// OnRaw registers a handler that writes its response straight to the
// connection, bypassing Send.
func (s *Server) OnRaw(method, path string, fn RawHandlerFunc) {
	for i := range s.routes {
		if s.routes[i].method == method && s.routes[i].path == path {
			s.routes[i].handler = nil
			s.routes[i].raw = fn
			return
		}
	}
	s.routes = append(s.routes, route{method: method, path: path, raw: fn})
}

// Send writes the response for the request currently being dispatched.
func (s *Server) Send(code int, contentType string, body string) {
	if s.cur == nil {
		return
	}
	s.responded = true
	writeResponse(s.cur, code, contentType, []byte(body))
}

func (s *Server) SendBytes(code int, contentType string, body []byte) {
	if s.cur == nil {
		return
	}
	s.responded = true
	writeResponse(s.cur, code, contentType, body)
}

// Tick accepts and serves at most one request.
func (s *Server) Tick() {
	if s.ln == nil {
		return
	}
	conn, err := s.ln.TryAccept()
	if err != nil {
		s.log.Warnf("httpd: accept failed: %v", err)
		return
	}
	if conn == nil {
		return
	}
	defer conn.Close()

	req, err := readRequest(conn)
	if err != nil {
		writeResponse(conn, 400, "text/plain", []byte("Bad Request"))
		return
	}

	s.cur = conn
	s.responded = false
	s.dispatch(req)
	if !s.responded {
		writeResponse(conn, 404, "text/plain", []byte("Not Found"))
	}
	s.cur = nil
}

func (s *Server) dispatch(req *Request) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("httpd: handler for %s %s panicked: %v", req.Method, req.Path, r)
			if !s.responded {
				s.Send(500, "text/plain", "Internal Server Error")
			}
		}
	}()
	for _, rt := range s.routes {
		if rt.method == req.Method && rt.path == req.Path {
			if rt.raw != nil {
				s.responded = true
				rt.raw(req, s.cur)
				return
			}
			rt.handler(req)
			return
		}
	}
	if req.Method == "GET" || req.Method == "HEAD" {
		s.serveFile(req.Path)
	}
}

// readRequest parses one request with hard size limits. Pipelining and
// keep-alive are not supported; every connection carries one exchange.
func readRequest(conn io.Reader) (*Request, error) {
	head, rest, err := readHead(conn)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(head, "\r\n")
	if len(lines) == 0 {
		return nil, errcode.HTTPBadRequest
	}
	parts := strings.SplitN(lines[0], " ", 3)
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "HTTP/") {
		return nil, errcode.HTTPBadRequest
	}

	req := &Request{Method: parts[0], Header: map[string]string{}}
	uri := parts[1]
	if q := strings.IndexByte(uri, '?'); q >= 0 {
		req.Path, req.Query = uri[:q], uri[q+1:]
	} else {
		req.Path = uri
	}

	for _, line := range lines[1:] {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strx.LowerASCII(strings.TrimSpace(line[:colon]))
		req.Header[key] = strings.TrimSpace(line[colon+1:])
	}

	if cl := req.Header["content-length"]; cl != "" {
		want, err := strconvx.Atoi(cl)
		if err != nil || want < 0 || want > maxBodyBytes {
			return nil, errcode.HTTPBadRequest
		}
		body := make([]byte, want)
		n := copy(body, rest)
		if _, err := io.ReadFull(conn, body[n:]); err != nil {
			return nil, errcode.HTTPBadRequest
		}
		req.Body = body
	}
	return req, nil
}

// readHead reads until the blank line and returns the head plus any body
// bytes that arrived with it.
func readHead(conn io.Reader) (string, []byte, error) {
	buf := make([]byte, 0, 512)
	chunk := make([]byte, 256)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if i := strings.Index(string(buf), "\r\n\r\n"); i >= 0 {
				return string(buf[:i]), buf[i+4:], nil
			}
			if len(buf) > maxHeaderBytes {
				return "", nil, errcode.HTTPBadRequest
			}
		}
		if err != nil {
			return "", nil, errcode.HTTPBadRequest
		}
	}
}

func writeResponse(w io.Writer, code int, contentType string, body []byte) {
	var b strings.Builder
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconvx.Itoa(code))
	b.WriteByte(' ')
	b.WriteString(statusText(code))
	b.WriteString("\r\nContent-Type: ")
	b.WriteString(contentType)
	b.WriteString("\r\nContent-Length: ")
	b.WriteString(strconvx.Itoa(len(body)))
	b.WriteString("\r\nConnection: close\r\n\r\n")
	w.Write([]byte(b.String()))
	if len(body) > 0 {
		w.Write(body)
	}
}

func statusText(code int) string {
	switch code {
	case 200:
		return "OK"
	case 204:
		return "No Content"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 500:
		return "Internal Server Error"
	default:
		return "Status"
	}
}
