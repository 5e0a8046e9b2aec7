package httpd

import "strings"

// mapping links a URI pattern to a filesystem location. A trailing "*" in
// the URI makes it a prefix mapping; a "*" in the filesystem side marks
// where the relative part is substituted.
type mapping struct {
	uriBase    string // URI prefix with any trailing "*" removed
	fsTemplate string
	wildcard   bool
}

// ServeStatic registers a static mapping. Registering the same URI pattern
// again updates the filesystem side in place, keeping the original rank.
func (s *Server) ServeStatic(uriPattern, fsPath string) {
	wildcard := strings.HasSuffix(uriPattern, "*")
	base := strings.TrimSuffix(uriPattern, "*")
	for i := range s.static {
		if s.static[i].uriBase == base && s.static[i].wildcard == wildcard {
			s.static[i].fsTemplate = fsPath
			return
		}
	}
	s.static = append(s.static, mapping{uriBase: base, fsTemplate: fsPath, wildcard: wildcard})
}

// serveFile resolves path through the static mappings and sends the file.
// No match or a missing file leaves the request unanswered so the caller's
// 404 applies.
func (s *Server) serveFile(path string) {
	fsPath, ok := s.resolve(path)
	if !ok {
		return
	}
	if !s.files.Exists(fsPath) {
		s.log.Debugf("httpd: %s -> %s missing", path, fsPath)
		return
	}
	data, err := s.files.ReadBinary(fsPath)
	if err != nil {
		s.log.Warnf("httpd: read %s failed: %v", fsPath, err)
		return
	}
	s.SendBytes(200, ContentTypeForPath(fsPath), data)
}

// resolve picks the best mapping: an exact match wins, tolerating one
// trailing slash of difference; otherwise the wildcard mapping with the
// longest matching base wins, earlier registration breaking ties.
func (s *Server) resolve(path string) (string, bool) {
	for _, m := range s.static {
		if m.wildcard {
			continue
		}
		if path == m.uriBase || path+"/" == m.uriBase || path == m.uriBase+"/" {
			return finishPath(m.fsTemplate), true
		}
	}

	best := -1
	for i, m := range s.static {
		if !m.wildcard || !strings.HasPrefix(path, m.uriBase) {
			continue
		}
		if best < 0 || len(m.uriBase) > len(s.static[best].uriBase) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	m := s.static[best]
	rel := strings.TrimPrefix(path[len(m.uriBase):], "/")
	if star := strings.IndexByte(m.fsTemplate, '*'); star >= 0 {
		return finishPath(m.fsTemplate[:star] + rel + m.fsTemplate[star+1:]), true
	}
	return finishPath(joinPath(m.fsTemplate, rel)), true
}

// finishPath appends index.html to directory-shaped paths.
func finishPath(p string) string {
	if p == "" {
		return "/index.html"
	}
	if strings.HasSuffix(p, "/") {
		return p + "index.html"
	}
	return p
}

func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	switch {
	case strings.HasSuffix(base, "/") && strings.HasPrefix(rel, "/"):
		return base + rel[1:]
	case !strings.HasSuffix(base, "/") && !strings.HasPrefix(rel, "/"):
		return base + "/" + rel
	}
	return base + rel
}

// ContentTypeForPath maps a file extension to its media type.
func ContentTypeForPath(path string) string {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return "application/octet-stream"
	}
	switch strings.ToLower(path[dot+1:]) {
	case "html", "htm":
		return "text/html"
	case "js":
		return "application/javascript"
	case "css":
		return "text/css"
	case "json":
		return "application/json"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "svg":
		return "image/svg+xml"
	case "ico":
		return "image/x-icon"
	case "txt":
		return "text/plain"
	}
	return "application/octet-stream"
}
