package httpd

import (
	"strings"
	"testing"
)

func serve(t *testing.T, s *Server, ln *fakeListener, path string) *fakeConn {
	t.Helper()
	conn := get(path)
	ln.pending = append(ln.pending, conn)
	s.Tick()
	return conn
}

func TestExactMappingPreferredOverWildcard(t *testing.T) {
	s, ln, files := newServer(t)
	files.WriteString("/provisioning/index.html", "<html>portal</html>")
	files.WriteString("/provisioning/app.js", "render()")

	s.ServeStatic("/", "/provisioning/index.html")
	s.ServeStatic("/*", "/provisioning/*")

	conn := serve(t, s, ln, "/")
	if body(conn) != "<html>portal</html>" {
		t.Fatalf("root body = %q", body(conn))
	}
	if !strings.Contains(conn.out.String(), "Content-Type: text/html") {
		t.Fatalf("headers = %q", conn.out.String())
	}

	conn = serve(t, s, ln, "/app.js")
	if body(conn) != "render()" {
		t.Fatalf("js body = %q", body(conn))
	}
	if !strings.Contains(conn.out.String(), "Content-Type: application/javascript") {
		t.Fatalf("headers = %q", conn.out.String())
	}
}

func TestLongestWildcardBaseWins(t *testing.T) {
	s, ln, files := newServer(t)
	files.WriteString("/www/generic.css", "g")
	files.WriteString("/assets/img/logo.png", "png")

	s.ServeStatic("/*", "/www/*")
	s.ServeStatic("/img/*", "/assets/img/*")

	conn := serve(t, s, ln, "/img/logo.png")
	if body(conn) != "png" {
		t.Fatalf("body = %q", body(conn))
	}
	conn = serve(t, s, ln, "/generic.css")
	if body(conn) != "g" {
		t.Fatalf("body = %q", body(conn))
	}
}

func TestDirectoryPathsGetIndexHTML(t *testing.T) {
	s, ln, files := newServer(t)
	files.WriteString("/www/docs/index.html", "docs home")

	s.ServeStatic("/*", "/www/*")

	conn := serve(t, s, ln, "/docs/")
	if body(conn) != "docs home" {
		t.Fatalf("body = %q", body(conn))
	}
}

func TestAppendWithoutFsWildcard(t *testing.T) {
	s, ln, files := newServer(t)
	files.WriteString("/site/page.html", "page")

	s.ServeStatic("/pages/*", "/site")

	conn := serve(t, s, ln, "/pages/page.html")
	if body(conn) != "page" {
		t.Fatalf("body = %q", body(conn))
	}
}

func TestTrailingSlashToleranceOnExact(t *testing.T) {
	s, ln, files := newServer(t)
	files.WriteString("/www/status.html", "status")

	s.ServeStatic("/status", "/www/status.html")

	conn := serve(t, s, ln, "/status/")
	if body(conn) != "status" {
		t.Fatalf("body = %q", body(conn))
	}
}

func TestMappingUpdateInPlace(t *testing.T) {
	s, ln, files := newServer(t)
	files.WriteString("/old/index.html", "old")
	files.WriteString("/new/index.html", "new")

	s.ServeStatic("/", "/old/index.html")
	s.ServeStatic("/", "/new/index.html")

	conn := serve(t, s, ln, "/")
	if body(conn) != "new" {
		t.Fatalf("body = %q", body(conn))
	}
}

func TestMissingFileIs404(t *testing.T) {
	s, ln, _ := newServer(t)
	s.ServeStatic("/*", "/www/*")

	conn := serve(t, s, ln, "/nope.css")
	if got := status(t, conn); got != "HTTP/1.1 404 Not Found" {
		t.Fatalf("status = %q", got)
	}
}

func TestContentTypeForPath(t *testing.T) {
	cases := map[string]string{
		"/a/index.html": "text/html",
		"/a/x.htm":      "text/html",
		"/a/x.JS":       "application/javascript",
		"/a/x.css":      "text/css",
		"/a/x.json":     "application/json",
		"/a/x.png":      "image/png",
		"/a/x.jpeg":     "image/jpeg",
		"/a/x.svg":      "image/svg+xml",
		"/a/favicon.ico": "image/x-icon",
		"/a/raw":        "application/octet-stream",
		"/a/x.bin":      "application/octet-stream",
	}
	for path, want := range cases {
		if got := ContentTypeForPath(path); got != want {
			t.Fatalf("ContentTypeForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestWildcardBaseWithoutTrailingSlash(t *testing.T) {
	s, ln, files := newServer(t)
	files.WriteString("/assets/app.js", "js")

	s.ServeStatic("/static*", "/assets/*")

	conn := serve(t, s, ln, "/static/app.js")
	if got := status(t, conn); got != "HTTP/1.1 200 OK" {
		t.Fatalf("status = %q", got)
	}
	if body(conn) != "js" {
		t.Fatalf("body = %q", body(conn))
	}
}
