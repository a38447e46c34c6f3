package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/webbridge/core/logger"
	"github.com/dmitrymomot/webbridge/core/reqctx"
	"github.com/dmitrymomot/webbridge/core/scope"
)

const (
	templateExt = ".bxm"
	indexPage   = "index" + templateExt
)

// pageEngine is a minimal engine: ".bxm" files are templates whose ${name}
// placeholders expand to the nearest attribute in scope; everything else is
// sent as a static file.
type pageEngine struct {
	log *slog.Logger
}

func newPageEngine(log *slog.Logger) *pageEngine {
	return &pageEngine{log: log}
}

func (e *pageEngine) Execute(ctx context.Context, rc *reqctx.RequestContext) error {
	ex := rc.Exchange()

	logical := ex.URI()
	if strings.Contains(logical, "..") {
		return e.notFound(rc)
	}
	if strings.HasSuffix(logical, "/") {
		logical = path.Join(logical, indexPage)
	}

	entry, ok := rc.ResolvePath(logical)
	if !ok {
		return e.notFound(rc)
	}

	info, err := os.Stat(entry.Absolute)
	if errors.Is(err, fs.ErrNotExist) {
		return e.notFound(rc)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", entry.Relative, err)
	}
	if info.IsDir() {
		ex.SetHeader("Location", strings.TrimSuffix(ex.URI(), "/")+"/")
		ex.SetStatus(http.StatusMovedPermanently)
		return nil
	}

	if filepath.Ext(entry.Absolute) != templateExt {
		if ct := mime.TypeByExtension(filepath.Ext(entry.Absolute)); ct != "" {
			ex.SetHeader("Content-Type", ct)
		}
		return ex.SendFile(entry.Absolute)
	}

	return e.render(ctx, rc, entry.Absolute, entry.Relative)
}

func (e *pageEngine) render(ctx context.Context, rc *reqctx.RequestContext, file, relative string) error {
	ex := rc.Exchange()
	pc, err := rc.PageContext()
	if err != nil {
		return err
	}

	for name, values := range ex.URLMap() {
		pc.SetAttribute(name, strings.Join(values, ","))
	}
	form := ex.FormMap()
	for _, name := range form.Names() {
		if err := pc.SetAttributeIn(name, strings.Join(form.All(name), ","), scope.Request); err != nil {
			return err
		}
	}
	pc.SetAttribute("path", relative)
	pc.SetAttribute("method", ex.Method())
	pc.SetAttribute("locale", ex.Locale().String())
	pc.SetAttribute("uploads", len(ex.Uploads()))

	if pc.HasSession() {
		visits := toInt(pc.Find("visits")) + 1
		if err := pc.SetAttributeIn("visits", visits, scope.Session); err != nil {
			return err
		}
	}

	tmpl, err := os.ReadFile(file) // #nosec G304 - file resolved inside the container
	if err != nil {
		return fmt.Errorf("read template %s: %w", relative, err)
	}

	out := os.Expand(string(tmpl), func(name string) string {
		v := pc.Find(name)
		if v == nil {
			return ""
		}
		return html.EscapeString(fmt.Sprint(v))
	})

	e.log.DebugContext(ctx, "template rendered",
		logger.Component("engine"),
		logger.Path(relative),
		logger.Count("bytes", len(out)),
	)

	ex.SetHeader("Content-Type", "text/html; charset=utf-8")
	_, err = ex.Writer().WriteString(out)
	return err
}

func (e *pageEngine) notFound(rc *reqctx.RequestContext) error {
	ex := rc.Exchange()
	ex.SetStatus(http.StatusNotFound)
	ex.SetHeader("Content-Type", "text/plain; charset=utf-8")
	_, err := ex.Writer().WriteString("Not Found\n")
	return err
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	}
	return 0
}
