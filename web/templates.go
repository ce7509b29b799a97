package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
	"orNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
	"orNAInt": func(n int) string {
		if n == 0 {
			return "N/A"
		}
		return fmt.Sprintf("%d", n)
	},
}

// pages maps page names to their parsed layout+content template.
var pages = func() map[string]*template.Template {
	names := []string{
		"home", "login", "register", "books", "members",
		"loans", "myloans", "reports",
	}
	m := make(map[string]*template.Template, len(names))
	for _, name := range names {
		m[name] = template.Must(
			template.New("layout.html").Funcs(templateFuncs).
				ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return m
}()

// page is the data every template receives.
type page struct {
	Title   string
	User    user
	Flashes []string
	Data    any
}

// render executes the named page into the response, draining flash
// messages into it.
func (s *Server) render(c *fiber.Ctx, name, title string, data any) error {
	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	u, err := s.currentUser(c)
	if err != nil {
		return err
	}
	flashes, err := s.popFlashes(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page{Title: title, User: u, Flashes: flashes, Data: data}); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
