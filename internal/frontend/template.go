package frontend

import (
	"io"
	"text/template"

	"github.com/labstack/echo/v4"
)

// Template adapts parsed views to echo's renderer interface
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
