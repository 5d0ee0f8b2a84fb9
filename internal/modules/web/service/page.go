package service

import (
	_ "embed"
	"html/template"
	"io"
	"time"

	"github.com/pkg/errors"
)

//go:embed templates/index.html
var indexHTML string

type Page struct {
	tmpl *template.Template
}

func NewPage() (*Page, error) {
	tmpl, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, errors.Wrap(err, "parse index template")
	}
	return &Page{tmpl: tmpl}, nil
}

type pageData struct {
	Assets     []string
	RefreshMs  int64
	RefreshSec int64
}

func (p *Page) Render(w io.Writer, assets []string, refresh time.Duration) error {
	return p.tmpl.Execute(w, pageData{
		Assets:     assets,
		RefreshMs:  refresh.Milliseconds(),
		RefreshSec: int64(refresh.Seconds()),
	})
}
