package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

const layoutName = "layout.html"

// Brand carries the sender identity shown inside the canned templates.
type Brand struct {
	Name           string
	Tagline        string
	SiteURL        string
	SupportAddress string
	Year           int
}

// templateData is what every canned template renders against.
type templateData struct {
	Brand Brand
	Name  string
	Link  string
}

type frontmatter struct {
	Subject string `yaml:"subject"`
}

type compiledTemplate struct {
	subject *texttemplate.Template
	html    *template.Template
	text    *texttemplate.Template
}

// Templates renders the verification, password reset and welcome emails.
// Parsed once at construction; Render calls share no mutable state.
type Templates struct {
	brand Brand
	kinds map[Kind]*compiledTemplate
}

// NewTemplates parses the embedded templates for brand.
func NewTemplates(brand Brand) (*Templates, error) {
	layoutSrc, err := templateFS.ReadFile("templates/" + layoutName)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	layout, err := template.New(layoutName).Parse(string(layoutSrc))
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	t := &Templates{brand: brand, kinds: make(map[Kind]*compiledTemplate, 3)}
	for _, kind := range []Kind{KindVerification, KindPasswordReset, KindWelcome} {
		compiled, err := compile(layout, kind)
		if err != nil {
			return nil, err
		}
		t.kinds[kind] = compiled
	}
	return t, nil
}

func compile(layout *template.Template, kind Kind) (*compiledTemplate, error) {
	name := string(kind)

	htmlSrc, err := templateFS.ReadFile("templates/" + name + ".html")
	if err != nil {
		return nil, fmt.Errorf("read %s template: %w", name, err)
	}
	meta, body, err := splitFrontmatter(htmlSrc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	subject, err := texttemplate.New(name + ".subject").Parse(meta.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse %s subject: %w", name, err)
	}

	html, err := layout.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone layout for %s: %w", name, err)
	}
	if _, err := html.Parse(body); err != nil {
		return nil, fmt.Errorf("parse %s html: %w", name, err)
	}

	textSrc, err := templateFS.ReadFile("templates/" + name + ".txt")
	if err != nil {
		return nil, fmt.Errorf("read %s text template: %w", name, err)
	}
	text, err := texttemplate.New(name + ".txt").Parse(string(textSrc))
	if err != nil {
		return nil, fmt.Errorf("parse %s text: %w", name, err)
	}

	return &compiledTemplate{subject: subject, html: html, text: text}, nil
}

// splitFrontmatter separates the YAML block between the leading "---" lines
// from the template body.
func splitFrontmatter(content []byte) (frontmatter, string, error) {
	var meta frontmatter
	delimiter := []byte("---")

	if !bytes.HasPrefix(content, delimiter) {
		return meta, "", fmt.Errorf("%w: missing opening delimiter", ErrInvalidFrontmatter)
	}
	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")

	end := bytes.Index(rest, delimiter)
	if end == -1 {
		return meta, "", fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return meta, "", fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	if strings.TrimSpace(meta.Subject) == "" {
		return meta, "", fmt.Errorf("%w: subject is required", ErrInvalidFrontmatter)
	}

	body := rest[end+len(delimiter):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, string(body), nil
}

// RenderVerification renders the account verification email.
func (t *Templates) RenderVerification(displayName, verificationLink string) (Content, error) {
	return t.render(KindVerification, templateData{Brand: t.brand, Name: displayName, Link: verificationLink})
}

// RenderPasswordReset renders the password reset email.
func (t *Templates) RenderPasswordReset(displayName, resetLink string) (Content, error) {
	return t.render(KindPasswordReset, templateData{Brand: t.brand, Name: displayName, Link: resetLink})
}

// RenderWelcome renders the post-verification welcome email.
func (t *Templates) RenderWelcome(displayName string) (Content, error) {
	return t.render(KindWelcome, templateData{Brand: t.brand, Name: displayName})
}

func (t *Templates) render(kind Kind, data templateData) (Content, error) {
	compiled, ok := t.kinds[kind]
	if !ok {
		return Content{}, fmt.Errorf("%w: no template for %s", ErrRenderFailed, kind)
	}

	var subject, html, text bytes.Buffer
	if err := compiled.subject.Execute(&subject, data); err != nil {
		return Content{}, fmt.Errorf("%w: %s subject: %v", ErrRenderFailed, kind, err)
	}
	if err := compiled.html.ExecuteTemplate(&html, layoutName, data); err != nil {
		return Content{}, fmt.Errorf("%w: %s html: %v", ErrRenderFailed, kind, err)
	}
	if err := compiled.text.Execute(&text, data); err != nil {
		return Content{}, fmt.Errorf("%w: %s text: %v", ErrRenderFailed, kind, err)
	}

	return Content{
		Subject: subject.String(),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
