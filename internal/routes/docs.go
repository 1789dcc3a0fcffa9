package routes

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tritonlifts/api/docs"
	"github.com/tritonlifts/api/internal/config"
)

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
html { background: #10151c; color: #d8dee6; font: 15px/1.45 ui-monospace, Menlo, monospace; }
header { padding: 18px 28px; border-bottom: 2px solid #2f7d5b; }
header h1 { font-size: 1.2rem; margin: 0 0 4px; color: #7fd1a8; }
header small { color: #8a96a3; }
header a { color: #7fd1a8; }
article { padding: 12px 28px 40px; white-space: pre-wrap; }
</style>
</head>
<body>
<header>
<h1>{{ .Title }}</h1>
<small>generated {{ .LoadedAt }} &middot; <a href="/docs/openapi.yaml">openapi.yaml</a></small>
</header>
<article>{{ .Document }}</article>
</body>
</html>`

type docsPage struct {
	Title    string
	LoadedAt string
	Document string
}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	indexTemplate, err := template.New("docs-index").Parse(docsIndexHTML)
	if err != nil {
		return fmt.Errorf("parse docs template: %w", err)
	}

	pageData := docsPage{
		Title:    "Triton Lifts API",
		LoadedAt: time.Now().UTC().Format(time.RFC3339),
		Document: string(docs.OpenAPI),
	}

	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, pageData); err != nil {
		return fmt.Errorf("render docs page: %w", err)
	}
	rendered := page.Bytes()

	indexHandler := func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'")
		return c.Status(fiber.StatusOK).Send(rendered)
	}

	app.Get("/docs", indexHandler)
	app.Get("/docs/", indexHandler)
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Status(fiber.StatusOK).Send(docs.OpenAPI)
	})

	return nil
}

func applyDocsBaseHeaders(c *fiber.Ctx, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}
