package http

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"time"

	"resource_hub/internal/lib/logger/sl"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap serves sitemap.xml covering the static pages plus every
// published resource.
func (r *Routers) Sitemap(c echo.Context) error {
	const op = "http.routers.Sitemap"

	log := r.log.With(
		slog.String("op", op),
	)

	entries, err := r.ResourceService.ListPublishedForSitemap(c.Request().Context())
	if err != nil {
		log.Error("failed to list sitemap entries", sl.Err(err))
		return c.NoContent(http.StatusInternalServerError)
	}

	urls := []sitemapURL{
		{Loc: r.siteURL + "/", ChangeFreq: "weekly", Priority: "1.0"},
		{Loc: r.siteURL + "/resources", ChangeFreq: "daily", Priority: "0.8"},
	}
	for _, entry := range entries {
		urls = append(urls, sitemapURL{
			Loc:        r.siteURL + "/resources/" + entry.Slug,
			LastMod:    entry.Date.Format(time.RFC3339),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	out, err := xml.MarshalIndent(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		log.Error("failed to marshal sitemap", sl.Err(err))
		return c.NoContent(http.StatusInternalServerError)
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, append([]byte(xml.Header), out...))
}
