// Package fixture serves an offline stand-in for the eBay home and search
// results pages, with the same selectors and a transmission filter rail.
package fixture

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Listing struct {
	Title        string
	Price        string
	Transmission string
}

var transmissions = []string{"Manual", "Automatic"}

// DefaultCatalog holds 50 Mazda MX-5 listings, 12 of them manual, plus a few
// listings that do not match that search.
func DefaultCatalog() []Listing {
	listings := make([]Listing, 0, 55)
	for i := 0; i < 50; i++ {
		transmission := "Automatic"
		if i%4 == 0 && i < 48 {
			transmission = "Manual"
		}
		listings = append(listings, Listing{
			Title:        fmt.Sprintf("%d Mazda MX-5 Miata %s Convertible", 1990+i%34, transmission),
			Price:        fmt.Sprintf("$%d,%03d.00", 4+i%20, (i*137)%1000),
			Transmission: transmission,
		})
	}
	for _, title := range []string{"2006 Honda S2000", "1999 Porsche Boxster", "2010 Nissan 370Z", "1995 BMW Z3", "2002 Toyota MR2 Spyder"} {
		listings = append(listings, Listing{Title: title, Price: "$15,000.00", Transmission: "Manual"})
	}
	return listings
}

type server struct {
	listings []Listing
	logger   *slog.Logger
}

func NewRouter(listings []Listing, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{listings: listings, logger: logger.With("component", "fixture")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		MaxAge:         300,
	}))

	r.Get("/", s.home)
	r.Get("/sch/i.html", s.results)
	r.Get("/itm/{id}", s.item)

	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery,
			"request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
}

// Search returns the listings whose title contains every word of term, then
// narrows them to transmission when it is set.
func Search(listings []Listing, term, transmission string) []Listing {
	matched := make([]Listing, 0)
	for _, i := range match(listings, term, transmission) {
		matched = append(matched, listings[i])
	}
	return matched
}

// match is Search returning catalog indexes.
func match(listings []Listing, term, transmission string) []int {
	words := strings.Fields(strings.ToLower(term))
	var indexes []int

	for i, l := range listings {
		title := strings.ToLower(l.Title)
		ok := len(words) > 0
		for _, w := range words {
			if !strings.Contains(title, w) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if transmission != "" && !strings.EqualFold(l.Transmission, transmission) {
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes
}

func (s *server) home(w http.ResponseWriter, r *http.Request) {
	s.render(w, homeTemplate, nil)
}

type filterOption struct {
	Label  string
	Count  int
	Href   string
	Active bool
}

// resultRow carries the 1-based catalog position that /itm/{id} resolves.
type resultRow struct {
	ID int
	Listing
}

type resultsView struct {
	Term    string
	Count   int
	Options []filterOption
	Rows    []resultRow
}

func (s *server) results(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("_nkw")
	transmission := r.URL.Query().Get("Transmission")

	unfiltered := Search(s.listings, term, "")
	matched := match(s.listings, term, transmission)

	view := resultsView{Term: term, Count: len(matched)}
	for _, t := range transmissions {
		q := url.Values{}
		q.Set("_nkw", term)
		q.Set("Transmission", t)
		view.Options = append(view.Options, filterOption{
			Label:  t,
			Count:  len(Search(unfiltered, term, t)),
			Href:   "/sch/i.html?" + q.Encode(),
			Active: strings.EqualFold(t, transmission),
		})
	}
	for _, i := range matched {
		view.Rows = append(view.Rows, resultRow{ID: i + 1, Listing: s.listings[i]})
	}

	s.render(w, resultsTemplate, view)
}

func (s *server) item(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 || id > len(s.listings) {
		http.NotFound(w, r)
		return
	}
	s.render(w, itemTemplate, s.listings[id-1])
}

func (s *server) render(w http.ResponseWriter, t *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "template", t.Name(), "error", err)
	}
}

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Electronics, Cars, Fashion, Collectibles &amp; More | eBay</title></head>
<body>
<header><a href="/">eBay</a></header>
<form action="/sch/i.html" method="get">
<input type="text" name="_nkw" placeholder="Search for anything" aria-label="Search for anything">
<button type="submit">Search</button>
</form>
</body>
</html>
`))

var resultsTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Term}} for sale | eBay</title></head>
<body>
<div class="srp-controls">
<h1 class="srp-controls__count-heading"><span class="BOLD">{{.Count}}</span><span> results for <span class="BOLD">{{.Term}}</span></span></h1>
</div>
<div class="srp-rail__left">
<h3 class="x-refine__item">Transmission</h3>
<ul class="x-refine__main__list">
{{- range .Options}}
<li><a href="{{.Href}}"{{if .Active}} aria-current="true"{{end}}>{{.Label}} <span class="x-refine__count">({{.Count}})</span></a></li>
{{- end}}
</ul>
</div>
<ul class="srp-results">
{{- range .Rows}}
<li class="s-card"><div class="su-card-container">
<div class="su-card-container__header"><a class="su-link" href="/itm/{{.ID}}"><span class="su-styled-text primary">{{.Title}}</span></a></div>
<span class="s-card__price">{{.Price}}</span>
</div></li>
{{- end}}
</ul>
</body>
</html>
`))

var itemTemplate = template.Must(template.New("item").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}} | eBay</title></head>
<body><h1>{{.Title}}</h1><p class="price">{{.Price}}</p><p class="transmission">{{.Transmission}}</p></body>
</html>
`))
