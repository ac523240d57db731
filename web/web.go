package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/board/session"
	authapi "github.com/andrebq/msgboard/board/session/api"
	"github.com/andrebq/msgboard/internal/logutil"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

type (
	Store interface {
		CreateUser(ctx context.Context, username, email, passwordHash string) error
		UserByEmail(ctx context.Context, email string) (*board.User, error)
		PostMessage(ctx context.Context, content string, authorID int64) (int64, error)
		ListMessages(ctx context.Context) ([]board.FeedEntry, error)
	}

	Issuer interface {
		Issue(ctx context.Context, userID int64) (string, error)
	}

	Config struct {
		Store  Store
		Issuer Issuer
		Realm  *authapi.SecurityRealm
		Hasher session.Hasher
	}

	server struct {
		store    Store
		issuer   Issuer
		realm    *authapi.SecurityRealm
		hasher   session.Hasher
		pages    *template.Template
		validate *validator.Validate

		// compared against when the email is unknown so both login
		// failures take roughly the same time
		decoyHash string
	}

	pageData struct {
		Title    string
		User     *board.User
		Error    string
		Username string
		Email    string
		Messages []board.FeedEntry
	}
)

var (
	//go:embed templates/*.html
	templates embed.FS

	//go:embed static
	assets embed.FS

	staticPages = []struct {
		route string
		title string
	}{
		{"about", "About"},
		{"categories", "Categories"},
		{"team-bio", "Team"},
		{"movies", "Movies"},
		{"requests", "Requests"},
	}
)

// AsHandler returns the full message board application, every request
// passes through the identity filter before reaching a route.
func AsHandler(ctx context.Context, cfg Config) (http.Handler, error) {
	pages, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("unable to parse templates, cause %w", err)
	}
	decoy, err := cfg.Hasher.Hash(session.PlainText("not a real password"))
	if err != nil {
		return nil, err
	}
	s := &server{
		store:     cfg.Store,
		issuer:    cfg.Issuer,
		realm:     cfg.Realm,
		hasher:    cfg.Hasher,
		pages:     pages,
		validate:  validator.New(),
		decoyHash: decoy,
	}
	s.realm.OnError = s.internalError

	router := httprouter.New()
	router.HandlerFunc("GET", "/", s.feed)
	router.HandlerFunc("GET", "/api/messages", s.feedJSON)
	router.HandlerFunc("GET", "/register", s.anonymousOnly("register.html", "Register"))
	router.HandlerFunc("POST", "/register", s.register)
	router.HandlerFunc("GET", "/login", s.anonymousOnly("login.html", "Login"))
	router.HandlerFunc("POST", "/login", s.login)
	router.HandlerFunc("GET", "/logout", s.logout)
	router.Handler("POST", "/message", s.realm.Protect(http.HandlerFunc(s.postMessage)))
	for _, p := range staticPages {
		router.HandlerFunc("GET", "/"+p.route, s.staticPage(p.route+".html", p.title))
	}

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}
	images, err := fs.Sub(assets, "static/img")
	if err != nil {
		return nil, err
	}
	router.ServeFiles("/static/*filepath", http.FS(static))
	router.ServeFiles("/img/*filepath", http.FS(images))

	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("Handler panic")
		s.internalError(w, r)
	}

	return logutil.RequestLogger(s.realm.Identify(router)), nil
}

func (s *server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	if data.User == nil {
		data.User, _ = session.IdentityFrom(r.Context())
	}
	var buf bytes.Buffer
	err := s.pages.ExecuteTemplate(&buf, page, data)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Str("page", page).Msg("Unable to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *server) internalError(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusInternalServerError, "error.html", pageData{Title: "Error"})
}

// fail logs err and answers with the generic error page
func (s *server) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logutil.GetOrDefault(r.Context())
	log.Error().Err(err).Msg(msg)
	s.internalError(w, r)
}

func (s *server) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	buf, err := json.Marshal(v)
	if err != nil {
		s.fail(w, r, err, "Unable to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf)
}

func (s *server) staticPage(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, http.StatusOK, page, pageData{Title: title})
	}
}
