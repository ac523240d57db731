package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andrebq/msgboard/board"
	"github.com/andrebq/msgboard/board/session"
	"github.com/andrebq/msgboard/internal/logutil"
)

type (
	loginForm struct {
		Email    string `validate:"required"`
		Password string `validate:"required"`
	}

	messageForm struct {
		Message string `validate:"required,max=1000"`
	}
)

const (
	incorrectLogin  = "Incorrect login"
	registerFailure = "Unable to register right now, please try again later"
)

func (s *server) feed(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListMessages(r.Context())
	if err != nil {
		s.fail(w, r, err, "Unable to load feed")
		return
	}
	s.render(w, r, http.StatusOK, "home.html", pageData{Messages: messages})
}

func (s *server) feedJSON(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListMessages(r.Context())
	if err != nil {
		s.fail(w, r, err, "Unable to load feed")
		return
	}
	var username string
	if u, ok := session.IdentityFrom(r.Context()); ok {
		username = u.Username
	}
	s.writeJSON(w, r, struct {
		User     string            `json:"user"`
		Messages []board.FeedEntry `json:"messages"`
	}{User: username, Messages: messages})
}

// anonymousOnly renders page unless the request is already authenticated
func (s *server) anonymousOnly(page, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.IdentityFrom(r.Context()); ok {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		s.render(w, r, http.StatusOK, page, pageData{Title: title})
	}
}

func (s *server) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	form := board.Registration{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	retry := func(msg string) {
		s.render(w, r, http.StatusOK, "register.html", pageData{
			Title:    "Register",
			Error:    msg,
			Username: form.Username,
			Email:    form.Email,
		})
	}
	if err := form.Validate(); err != nil {
		retry(board.DescribeValidation(err))
		return
	}
	passwd := session.PlainText(form.Password)
	hash, err := s.hasher.Hash(passwd)
	passwd.Zero()
	if errors.Is(err, session.ErrPasswordTooLong) {
		retry("password is too long")
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Unable to hash password")
		retry(registerFailure)
		return
	}
	err = s.store.CreateUser(ctx, form.Username, form.Email, hash)
	var dup board.DuplicateUser
	if errors.As(err, &dup) {
		retry(dup.Error())
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Unable to create user")
		retry(registerFailure)
		return
	}
	u, err := s.store.UserByEmail(ctx, form.Email)
	if err != nil {
		s.fail(w, r, err, "Unable to load user after registration")
		return
	}
	s.startSession(w, r, u)
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	reject := func() {
		s.render(w, r, http.StatusOK, "login.html", pageData{
			Title: "Login",
			Error: incorrectLogin,
			Email: form.Email,
		})
	}
	if err := s.validate.Struct(form); err != nil {
		reject()
		return
	}
	passwd := session.PlainText(form.Password)
	defer passwd.Zero()

	u, err := s.store.UserByEmail(ctx, form.Email)
	var notFound board.UserNotFound
	if errors.As(err, &notFound) {
		s.hasher.Compare(s.decoyHash, passwd)
		reject()
		return
	} else if err != nil {
		s.fail(w, r, err, "Unable to lookup user during login")
		return
	}
	match, err := s.hasher.Compare(u.PasswordHash, passwd)
	if err != nil {
		s.fail(w, r, err, "Unable to check password")
		return
	} else if !match {
		reject()
		return
	}
	s.startSession(w, r, u)
}

// startSession must only be called once u is stored in the database
func (s *server) startSession(w http.ResponseWriter, r *http.Request, u *board.User) {
	token, err := s.issuer.Issue(r.Context(), u.ID)
	if err != nil {
		s.fail(w, r, err, "Unable to issue session token")
		return
	}
	s.realm.SetCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) logout(w http.ResponseWriter, r *http.Request) {
	_, authenticated := session.IdentityFrom(r.Context())
	_, hasToken := s.realm.Token(r)
	if authenticated && hasToken {
		s.realm.ClearCookie(w)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *server) postMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, _ := session.IdentityFrom(ctx)
	content := r.PostFormValue("message")
	// blank messages are rejected but accepted ones are stored as submitted
	form := messageForm{Message: strings.TrimSpace(content)}
	if err := s.validate.Struct(form); err != nil {
		log := logutil.GetOrDefault(ctx)
		log.Debug().Err(err).Int64("user.id", u.ID).Msg("Rejected message")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	_, err := s.store.PostMessage(ctx, content, u.ID)
	if err != nil {
		s.fail(w, r, err, "Unable to store message")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
