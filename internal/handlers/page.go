package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"chatpdf/internal/contextutil"
	"chatpdf/internal/rag"
	"chatpdf/internal/service"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/page.html"))

const (
	msgInvalidCredentials = "Usuário ou senha incorretos."
	msgNoDocuments        = "Nenhum PDF encontrado na pasta `%s/`. Coloque os arquivos lá e recarregue a página."
	msgEmptyQuestion      = "Digite uma pergunta."
)

// pageData is the view model of the single page.
type pageData struct {
	Title      string
	LoggedIn   bool
	LoginError string
	Warning    string
	Error      string
	CanAsk     bool
	Documents  []string
	Question   string
	Answered   bool
	Answer     template.HTML
	Sources    []rag.Source
}

// PageHandler serves the interactive HTML page: login, document status and
// question answering.
type PageHandler struct {
	controller service.Controller
	title      string
	docsDir    string
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(controller service.Controller, title, docsDir string) *PageHandler {
	return &PageHandler{
		controller: controller,
		title:      title,
		docsDir:    docsDir,
	}
}

// Index renders the page for the current session state. While the index is
// not built it triggers the build, so adding PDFs and reloading is enough.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := h.controller.Session(id); err != nil {
		h.render(w, r, http.StatusOK, &pageData{Title: h.title})
		return
	}

	data, status := h.prepare(r, id)
	h.render(w, r, status, data)
}

// Login checks the submitted credentials and sets the session cookie.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, &pageData{Title: h.title, LoginError: "Formulário inválido."})
		return
	}

	session, err := h.controller.Login(ctx, r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		msg := msgInvalidCredentials
		if !errors.Is(err, service.ErrInvalidCredentials) {
			msg = err.Error()
		}
		h.render(w, r, statusFor(err), &pageData{Title: h.title, LoginError: msg})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout discards the session and clears the cookie.
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if id := sessionID(r); id != "" {
		h.controller.Logout(r.Context(), id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Ask answers the submitted question and re-renders the page with the
// answer and its sources.
func (h *PageHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := sessionID(r)
	if _, err := h.controller.Session(id); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data, status := h.prepare(r, id)
	if !data.CanAsk {
		h.render(w, r, status, data)
		return
	}

	if err := r.ParseForm(); err != nil {
		data.Error = "Formulário inválido."
		h.render(w, r, http.StatusBadRequest, data)
		return
	}
	data.Question = r.PostFormValue("question")

	resp, err := h.controller.Ask(ctx, id, data.Question)
	if err != nil {
		logger.WarnContext(ctx, "question failed", "error", err)
		if errors.Is(err, service.ErrInvalidInput) {
			data.Error = msgEmptyQuestion
		} else {
			data.Error = err.Error()
		}
		h.render(w, r, statusFor(err), data)
		return
	}

	answer, err := renderMarkdown(resp.Answer)
	if err != nil {
		logger.ErrorContext(ctx, "failed to render answer", "error", err)
		answer = template.HTML(template.HTMLEscapeString(resp.Answer))
	}
	data.Answered = true
	data.Answer = answer
	data.Sources = resp.Sources
	h.render(w, r, http.StatusOK, data)
}

// prepare runs the idempotent build for a logged-in session and fills the
// status part of the page.
func (h *PageHandler) prepare(r *http.Request, id string) (*pageData, int) {
	ctx := r.Context()
	data := &pageData{Title: h.title, LoggedIn: true}

	_, err := h.controller.Prepare(ctx, id)
	switch {
	case err == nil:
		data.CanAsk = true
		data.Documents = h.controller.Status(ctx).Documents
		return data, http.StatusOK
	case errors.Is(err, service.ErrNoDocuments):
		data.Warning = noDocumentsMessage(h.docsDir)
		return data, http.StatusOK
	case errors.Is(err, service.ErrUnauthenticated):
		data.LoggedIn = false
		return data, http.StatusOK
	default:
		data.Error = err.Error()
		return data, statusFor(err)
	}
}

func noDocumentsMessage(dir string) string {
	return fmt.Sprintf(msgNoDocuments, dir)
}

// render writes the page, buffering so template errors become a clean 500.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		ctx := r.Context()
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
