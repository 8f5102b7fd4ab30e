package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_controller.go -package=mocks chatpdf/internal/service Controller
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_dependencies.go -package=mocks chatpdf/internal/service IndexBuilder,QuestionAnswerer

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"chatpdf/internal/contextutil"
	"chatpdf/internal/indexer"
	"chatpdf/internal/llm"
	"chatpdf/internal/loader"
	"chatpdf/internal/rag"
)

// IndexBuilder builds the process index from the documents directory.
// This interface is defined from the service layer's perspective (consumer-first).
type IndexBuilder interface {
	Build(ctx context.Context) (*indexer.BuildResult, error)
}

// QuestionAnswerer answers a question from the built index.
type QuestionAnswerer interface {
	Ask(ctx context.Context, req rag.AskRequest) (rag.AskResponse, error)
}

// Credentials are the single accepted login pair.
type Credentials struct {
	Username string
	Password string
}

// IndexStatus describes the process index.
type IndexStatus struct {
	Built     bool                `json:"built"`
	Documents []string            `json:"documents"`
	Segments  int                 `json:"segments"`
	BuiltAt   time.Time           `json:"built_at,omitzero"`
	Duration  time.Duration       `json:"duration_ns,omitempty"`
	Stats     *indexer.BuildStats `json:"stats,omitempty"`
	LastError string              `json:"last_error,omitempty"`
}

// Controller owns the sessions and the single process index.
type Controller interface {
	// Login checks the credentials and creates a session.
	Login(ctx context.Context, username, password string) (*Session, error)
	// Logout discards a session. Unknown ids are ignored.
	Logout(ctx context.Context, id string)
	// Session returns the session for id or ErrUnauthenticated.
	Session(id string) (*Session, error)
	// State reports where the session id stands.
	State(id string) State
	// Prepare builds the index once for the process and reports the resulting state.
	Prepare(ctx context.Context, id string) (State, error)
	// Ask answers a question for a logged-in session once the index is built.
	Ask(ctx context.Context, id, question string) (rag.AskResponse, error)
	// Status describes the process index.
	Status(ctx context.Context) IndexStatus
}

type controller struct {
	creds    Credentials
	builder  IndexBuilder
	answerer QuestionAnswerer

	sessionsMu sync.RWMutex
	sessions   map[string]*Session

	buildMu sync.Mutex
	indexed atomic.Bool

	statusMu sync.RWMutex
	status   IndexStatus

	now func() time.Time
}

// NewController creates a Controller accepting only creds.
func NewController(creds Credentials, builder IndexBuilder, answerer QuestionAnswerer) Controller {
	return &controller{
		creds:    creds,
		builder:  builder,
		answerer: answerer,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

func (c *controller) Login(ctx context.Context, username, password string) (*Session, error) {
	logger := contextutil.LoggerFromContext(ctx)

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.creds.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.creds.Password))
	if userOK&passOK != 1 {
		logger.WarnContext(ctx, "login failed", "username", username)
		return nil, ErrInvalidCredentials
	}

	s := &Session{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: c.now(),
	}
	c.sessionsMu.Lock()
	c.sessions[s.ID] = s
	c.sessionsMu.Unlock()

	logger.InfoContext(ctx, "login succeeded", "username", username)
	return s, nil
}

func (c *controller) Logout(ctx context.Context, id string) {
	c.sessionsMu.Lock()
	_, ok := c.sessions[id]
	delete(c.sessions, id)
	c.sessionsMu.Unlock()

	if ok {
		contextutil.LoggerFromContext(ctx).InfoContext(ctx, "logged out")
	}
}

func (c *controller) Session(id string) (*Session, error) {
	if id == "" {
		return nil, ErrUnauthenticated
	}
	c.sessionsMu.RLock()
	s, ok := c.sessions[id]
	c.sessionsMu.RUnlock()
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

func (c *controller) State(id string) State {
	if _, err := c.Session(id); err != nil {
		return StateLoggedOut
	}
	if c.indexed.Load() {
		return StateIndexed
	}
	return StateUnindexed
}

func (c *controller) Prepare(ctx context.Context, id string) (State, error) {
	if _, err := c.Session(id); err != nil {
		return StateLoggedOut, err
	}
	if c.indexed.Load() {
		return StateIndexed, nil
	}

	c.buildMu.Lock()
	defer c.buildMu.Unlock()

	// Another request may have finished the build while we waited.
	if c.indexed.Load() {
		return StateIndexed, nil
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "building index")

	result, err := c.builder.Build(ctx)
	if err != nil {
		err = classifyBuildError(err)
		c.statusMu.Lock()
		c.status.LastError = err.Error()
		c.statusMu.Unlock()
		if errors.Is(err, ErrNoDocuments) {
			logger.WarnContext(ctx, "no documents to index", "error", err)
		} else {
			logger.ErrorContext(ctx, "index build failed", "error", err)
		}
		return StateUnindexed, err
	}

	c.statusMu.Lock()
	c.status = IndexStatus{
		Built:     true,
		Documents: slices.Clone(result.Documents),
		Segments:  result.Segments,
		BuiltAt:   c.now(),
		Duration:  result.Duration,
		Stats:     result.Stats,
	}
	c.statusMu.Unlock()
	c.indexed.Store(true)

	return StateIndexed, nil
}

func (c *controller) Ask(ctx context.Context, id, question string) (rag.AskResponse, error) {
	s, err := c.Session(id)
	if err != nil {
		return rag.AskResponse{}, err
	}
	if !c.indexed.Load() {
		return rag.AskResponse{}, ErrNotIndexed
	}

	s.ask.Lock()
	defer s.ask.Unlock()

	resp, err := c.answerer.Ask(ctx, rag.AskRequest{Question: question})
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrEmptyQuestion):
			return rag.AskResponse{}, &ValidationError{Field: "question", Message: "cannot be empty"}
		case errors.Is(err, llm.ErrServiceFailure):
			return rag.AskResponse{}, fmt.Errorf("%w: %w", ErrExternalService, err)
		default:
			return rag.AskResponse{}, WrapError(err, "failed to answer question")
		}
	}
	return resp, nil
}

func (c *controller) Status(ctx context.Context) IndexStatus {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	st := c.status
	st.Documents = slices.Clone(st.Documents)
	return st
}

// classifyBuildError maps build failures onto the service error taxonomy,
// keeping the original error in the chain.
func classifyBuildError(err error) error {
	var perr *loader.ParseError
	switch {
	case errors.Is(err, loader.ErrNoDocuments), errors.Is(err, indexer.ErrEmptyIndex):
		return fmt.Errorf("%w: %w", ErrNoDocuments, err)
	case errors.As(err, &perr):
		return fmt.Errorf("%w: %w", ErrDocumentParse, err)
	case errors.Is(err, llm.ErrServiceFailure):
		return fmt.Errorf("%w: %w", ErrExternalService, err)
	default:
		return WrapError(err, "failed to build index")
	}
}
