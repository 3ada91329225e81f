package sophia

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// State is the top-level state of a Controller.
type State int

const (
	StateLoggedOut      State = iota // Initial state; no session.
	StateAuthenticating              // Login request outstanding.
	StateLoggedIn                    // Session established.
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateAuthenticating:
		return "authenticating"
	case StateLoggedIn:
		return "logged_in"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// HistoryPolicy decides what happens to a conversation's messages when
// another conversation is selected.
type HistoryPolicy int

const (
	// HistoryReset discards the log on every switch. Reselecting a
	// conversation shows an empty log.
	HistoryReset HistoryPolicy = iota
	// HistoryRetain keeps one log per conversation and restores it on
	// reselect. Logs still die with the session.
	HistoryRetain
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the sink for failures and transitions. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithIDFunc sets the conversation id generator.
func WithIDFunc(f IDFunc) Option {
	return func(c *Controller) { c.newID = f }
}

// WithRequestIDFunc sets the generator for ChatRequest.ID.
func WithRequestIDFunc(f func() string) Option {
	return func(c *Controller) { c.newRequestID = f }
}

// WithHistoryPolicy sets the per-conversation history policy.
func WithHistoryPolicy(p HistoryPolicy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithOrderedReplies makes overlapping replies land in the order their
// messages were submitted instead of the order they arrive. A failed
// request releases its slot without appending anything.
func WithOrderedReplies() Option {
	return func(c *Controller) { c.ordered = true }
}

// thread is the message state of one conversation.
type thread struct {
	conversation Conversation
	log          *Log
	closed       bool // log discarded; late replies are dropped
	inflight     int

	// Sequencing for ordered replies.
	issued uint64
	next   uint64
	held   map[uint64]ChatResult
}

func newThread(conv Conversation) *thread {
	return &thread{conversation: conv, log: NewLog(), held: make(map[uint64]ChatResult)}
}

// Controller is the session state machine. It owns the Session, the
// conversation Registry and the message logs.
//
// A Controller is not safe for concurrent use. All methods must be called
// from one goroutine, typically the UI event loop. Network work is split
// out: Begin/Submit return a call value whose Do method may run on any
// goroutine, and whose result is fed back with the matching Complete method.
type Controller struct {
	client       ChatClient
	logger       *slog.Logger
	newID        IDFunc
	newRequestID func() string
	policy       HistoryPolicy
	ordered      bool

	state    State
	session  Session
	epoch    uint64 // bumped on every login attempt and logout
	registry *Registry
	active   *thread
	threads  map[string]*thread // HistoryRetain only
}

// NewController returns a logged-out Controller that talks to client.
func NewController(client ChatClient, opts ...Option) *Controller {
	c := &Controller{
		client:       client,
		logger:       slog.New(slog.DiscardHandler),
		newRequestID: uuid.NewString,
		threads:      make(map[string]*thread),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.registry = NewRegistry(c.newID)
	return c
}

// State returns the current top-level state.
func (c *Controller) State() State { return c.state }

// Session returns the current session. It is the zero Session unless the
// state is StateLoggedIn.
func (c *Controller) Session() Session { return c.session }

// Conversations returns all conversations in creation order.
func (c *Controller) Conversations() []Conversation { return c.registry.Conversations() }

// Selected returns the selected conversation, if any.
func (c *Controller) Selected() (Conversation, bool) { return c.registry.Selected() }

// Messages returns the active message log. It is empty when no
// conversation is selected.
func (c *Controller) Messages() []Message {
	if c.active == nil {
		return nil
	}
	return c.active.log.Messages()
}

// Awaiting returns how many chat requests of the selected conversation are
// still outstanding.
func (c *Controller) Awaiting() int {
	if c.active == nil {
		return 0
	}
	return c.active.inflight
}

// LoginCall is an outstanding login request.
type LoginCall struct {
	Username string

	epoch  uint64
	client ChatClient
}

// LoginResult is the outcome of LoginCall.Do.
type LoginResult struct {
	Token string
	Err   error

	call *LoginCall
}

// Do performs the network call. It does not touch the Controller.
func (l *LoginCall) Do(ctx context.Context) LoginResult {
	token, err := l.client.Login(ctx, l.Username)
	return LoginResult{Token: token, Err: err, call: l}
}

// BeginLogin moves a logged-out Controller to StateAuthenticating and
// returns the call to run. A username that is blank after trimming is
// ignored, as is a login attempt in any state other than StateLoggedOut;
// in both cases ok is false and no network call must be made.
func (c *Controller) BeginLogin(username string) (call *LoginCall, ok bool) {
	name := strings.TrimSpace(username)
	if name == "" {
		return nil, false
	}
	if c.state != StateLoggedOut {
		c.logger.Debug("login ignored", slog.String("state", c.state.String()))
		return nil, false
	}
	c.epoch++
	c.state = StateAuthenticating
	return &LoginCall{Username: name, epoch: c.epoch, client: c.client}, true
}

// CompleteLogin applies the result of a login call. On success the session
// is established with no conversations. On failure the Controller returns
// to StateLoggedOut, the failure is logged and returned. Results of calls
// superseded by a logout are dropped.
func (c *Controller) CompleteLogin(res LoginResult) error {
	if res.call == nil || res.call.epoch != c.epoch || c.state != StateAuthenticating {
		c.logger.Debug("stale login result dropped")
		return nil
	}
	username := res.call.Username
	if res.Err != nil {
		c.state = StateLoggedOut
		c.logger.Error("login failed", slog.String("username", username), slog.Any("error", res.Err))
		return fmt.Errorf("login: %w", res.Err)
	}
	session, err := NewSession(username, res.Token)
	if err != nil {
		c.state = StateLoggedOut
		c.logger.Error("login returned unusable token", slog.String("username", username), slog.Any("error", err))
		return fmt.Errorf("login: %w: %w", ErrAuth, err)
	}
	c.clearConversations()
	c.session = session
	c.state = StateLoggedIn
	c.logger.Info("logged in", slog.String("username", username))
	return nil
}

// Login runs BeginLogin, the network call and CompleteLogin in sequence.
// Ignored input returns nil.
func (c *Controller) Login(ctx context.Context, username string) error {
	call, ok := c.BeginLogin(username)
	if !ok {
		return nil
	}
	return c.CompleteLogin(call.Do(ctx))
}

// Logout returns the Controller to its initial state, discarding the
// session, every conversation and every log. Replies still in flight are
// dropped when they complete. Logout is idempotent.
func (c *Controller) Logout() {
	if c.state != StateLoggedOut {
		c.logger.Info("logged out", slog.String("username", c.session.Username))
	}
	c.epoch++
	c.clearConversations()
	c.session = Session{}
	c.state = StateLoggedOut
}

func (c *Controller) clearConversations() {
	if c.active != nil {
		c.active.closed = true
	}
	for _, t := range c.threads {
		t.closed = true
	}
	c.active = nil
	c.threads = make(map[string]*thread)
	c.registry.Reset()
}

// CreateConversation appends a new conversation, selects it and starts it
// with an empty log.
func (c *Controller) CreateConversation() (Conversation, error) {
	if c.state != StateLoggedIn {
		return Conversation{}, fmt.Errorf("create conversation: %w", ErrNotLoggedIn)
	}
	conv := c.registry.Create()
	c.activate(conv)
	c.logger.Debug("conversation created", slog.String("id", conv.ID), slog.String("title", conv.Title))
	return conv, nil
}

// SelectConversation makes the conversation with the given id current.
// Selecting the already selected conversation changes nothing; any other
// switch applies the HistoryPolicy.
func (c *Controller) SelectConversation(id string) error {
	if c.state != StateLoggedIn {
		return fmt.Errorf("select conversation: %w", ErrNotLoggedIn)
	}
	if cur, ok := c.registry.Selected(); ok && cur.ID == id {
		return nil
	}
	if err := c.registry.Select(id); err != nil {
		return err
	}
	conv, _ := c.registry.Selected()
	c.activate(conv)
	return nil
}

func (c *Controller) activate(conv Conversation) {
	if c.active != nil && c.policy == HistoryReset {
		c.active.closed = true
	}
	if c.policy == HistoryRetain {
		if t, ok := c.threads[conv.ID]; ok {
			c.active = t
			return
		}
	}
	t := newThread(conv)
	if c.policy == HistoryRetain {
		c.threads[conv.ID] = t
	}
	c.active = t
}

// ChatCall is an outstanding chat request.
type ChatCall struct {
	Request        ChatRequest
	ConversationID string

	epoch  uint64
	seq    uint64
	thread *thread
	client ChatClient
}

// ChatResult is the outcome of ChatCall.Do.
type ChatResult struct {
	Reply string
	Err   error

	call *ChatCall
}

// Do performs the network call. It does not touch the Controller.
func (cc *ChatCall) Do(ctx context.Context) ChatResult {
	reply, err := cc.client.Send(ctx, cc.Request)
	return ChatResult{Reply: reply, Err: err, call: cc}
}

// Submit appends text as a user message to the selected conversation and
// returns the call that fetches the reply. The message is visible
// immediately, whatever happens to the call. Blank text, a missing
// selection or a missing session make Submit a no-op with ok false.
func (c *Controller) Submit(text string) (call *ChatCall, ok bool) {
	if c.state != StateLoggedIn || c.active == nil {
		return nil, false
	}
	t := c.active
	if !t.log.AppendUser(text) {
		return nil, false
	}
	t.inflight++
	seq := t.issued
	t.issued++
	return &ChatCall{
		Request: ChatRequest{
			ID:       c.newRequestID(),
			Message:  text,
			Username: c.session.Username,
			Token:    c.session.Token,
		},
		ConversationID: t.conversation.ID,
		epoch:          c.epoch,
		seq:            seq,
		thread:         t,
		client:         c.client,
	}, true
}

// CompleteChat applies the result of a chat call. A reply is appended as an
// assistant message; a failure appends nothing and is logged and returned.
// Results whose log was discarded by a logout or a switch are dropped.
func (c *Controller) CompleteChat(res ChatResult) error {
	call := res.call
	if call == nil {
		return nil
	}
	t := call.thread
	if call.epoch != c.epoch || t.closed {
		c.logger.Debug("stale reply dropped",
			slog.String("conversation", call.ConversationID),
			slog.String("request_id", call.Request.ID),
		)
		return nil
	}
	t.inflight--
	if res.Err != nil {
		c.logger.Error("chat request failed",
			slog.String("conversation", call.ConversationID),
			slog.String("request_id", call.Request.ID),
			slog.Any("error", res.Err),
		)
	}
	if c.ordered {
		t.held[call.seq] = res
		for {
			r, ok := t.held[t.next]
			if !ok {
				break
			}
			delete(t.held, t.next)
			t.next++
			if r.Err == nil {
				t.log.AppendAssistant(r.Reply)
			}
		}
	} else if res.Err == nil {
		t.log.AppendAssistant(res.Reply)
	}
	if res.Err != nil {
		return fmt.Errorf("send: %w", res.Err)
	}
	return nil
}

// Send runs Submit, the network call and CompleteChat in sequence.
// Ignored input returns nil.
func (c *Controller) Send(ctx context.Context, text string) error {
	call, ok := c.Submit(text)
	if !ok {
		return nil
	}
	return c.CompleteChat(call.Do(ctx))
}
