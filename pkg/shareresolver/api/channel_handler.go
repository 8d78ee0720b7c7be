package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/share-resolver/pkg/shareresolver"
)

// ChannelHandler exposes a resolver and its method channel over HTTP
type ChannelHandler struct {
	resolver *shareresolver.Resolver
	client   *http.Client
}

// NewChannelHandler creates a handler. client is used for webhook pushes; nil
// selects the messenger default.
func NewChannelHandler(resolver *shareresolver.Resolver, client *http.Client) *ChannelHandler {
	return &ChannelHandler{
		resolver: resolver,
		client:   client,
	}
}

// Routes returns the router for event and channel endpoints
func (h *ChannelHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/events", h.HandleEvent)
	r.Route("/channels/{channel}", func(r chi.Router) {
		r.Post("/invoke", h.Invoke)
		r.Post("/attach", h.Attach)
		r.Delete("/attach", h.Detach)
	})
	return r
}

// Mount installs the API on r behind the request ID, recovery and body limit
// middleware, then guards such as an API key check. Access logging is left to
// the server the routes are mounted on.
func (h *ChannelHandler) Mount(r chi.Router, maxBodyBytes int64, guards ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(RequestIDMiddleware, RecoveryMiddleware, RequestSizeLimitMiddleware(maxBodyBytes))
		r.Use(guards...)
		r.Mount("/", h.Routes())
	})
}

// EventRequest is an OS open/share event
type EventRequest struct {
	Action string `json:"action"`
	Data   string `json:"data,omitempty"`
	Stream string `json:"stream,omitempty"`
}

// EventResponse reports how an event was handled
type EventResponse struct {
	EventID   string `json:"event_id"`
	Status    string `json:"status"`
	URI       string `json:"uri,omitempty"`
	Path      string `json:"path,omitempty"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// InvokeRequest is a method call from the application layer
type InvokeRequest struct {
	Method    string      `json:"method"`
	Arguments interface{} `json:"arguments,omitempty"`
}

// InvokeResponse carries a method call result; nil encodes as null
type InvokeResponse struct {
	Result interface{} `json:"result"`
}

// AttachRequest registers the application's push callback
type AttachRequest struct {
	CallbackURL string `json:"callback_url"`
}

// AttachResponse reports the channel state after attach or detach
type AttachResponse struct {
	Channel  string `json:"channel"`
	Attached bool   `json:"attached"`
}

// ErrorResponse is returned for failed requests
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Code: code, Message: message})
}

// HandleEvent resolves an inbound event. Ignored and failed events are
// reported in the body with status 200; they are outcomes, not request errors.
func (h *ChannelHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		slog.Error("Failed to decode event", "request_id", RequestIDFromContext(r.Context()), "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	out := h.resolver.Handle(r.Context(), shareresolver.Event{
		Action: shareresolver.ParseAction(req.Action),
		Data:   req.Data,
		Stream: req.Stream,
	})

	resp := EventResponse{
		EventID:   out.EventID.String(),
		Status:    string(out.Status),
		URI:       out.URI,
		Path:      out.Path,
		Delivered: out.Delivered,
	}
	if out.Err != nil {
		resp.Error = out.Err.Error()
	}
	render.JSON(w, r, resp)
}

// channel returns the resolver's channel when the URL names it
func (h *ChannelHandler) channel(w http.ResponseWriter, r *http.Request) (*shareresolver.Channel, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "channel"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_channel", "Invalid channel name")
		return nil, false
	}
	ch := h.resolver.Channel()
	if name != ch.Name() {
		writeError(w, r, http.StatusNotFound, "channel_not_found", "Unknown channel")
		return nil, false
	}
	return ch, true
}

// Invoke serves a method call on the channel
func (h *ChannelHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channel(w, r)
	if !ok {
		return
	}

	var req InvokeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Method == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Method is required")
		return
	}

	result, err := ch.HandleMethodCall(r.Context(), shareresolver.MethodCall{
		Method:    req.Method,
		Arguments: req.Arguments,
	})
	if errors.Is(err, shareresolver.ErrNotImplemented) {
		writeError(w, r, http.StatusNotImplemented, "not_implemented", req.Method)
		return
	}
	if err != nil {
		slog.Error("Method call failed", "request_id", RequestIDFromContext(r.Context()), "channel", ch.Name(), "method", req.Method, "error", err)
		writeError(w, r, http.StatusInternalServerError, "method_failed", "Method call failed")
		return
	}

	render.JSON(w, r, InvokeResponse{Result: result})
}

// Attach registers a webhook as the channel's push target
func (h *ChannelHandler) Attach(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channel(w, r)
	if !ok {
		return
	}

	var req AttachRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	messenger, err := NewWebhookMessenger(req.CallbackURL, h.client)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_callback", err.Error())
		return
	}

	ch.Attach(messenger)
	slog.Info("Consumer attached", "channel", ch.Name(), "callback_url", req.CallbackURL)
	render.JSON(w, r, AttachResponse{Channel: ch.Name(), Attached: ch.Attached()})
}

// Detach removes the channel's push target
func (h *ChannelHandler) Detach(w http.ResponseWriter, r *http.Request) {
	ch, ok := h.channel(w, r)
	if !ok {
		return
	}

	ch.Detach()
	slog.Info("Consumer detached", "channel", ch.Name())
	render.JSON(w, r, AttachResponse{Channel: ch.Name(), Attached: false})
}
