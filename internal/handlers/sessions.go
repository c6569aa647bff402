package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/feed-service/internal/configurator"
	"github.com/kosarica/feed-service/internal/mapping"
	"github.com/kosarica/feed-service/internal/parsers/xml"
	"github.com/kosarica/feed-service/internal/sampler"
)

// SessionView is the state of a wizard session as shown to the operator
type SessionView struct {
	ID             string                      `json:"id" jsonschema:"required"`
	Filename       string                      `json:"filename,omitempty"`
	Stage          configurator.StageID        `json:"stage" jsonschema:"required"`
	Card           configurator.ConnectionCard `json:"card" jsonschema:"required"`
	Connections    []mapping.Connection        `json:"connections" jsonschema:"required"`
	PendingLeft    string                      `json:"pendingLeft,omitempty"`
	PendingRight   string                      `json:"pendingRight,omitempty"`
	ShowAttributes bool                        `json:"showAttributes"`
	CanAdvance     bool                        `json:"canAdvance"`
	IsLast         bool                        `json:"isLast"`
}

// CreateSessionResponse is returned after a feed upload
type CreateSessionResponse struct {
	SessionView
	Root      string        `json:"root"`
	Inventory xml.Inventory `json:"inventory"`
}

// ConnectRequest selects a left field, a right tag, or both at once
type ConnectRequest struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// ConnectResponse reports the connection formed by a selection, if any
type ConnectResponse struct {
	Connection *mapping.Connection `json:"connection"`
	Session    SessionView         `json:"session"`
}

// ToggleAttributesRequest shows or hides attribute candidates
type ToggleAttributesRequest struct {
	Show bool `json:"show"`
}

// ToggleAttributesResponse reports how many connections were dropped
type ToggleAttributesResponse struct {
	Removed int         `json:"removed"`
	Session SessionView `json:"session"`
}

// DisconnectResponse reports whether a connection was removed
type DisconnectResponse struct {
	Removed bool        `json:"removed"`
	Session SessionView `json:"session"`
}

// CompleteResponse carries the saved mapping and its preview
type CompleteResponse struct {
	Mapping *mapping.Configuration `json:"mapping"`
	Sample  *sampler.FeedSample    `json:"sample"`
}

func viewOf(fs *feedSession) SessionView {
	s := fs.session
	left, right := s.Pending()
	return SessionView{
		ID:             fs.id,
		Filename:       fs.filename,
		Stage:          s.Stage(),
		Card:           s.Card(),
		Connections:    s.Connections(),
		PendingLeft:    left,
		PendingRight:   right,
		ShowAttributes: s.ShowAttributes(),
		CanAdvance:     s.CanAdvance(),
		IsLast:         s.IsLast(),
	}
}

// withSession runs fn on the locked session named by the :id parameter
func (h *Handler) withSession(c *gin.Context, fn func(fs *feedSession) (interface{}, error)) {
	fs, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	fs.mu.Lock()
	body, err := fn(fs)
	fs.mu.Unlock()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

// CreateSession parses an uploaded feed and starts a mapping wizard
// @Summary Start a feed mapping session
// @Description Uploads a foreign XML feed and returns its tag inventory and the first wizard card
// @Tags feeds
// @Accept xml
// @Produce json
// @Param encoding query string false "Feed charset, detected when omitted"
// @Param filename query string false "Original file name for raw uploads"
// @Param url query string false "Fetch the feed from this URL instead of the body"
// @Success 201 {object} CreateSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /internal/feeds/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	content, filename, err := h.readUpload(c)
	if err != nil {
		uploadError(c, err)
		return
	}
	if len(content) == 0 {
		badRequest(c, errors.New("feed is empty"))
		return
	}

	opts := xml.DefaultOptions()
	if enc := c.Query("encoding"); enc != "" {
		opts.Encoding = enc
	}
	parser := xml.NewParser(opts)
	feed, err := parser.Parse(content)
	if err != nil {
		badRequest(c, err)
		return
	}

	session := configurator.NewSession(feed, configurator.SessionOptions{
		Now:             h.Now,
		AttributePrefix: parser.AttributePrefix(),
	})
	id := h.Sessions.Create(session, filename)
	fs, err := h.Sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Logger.Info().
		Str("component", "configurator").
		Str("session_id", id).
		Str("root", feed.Root).
		Int("tags", len(feed.Inventory)).
		Msg("Started mapping session")

	fs.mu.Lock()
	view := viewOf(fs)
	fs.mu.Unlock()
	c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionView: view,
		Root:        feed.Root,
		Inventory:   feed.Inventory,
	})
}

// GetSession returns the current card and connections
// @Summary Get a mapping session
// @Tags feeds
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} ErrorResponse
// @Router /internal/feeds/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	h.withSession(c, func(fs *feedSession) (interface{}, error) {
		return viewOf(fs), nil
	})
}

// DeleteSession discards a session
// @Summary Discard a mapping session
// @Tags feeds
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /internal/feeds/sessions/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.Sessions.Delete(c.Param("id")) {
		respondError(c, ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Connect records a left pick, a right pick, or a complete pair
// @Summary Select connection endpoints
// @Description A pair forms a connection; a single pick waits for its counterpart
// @Tags feeds
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ConnectRequest true "Selection"
// @Success 200 {object} ConnectResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /internal/feeds/sessions/{id}/connections [post]
func (h *Handler) Connect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Left == "" && req.Right == "" {
		badRequest(c, errors.New("left or right is required"))
		return
	}

	h.withSession(c, func(fs *feedSession) (interface{}, error) {
		var conn *mapping.Connection
		var err error
		switch {
		case req.Left != "" && req.Right != "":
			conn, err = fs.session.Connect(req.Left, req.Right)
		case req.Left != "":
			conn, err = fs.session.SelectLeft(req.Left)
		default:
			conn, err = fs.session.SelectRight(req.Right)
		}
		if err != nil {
			return nil, err
		}
		return ConnectResponse{Connection: conn, Session: viewOf(fs)}, nil
	})
}

// Disconnect removes the connection starting at a left field
// @Summary Remove a connection
// @Tags feeds
// @Produce json
// @Param id path string true "Session ID"
// @Param start path string true "Left field id"
// @Success 200 {object} DisconnectResponse
// @Router /internal/feeds/sessions/{id}/connections/{start} [delete]
func (h *Handler) Disconnect(c *gin.Context) {
	h.withSession(c, func(fs *feedSession) (interface{}, error) {
		removed := fs.session.Disconnect(c.Param("start"))
		return DisconnectResponse{Removed: removed, Session: viewOf(fs)}, nil
	})
}

// ToggleAttributes shows or hides attribute candidates. Hiding drops the
// current stage's attribute connections.
// @Summary Toggle attribute candidates
// @Tags feeds
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ToggleAttributesRequest true "Visibility"
// @Success 200 {object} ToggleAttributesResponse
// @Router /internal/feeds/sessions/{id}/attributes [post]
func (h *Handler) ToggleAttributes(c *gin.Context) {
	var req ToggleAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.withSession(c, func(fs *feedSession) (interface{}, error) {
		removed := fs.session.ToggleAttributes(req.Show)
		return ToggleAttributesResponse{Removed: removed, Session: viewOf(fs)}, nil
	})
}

// Next advances to the following card
// @Summary Advance the wizard
// @Tags feeds
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /internal/feeds/sessions/{id}/next [post]
func (h *Handler) Next(c *gin.Context) {
	h.withSession(c, func(fs *feedSession) (interface{}, error) {
		if err := fs.session.Next(); err != nil {
			return nil, err
		}
		return viewOf(fs), nil
	})
}

// Back returns to the previous card
// @Summary Go back in the wizard
// @Tags feeds
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /internal/feeds/sessions/{id}/back [post]
func (h *Handler) Back(c *gin.Context) {
	h.withSession(c, func(fs *feedSession) (interface{}, error) {
		if err := fs.session.Back(); err != nil {
			return nil, err
		}
		return viewOf(fs), nil
	})
}

// Complete compiles the mapping, saves it and previews it on the feed
// @Summary Complete a mapping session
// @Tags feeds
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} CompleteResponse
// @Failure 409 {object} ErrorResponse
// @Router /internal/feeds/sessions/{id}/complete [post]
func (h *Handler) Complete(c *gin.Context) {
	fs, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	n := h.SampleSize
	if n <= 0 {
		n = DefaultSampleSize
	}
	fs.mu.Lock()
	cfg, sample, err := fs.session.CompleteAndSample(n)
	fs.mu.Unlock()
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Mappings.Save(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}

	h.Logger.Info().
		Str("component", "configurator").
		Str("session_id", fs.id).
		Str("mapping_id", cfg.ID).
		Int("warnings", len(sample.Warnings)).
		Msg("Saved mapping")
	c.JSON(http.StatusCreated, CompleteResponse{Mapping: cfg, Sample: sample})
}
