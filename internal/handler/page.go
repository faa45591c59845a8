package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-seat-picker/internal/middleware"
    "github.com/iliyamo/cinema-seat-picker/internal/model"
    "github.com/iliyamo/cinema-seat-picker/internal/page"
    "github.com/iliyamo/cinema-seat-picker/internal/purchase"
    "github.com/iliyamo/cinema-seat-picker/internal/seating"
    "github.com/iliyamo/cinema-seat-picker/internal/session"
    "github.com/iliyamo/cinema-seat-picker/internal/utils"
)

// PageHandler serves the seat-selection page and its session API.  Session
// routes assume SessionAuth has stored the session id in the context.
type PageHandler struct {
    Pages        *page.Manager
    Secret       string        // signs session tokens
    TTL          time.Duration // idle lifetime; tokens are re-issued before it runs out
    CookieSecure bool
}

// NewPageHandler panics on a nil manager, like the other constructors.
func NewPageHandler(pages *page.Manager, secret string, ttl time.Duration, cookieSecure bool) *PageHandler {
    if pages == nil {
        panic("nil page manager passed to NewPageHandler")
    }
    return &PageHandler{Pages: pages, Secret: secret, TTL: ttl, CookieSecure: cookieSecure}
}

type appearanceReq struct {
    PrefersDark *bool `json:"prefers_dark"`
}

type sessionResp struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
    View    page.View `json:"view"`
}

type pageData struct {
    View      page.View
    RootClass string
}

// prefersDarkHint reads the Sec-CH-Prefers-Color-Scheme client hint.  The
// header value is a structured-field token and may be quoted.
func prefersDarkHint(c echo.Context) bool {
    v := strings.Trim(c.Request().Header.Get("Sec-CH-Prefers-Color-Scheme"), `" `)
    return strings.EqualFold(v, "dark")
}

// mount creates a page and signs its session token.
func (h *PageHandler) mount(ctx context.Context, dark bool) (*page.Page, utils.SessionToken, error) {
    p, err := h.Pages.Mount(ctx, dark)
    if err != nil {
        return nil, utils.SessionToken{}, err
    }
    tok, err := utils.NewSessionToken(h.Secret, p.ID, h.TTL)
    if err != nil {
        _ = h.Pages.Teardown(ctx, p.ID)
        return nil, utils.SessionToken{}, err
    }
    return p, tok, nil
}

// Index handles GET /.  Every load mounts a fresh page, so a reload starts
// with nothing selected.
func (h *PageHandler) Index(c echo.Context) error {
    ctx := c.Request().Context()
    c.Response().Header().Set("Accept-CH", "Sec-CH-Prefers-Color-Scheme")
    c.Response().Header().Set("Vary", "Sec-CH-Prefers-Color-Scheme")

    p, tok, err := h.mount(ctx, prefersDarkHint(c))
    if err != nil {
        c.Logger().Errorf("mount page: %v", err)
        return c.String(http.StatusInternalServerError, "failed to start session")
    }
    v, err := p.View(ctx)
    if err != nil {
        c.Logger().Errorf("render page %s: %v", p.ID, err)
        return c.String(http.StatusInternalServerError, "failed to render page")
    }
    middleware.SetSessionCookie(c, tok, h.CookieSecure)
    return c.Render(http.StatusOK, "page.html", pageData{View: v, RootClass: p.RootClassAttr()})
}

// Screening handles GET /v1/screening and returns the catalog record in the
// data-file format.
func (h *PageHandler) Screening(c echo.Context) error {
    return c.JSON(http.StatusOK, h.Pages.Screening())
}

// CreateSession handles POST /v1/sessions for API clients.  The body may
// carry {"prefers_dark": bool}; otherwise the client hint header is used.
func (h *PageHandler) CreateSession(c echo.Context) error {
    var req appearanceReq
    if c.Request().ContentLength != 0 {
        if err := c.Bind(&req); err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
        }
    }
    dark := prefersDarkHint(c)
    if req.PrefersDark != nil {
        dark = *req.PrefersDark
    }
    ctx := c.Request().Context()
    p, tok, err := h.mount(ctx, dark)
    if err != nil {
        c.Logger().Errorf("mount page: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start session"})
    }
    v, err := p.View(ctx)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusCreated, sessionResp{Token: tok.Token, Expires: tok.Exp, View: v})
}

// current resolves the page named by the session token.
func (h *PageHandler) current(c echo.Context) (*page.Page, error) {
    return h.Pages.Get(c.Request().Context(), middleware.SessionID(c))
}

// fail maps domain errors to HTTP responses.
func (h *PageHandler) fail(c echo.Context, err error) error {
    switch {
    case errors.Is(err, session.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
    case errors.Is(err, seating.ErrUnknownSeat):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
    default:
        c.Logger().Errorf("session %s: %v", middleware.SessionID(c), err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session store error"})
    }
}

// GetSession handles GET /v1/session.
func (h *PageHandler) GetSession(c echo.Context) error {
    p, err := h.current(c)
    if err != nil {
        return h.fail(c, err)
    }
    v, err := p.View(c.Request().Context())
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, v)
}

// ToggleSeat handles POST /v1/session/seats/:seat/toggle.  Clicking a
// reserved seat is not an error; the response reports changed=false.
func (h *PageHandler) ToggleSeat(c echo.Context) error {
    seat := strings.TrimSpace(c.Param("seat"))
    if seat == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    p, err := h.current(c)
    if err != nil {
        return h.fail(c, err)
    }
    res, err := p.Toggle(c.Request().Context(), model.SeatID(seat))
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// SetAppearance handles PUT /v1/session/appearance, the host's colour-scheme
// change notification.
func (h *PageHandler) SetAppearance(c echo.Context) error {
    var req appearanceReq
    if err := c.Bind(&req); err != nil || req.PrefersDark == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "prefers_dark is required"})
    }
    p, err := h.current(c)
    if err != nil {
        return h.fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"classes": p.SetPreference(*req.PrefersDark)})
}

// ToggleTheme handles POST /v1/session/theme/toggle.
func (h *PageHandler) ToggleTheme(c echo.Context) error {
    p, err := h.current(c)
    if err != nil {
        return h.fail(c, err)
    }
    dark, classes := p.ToggleTheme()
    return c.JSON(http.StatusOK, echo.Map{"dark": dark, "classes": classes})
}

// Purchase handles POST /v1/session/purchase.  A purchase with no seats is a
// business outcome, reported with 422 and the outcome body.
func (h *PageHandler) Purchase(c echo.Context) error {
    p, err := h.current(c)
    if err != nil {
        return h.fail(c, err)
    }
    out, err := p.Confirm(c.Request().Context())
    if err != nil {
        return h.fail(c, err)
    }
    status := http.StatusOK
    if out.Kind == purchase.KindNoSeatsSelected {
        status = http.StatusUnprocessableEntity
    }
    return c.JSON(status, out)
}

// DeleteSession handles DELETE /v1/session, sent when the page unloads.
func (h *PageHandler) DeleteSession(c echo.Context) error {
    if err := h.Pages.Teardown(c.Request().Context(), middleware.SessionID(c)); err != nil {
        return h.fail(c, err)
    }
    c.SetCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1})
    return c.NoContent(http.StatusNoContent)
}
