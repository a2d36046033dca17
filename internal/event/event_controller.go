package event

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/responses"
)

type EventController struct {
	repo    EventRepository
	service *EventService
	config  *config.Config
}

func NewEventController(repo EventRepository, service *EventService, cfg *config.Config) *EventController {
	return &EventController{
		repo:    repo,
		service: service,
		config:  cfg,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Events overlapping the optional window. Bounds are RFC 3339 timestamps or dates.
// @Tags Events
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Success 200 {object} map[string][]Event
// @Failure 400 {object} responses.ErrorResponse
// @Router /events [get]
// @Security BearerAuth
func (ec *EventController) ListEvents(c *gin.Context) {
	from, err := parseBound(c.Query("from"))
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid from: "+err.Error())
		return
	}
	to, err := parseBound(c.Query("to"))
	if err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid to: "+err.Error())
		return
	}
	events, err := ec.repo.ListEvents(from, to)
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve events", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func parseBound(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetEvent godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} map[string]Event
// @Failure 404 {object} responses.ErrorResponse
// @Router /events/{eventId} [get]
// @Security BearerAuth
func (ec *EventController) GetEvent(c *gin.Context) {
	ev, ok := ec.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

// DownloadICS godoc
// @Summary Download an event as iCalendar
// @Tags Events
// @Produce text/calendar
// @Param eventId path string true "Event ID"
// @Success 200 {string} string "VCALENDAR document"
// @Failure 404 {object} responses.ErrorResponse
// @Router /events/{eventId}/ics [get]
// @Security BearerAuth
func (ec *EventController) DownloadICS(c *gin.Context) {
	ev, ok := ec.load(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="event-`+ev.ID+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(FormatICS(ev, time.Now())))
}

func (ec *EventController) load(c *gin.Context) (*Event, bool) {
	ev, err := ec.repo.GetEventByID(c.Param("eventId"))
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve event", err))
		return nil, false
	}
	if ev == nil {
		responses.SendError(c, http.StatusNotFound, msgEventNotFound)
		return nil, false
	}
	return ev, true
}

// CreateEvent godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param event body EventRequest true "Event"
// @Success 201 {object} map[string]Event
// @Failure 400 {object} responses.ErrorResponse
// @Router /admin/events [post]
// @Security BearerAuth
func (ec *EventController) CreateEvent(c *gin.Context) {
	adminID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	ev, err := ec.service.Create(req, adminID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": ev})
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags Events
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param event body EventRequest true "Event"
// @Success 200 {object} map[string]Event
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/events/{eventId} [put]
// @Security BearerAuth
func (ec *EventController) UpdateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	ev, err := ec.service.Update(c.Param("eventId"), req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags Events
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/events/{eventId} [delete]
// @Security BearerAuth
func (ec *EventController) DeleteEvent(c *gin.Context) {
	if err := ec.service.Delete(c.Param("eventId")); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendOK(c)
}

// ConnectCalendar godoc
// @Summary Start the Google Calendar authorization
// @Tags Calendar
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} responses.ErrorResponse "Google Calendar is not configured"
// @Router /admin/calendar/connect [get]
// @Security BearerAuth
func (ec *EventController) ConnectCalendar(c *gin.Context) {
	adminID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	authURL, err := ec.service.ConnectURL(adminID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": authURL})
}

// CalendarCallback godoc
// @Summary Google OAuth redirect target
// @Tags Calendar
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state"
// @Success 302
// @Failure 400 {object} responses.ErrorResponse
// @Router /calendar/callback [get]
func (ec *EventController) CalendarCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		c.Redirect(http.StatusFound, ec.frontendURL("error", reason))
		return
	}
	if err := ec.service.CompleteConnect(c.Request.Context(), c.Query("code"), c.Query("state")); err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.Redirect(http.StatusFound, ec.frontendURL("connected", "1"))
}

func (ec *EventController) frontendURL(key, value string) string {
	base := strings.TrimRight(ec.config.App.FrontendURL, "/")
	return base + "/admin/calendar?" + url.Values{key: {value}}.Encode()
}

// SyncCalendar godoc
// @Summary Import upcoming Google Calendar events
// @Tags Calendar
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse "Google Calendar is not connected"
// @Router /admin/calendar/sync [post]
// @Security BearerAuth
func (ec *EventController) SyncCalendar(c *gin.Context) {
	adminID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	synced, err := ec.service.Sync(c.Request.Context(), adminID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "synced": synced})
}
