package controllers

import (
	"errors"
	"html"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	models "github.com/jutlandia/jutlandia-site-go/models"
	store "github.com/jutlandia/jutlandia-site-go/store"
)

// ---------------- PUBLIC LISTING ----------------
func Index(events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		upcoming, err := events.ListUpcoming(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}
		finished, err := events.ListFinished(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		c.HTML(http.StatusOK, "index.html", gin.H{
			"UpcomingEvents": upcoming,
			"FinishedEvents": finished,
		})
	}
}

// ---------------- ADMIN LISTING ----------------
func AdminList(events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := events.ListAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
			return
		}

		c.HTML(http.StatusOK, "admin.html", gin.H{"Events": all})
	}
}

// ---------------- EDIT FORM ----------------
func EditEvent(events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
			return
		}

		ev, err := events.Get(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch event"})
			return
		}

		c.HTML(http.StatusOK, "edit.html", gin.H{"Event": ev})
	}
}

// ---------------- CREATE ----------------
func AddEvent(events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name     string `form:"name"`
			Link     string `form:"link"`
			Date     string `form:"date"`
			Time     string `form:"time"`
			Location string `form:"location"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ev := models.Event{
			Name:     html.EscapeString(input.Name),
			Link:     html.EscapeString(input.Link),
			Date:     html.EscapeString(input.Date) + " " + html.EscapeString(input.Time),
			Location: html.EscapeString(input.Location),
			Over:     false,
		}

		if _, err := events.Create(c.Request.Context(), ev); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
			return
		}

		c.Redirect(http.StatusSeeOther, "/admin")
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ID       int64  `form:"id" binding:"required"`
			Name     string `form:"name"`
			Date     string `form:"date"`
			Location string `form:"location"`
			Link     string `form:"link"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Checkbox semantics: the field being present at all means true.
		_, over := c.GetPostForm("over")

		ev := models.Event{
			ID:       input.ID,
			Name:     html.EscapeString(input.Name),
			Date:     html.EscapeString(input.Date),
			Location: html.EscapeString(input.Location),
			Link:     html.EscapeString(input.Link),
			Over:     over,
		}

		err := events.Update(c.Request.Context(), ev)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
			return
		}

		c.Redirect(http.StatusSeeOther, "/admin")
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(events store.EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Deleting an unknown or missing id is a no-op; the admin page
		// is the answer either way.
		if id, err := strconv.ParseInt(c.Query("id"), 10, 64); err == nil {
			if err := events.Delete(c.Request.Context(), id); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete event"})
				return
			}
		}

		c.Redirect(http.StatusFound, "/admin")
	}
}
