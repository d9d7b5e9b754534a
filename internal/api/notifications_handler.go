package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
	"github.com/vladislavdragonenkov/restadmin/internal/view"
)

func (s *server) listNotifications(c *gin.Context) {
	all, err := s.deps.Notifications.List()
	if err != nil {
		writeDomainError(c, err)
		return
	}

	filtered := view.FilterNotifications(all, view.NotificationFilter{
		Status: c.DefaultQuery("status", view.StatusAll),
		Search: c.Query("search"),
	})

	c.JSON(http.StatusOK, gin.H{"notifications": filtered, "total": len(filtered)})
}

func (s *server) createNotification(c *gin.Context) {
	var req createNotificationRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	now := s.now().UTC()
	notification := domain.Notification{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Message:   req.Message,
		Status:    domain.NotificationStatusDraft,
		Audience:  req.Audience,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if notification.Audience == "" {
		notification.Audience = "all"
	}
	if req.ScheduledFor != "" {
		scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_scheduled_for", "msg": err.Error()})
			return
		}
		notification.Status = domain.NotificationStatusScheduled
		notification.ScheduledFor = scheduledFor
	}

	if errs := notification.Validate(); len(errs) > 0 {
		writeDomainError(c, errs[0])
		return
	}

	if err := s.deps.Notifications.Create(notification); err != nil {
		writeDomainError(c, err)
		return
	}
	s.publishNotificationSnapshot()

	c.JSON(http.StatusCreated, notification)
}

func (s *server) getNotification(c *gin.Context) {
	notification, err := s.deps.Notifications.Get(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, notification)
}

// scheduleNotification переводит черновик в scheduled.
// Пустой scheduled_for означает «отправить при ближайшем цикле».
func (s *server) scheduleNotification(c *gin.Context) {
	var req scheduleNotificationRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	notification, err := s.deps.Notifications.Get(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if notification.Status != domain.NotificationStatusDraft {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not_a_draft"})
		return
	}

	if req.ScheduledFor != "" {
		scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_scheduled_for", "msg": err.Error()})
			return
		}
		notification.ScheduledFor = scheduledFor
	} else {
		notification.ScheduledFor = time.Time{}
	}

	notification.Status = domain.NotificationStatusScheduled
	notification.UpdatedAt = s.now().UTC()

	if err := s.deps.Notifications.Save(notification); err != nil {
		writeDomainError(c, err)
		return
	}
	notification.Version++
	s.publishNotificationSnapshot()

	c.JSON(http.StatusOK, notification)
}

func (s *server) publishNotificationSnapshot() {
	if s.deps.NotificationHub == nil {
		return
	}

	notifications, err := s.deps.Notifications.List()
	if err != nil {
		s.logger.WithError(err).Warn("failed to load notifications for stream snapshot")
		s.deps.NotificationHub.Fail(stream.ErrCodeUpstream, "failed to load notifications")
		return
	}
	s.deps.NotificationHub.Publish(notifications)
}
