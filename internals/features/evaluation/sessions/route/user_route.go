package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	sessionController "checkride_backend/internals/features/evaluation/sessions/controller"
	sessionService "checkride_backend/internals/features/evaluation/sessions/service"
	"checkride_backend/internals/middlewares"
)

/*
User routes: session lifecycle plus per-task feedback.

Final paths:
- POST  /api/u/sessions (rate limited)
- GET   /api/u/sessions
- GET   /api/u/sessions/:id
- PATCH /api/u/sessions/:id
- POST  /api/u/sessions/:id/complete
- PUT   /api/u/sessions/:id/tasks/:taskId/feedback
*/
func SessionUserRoutes(r fiber.Router, db *gorm.DB, lifecycle *sessionService.LifecycleService) {
	sessionCtl := &sessionController.SessionController{DB: db, Service: lifecycle}
	feedbackCtl := &sessionController.TaskFeedbackController{DB: db, Service: lifecycle}

	sessions := r.Group("/sessions")
	sessions.Post("/", middlewares.SessionCreateRateLimiter(), sessionCtl.CreateSession)
	sessions.Get("/", sessionCtl.ListSessions)
	sessions.Get("/:id", sessionCtl.GetSession)
	sessions.Patch("/:id", sessionCtl.UpdateSession)
	sessions.Post("/:id/complete", sessionCtl.CompleteSession)
	sessions.Put("/:id/tasks/:taskId/feedback", feedbackCtl.UpsertTaskFeedback)
}
