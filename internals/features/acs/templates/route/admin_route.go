package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	templateController "checkride_backend/internals/features/acs/templates/controller"
	hierarchyService "checkride_backend/internals/features/acs/hierarchy/service"
)

/*
Admin routes: full CRUD over the template hierarchy.
Mounted under /api/a (instructor or admin token).

Final paths:
- /api/a/templates ...
- /api/a/areas ...
- /api/a/tasks ... (+ /api/a/tasks/:taskId/elements list)
- /api/a/elements ...
*/
func TemplateAdminRoutes(r fiber.Router, db *gorm.DB, hier *hierarchyService.HierarchyService) {
	templateCtl := &templateController.TemplateController{DB: db}
	areaCtl := &templateController.AreaController{DB: db, Hierarchy: hier}
	taskCtl := &templateController.TaskController{DB: db, Hierarchy: hier}
	elementCtl := &templateController.ElementController{DB: db, Hierarchy: hier}

	// ---------- TEMPLATES ----------
	templates := r.Group("/templates")
	templates.Post("/", templateCtl.CreateTemplate)
	templates.Get("/", templateCtl.ListTemplates)
	templates.Get("/:id", templateCtl.GetTemplate)
	templates.Patch("/:id", templateCtl.UpdateTemplate)
	templates.Delete("/:id", templateCtl.DeleteTemplate)

	// ---------- AREAS ----------
	areas := r.Group("/areas")
	areas.Post("/", areaCtl.CreateArea)
	areas.Patch("/:id", areaCtl.UpdateArea)
	areas.Delete("/:id", areaCtl.DeleteArea)

	// ---------- TASKS ----------
	tasks := r.Group("/tasks")
	tasks.Post("/", taskCtl.CreateTask)
	tasks.Patch("/:id", taskCtl.UpdateTask)
	tasks.Delete("/:id", taskCtl.DeleteTask)
	tasks.Get("/:taskId/elements", elementCtl.ListElementsByTask)

	// ---------- ELEMENTS ----------
	elements := r.Group("/elements")
	elements.Post("/", elementCtl.CreateElement)
	elements.Patch("/:id", elementCtl.UpdateElement)
	elements.Delete("/:id", elementCtl.DeleteElement)
}
