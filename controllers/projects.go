package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/Saipreetham0/ksp-project-sub001/models"
	"github.com/Saipreetham0/ksp-project-sub001/utils"
)

type ProjectsController struct {
	db *gorm.DB
}

func NewProjectsController(db *gorm.DB) *ProjectsController {
	return &ProjectsController{db: db}
}

func projectView(p models.Project) map[string]interface{} {
	return map[string]interface{}{
		"id":              p.ID,
		"title":           p.Title,
		"description":     p.Description,
		"category":        p.Category,
		"price":           p.Price,
		"price_formatted": utils.FormatINR(utils.ToPaise(p.Price)),
		"delivery_days":   p.Delivery,
		"created_at":      p.CreatedAt,
	}
}

// GET /v1/projects
func (c *ProjectsController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := c.db.Where("status = ?", "Active")
	if category := r.URL.Query().Get("category"); category != "" {
		q = q.Where("category = ?", category)
	}

	var projects []models.Project
	if err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&projects).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to load projects"})
		return
	}

	views := make([]map[string]interface{}, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView(p))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: map[string]interface{}{
		"projects": views,
		"page":     page,
	}})
}

// GET /v1/projects/{id}
func (c *ProjectsController) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var project models.Project
	if err := c.db.Where("id = ? AND status = ?", id, "Active").First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Project not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Something went wrong, please try again"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: projectView(project)})
}
