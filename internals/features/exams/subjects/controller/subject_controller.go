// internals/features/exams/subjects/controller/subject_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"examplanner_backend/internals/features/exams/store"
	subjectDTO "examplanner_backend/internals/features/exams/subjects/dto"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	helper "examplanner_backend/internals/helpers"
)

const MsgSubjectInUse = "No se puede eliminar la materia porque está siendo utilizada por otros registros."

type SubjectController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Store     store.Store
}

func NewSubjectController(db *gorm.DB, v *validator.Validate) *SubjectController {
	return &SubjectController{DB: db, Validator: v, Store: store.NewGormStore(db)}
}

/* =========================================================
   CREATE
   POST /api/subjects
   ========================================================= */
func (h *SubjectController) CreateSubject(c *fiber.Ctx) error {
	var req subjectDTO.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(&m).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	log.Printf("[INFO] subject created %s (%s)", m.SubjectID, m.SubjectName)
	return helper.JsonCreated(c, "Materia creada", subjectDTO.FromSubjectModel(m))
}

/* =========================================================
   GET BY ID
   GET /api/subjects/:id
   ========================================================= */
func (h *SubjectController) GetSubject(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	m, err := h.Store.GetSubject(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Materia no encontrada")
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", subjectDTO.FromSubjectModel(*m))
}

/* =========================================================
   LIST
   GET /api/subjects?q=&semester_group=&is_heavy=&page=&per_page=
   ========================================================= */
func (h *SubjectController) ListSubjects(c *fiber.Ctx) error {
	var q subjectDTO.ListSubjectQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parámetros de consulta inválidos")
	}
	if err := h.Validator.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}
	paging := helper.ResolvePaging(c, 50, 200)

	tx := h.DB.WithContext(c.UserContext()).Model(&subjectModel.SubjectModel{})
	if q.Q != nil && strings.TrimSpace(*q.Q) != "" {
		kw := "%" + strings.ToLower(helper.NormalizeText(*q.Q)) + "%"
		tx = tx.Where("(LOWER(subject_name) LIKE ? OR LOWER(COALESCE(subject_code, '')) LIKE ?)", kw, kw)
	}
	if q.SemesterGroup != nil {
		tx = tx.Where("subject_semester_group = ?", *q.SemesterGroup)
	}
	if q.IsHeavy != nil {
		tx = tx.Where("subject_is_heavy = ?", *q.IsHeavy)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []subjectModel.SubjectModel
	if err := tx.Order("subject_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", subjectDTO.FromSubjectModels(rows), &pg)
}

/* =========================================================
   UPDATE (partial)
   PATCH /api/subjects/:id
   ========================================================= */
func (h *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req subjectDTO.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	req.Normalize()
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m subjectModel.SubjectModel
	if err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "subject_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Materia no encontrada")
			}
			return err
		}
		req.Apply(&m)
		return tx.Save(&m).Error
	}); err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonUpdated(c, "Materia actualizada", subjectDTO.FromSubjectModel(m))
}

/* =========================================================
   DELETE
   DELETE /api/subjects/:id
   Refused while any event or rule references the subject.
   ========================================================= */
func (h *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	switch err := h.Store.DeleteSubject(c.UserContext(), id); {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Materia no encontrada")
	case errors.Is(err, store.ErrSubjectInUse):
		return helper.JsonError(c, fiber.StatusConflict, MsgSubjectInUse)
	default:
		return helper.FromFiberError(c, err)
	}

	log.Printf("[INFO] subject deleted %s", id)
	return helper.JsonDeleted(c, "Materia eliminada", fiber.Map{"subject_id": id})
}
