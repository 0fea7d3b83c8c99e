// internals/features/exams/rules/controller/rule_controller.go
package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	calendarModel "examplanner_backend/internals/features/exams/calendars/model"
	ruleDTO "examplanner_backend/internals/features/exams/rules/dto"
	ruleModel "examplanner_backend/internals/features/exams/rules/model"
	ruleService "examplanner_backend/internals/features/exams/rules/service"
	subjectModel "examplanner_backend/internals/features/exams/subjects/model"
	helper "examplanner_backend/internals/helpers"
)

type RuleController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewRuleController(db *gorm.DB, v *validator.Validate) *RuleController {
	return &RuleController{DB: db, Validator: v}
}

// checkReferences: the calendar and subjects a rule points at must exist.
func checkReferences(tx *gorm.DB, m ruleModel.RuleModel) (map[string][]string, error) {
	errs := map[string][]string{}
	if m.RuleCalendarID != nil {
		var n int64
		if err := tx.Model(&calendarModel.ExamCalendarModel{}).
			Where("exam_calendar_id = ?", *m.RuleCalendarID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			errs["rule_calendar_id"] = []string{"calendario inexistente"}
		}
	}
	for field, id := range map[string]*uuid.UUID{
		"rule_subject_a_id": m.RuleSubjectAID,
		"rule_subject_b_id": m.RuleSubjectBID,
	} {
		if id == nil {
			continue
		}
		var n int64
		if err := tx.Model(&subjectModel.SubjectModel{}).
			Where("subject_id = ?", *id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			errs[field] = []string{"materia inexistente"}
		}
	}
	return errs, nil
}

type fieldErrors map[string][]string

func (fieldErrors) Error() string { return "validation failed" }

func (h *RuleController) save(c *fiber.Ctx, m *ruleModel.RuleModel, create bool) error {
	if errs := ruleService.Check(*m); len(errs) > 0 {
		return fieldErrors(errs)
	}
	return h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		errs, err := checkReferences(tx, *m)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			return fieldErrors(errs)
		}
		if create {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		} else if err := tx.Omit("Calendar", "SubjectA", "SubjectB").Save(m).Error; err != nil {
			return err
		}
		return tx.Preload("SubjectA").Preload("SubjectB").
			First(m, "rule_id = ?", m.RuleID).Error
	})
}

func writeError(c *fiber.Ctx, err error) error {
	var fe fieldErrors
	if errors.As(err, &fe) {
		return helper.JsonValidationError(c, fe)
	}
	return helper.FromFiberError(c, err)
}

/* =========================================================
   LIST (newest first)
   GET /api/rules?calendar_id=&enabled=&kind=&page=&per_page=
   ========================================================= */
func (h *RuleController) ListRules(c *fiber.Ctx) error {
	var q ruleDTO.ListRuleQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parámetros de consulta inválidos")
	}
	if err := h.Validator.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}
	paging := helper.ResolvePaging(c, 50, 200)

	tx := h.DB.WithContext(c.UserContext()).Model(&ruleModel.RuleModel{})
	if q.CalendarID != nil {
		tx = tx.Where("rule_calendar_id = ?", *q.CalendarID)
	}
	if q.Enabled != nil {
		tx = tx.Where("rule_enabled = ?", *q.Enabled)
	}
	if q.Kind != nil {
		tx = tx.Where("rule_kind = ?", *q.Kind)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	var rows []ruleModel.RuleModel
	if err := tx.Preload("SubjectA").Preload("SubjectB").
		Order("rule_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	pg := helper.BuildPagination(total, paging, len(rows))
	return helper.JsonList(c, "ok", ruleDTO.FromRuleModels(rows), &pg)
}

/* =========================================================
   GET /api/rules/:id
   ========================================================= */
func (h *RuleController) GetRule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var m ruleModel.RuleModel
	if err := h.DB.WithContext(c.UserContext()).
		Preload("SubjectA").Preload("SubjectB").
		First(&m, "rule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Regla no encontrada")
		}
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", ruleDTO.FromRuleModel(m))
}

/* =========================================================
   CREATE
   POST /api/rules
   ========================================================= */
func (h *RuleController) CreateRule(c *fiber.Ctx) error {
	var req ruleDTO.CreateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.save(c, &m, true); err != nil {
		return writeError(c, err)
	}

	log.Printf("[INFO] rule created %s (%s %s)", m.RuleID, m.RuleKind, m.RuleSeverity)
	return helper.JsonCreated(c, "Regla creada", ruleDTO.FromRuleModel(m))
}

/* =========================================================
   UPDATE (partial)
   PATCH /api/rules/:id
   ========================================================= */
func (h *RuleController) UpdateRule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req ruleDTO.UpdateRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Formato de solicitud inválido")
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m ruleModel.RuleModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "rule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Regla no encontrada")
		}
		return helper.FromFiberError(c, err)
	}
	req.Apply(&m)
	if err := h.save(c, &m, false); err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Regla actualizada", ruleDTO.FromRuleModel(m))
}

/* =========================================================
   DELETE /api/rules/:id
   ========================================================= */
func (h *RuleController) DeleteRule(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res := h.DB.WithContext(c.UserContext()).Where("rule_id = ?", id).Delete(&ruleModel.RuleModel{})
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Regla no encontrada")
	}
	return helper.JsonDeleted(c, "Regla eliminada", fiber.Map{"rule_id": id})
}
