package model

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examplanner_backend/internals/helpers/dbtime"
)

func TestExamCalendarModel_BeforeSave(t *testing.T) {
	valid := func() ExamCalendarModel {
		return ExamCalendarModel{
			ExamCalendarName:       "  Parciales   2026-1 ",
			ExamCalendarPeriodType: PeriodP1,
			ExamCalendarStartDate:  dbtime.MustParseDate("2026-04-06"),
			ExamCalendarEndDate:    dbtime.MustParseDate("2026-05-03"),
		}
	}

	t.Run("normalizes the name", func(t *testing.T) {
		m := valid()
		require.NoError(t, m.BeforeSave(nil))
		assert.Equal(t, "Parciales 2026-1", m.ExamCalendarName)
	})

	cases := map[string]func(m *ExamCalendarModel){
		"blank name":      func(m *ExamCalendarModel) { m.ExamCalendarName = "   " },
		"unknown period":  func(m *ExamCalendarModel) { m.ExamCalendarPeriodType = "P9" },
		"inverted window": func(m *ExamCalendarModel) { m.ExamCalendarEndDate = m.ExamCalendarStartDate.AddDays(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := valid()
			mutate(&m)
			var fe *fiber.Error
			require.ErrorAs(t, m.BeforeSave(nil), &fe)
			assert.Equal(t, fiber.StatusBadRequest, fe.Code)
		})
	}
}
