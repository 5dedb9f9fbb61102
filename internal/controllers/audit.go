package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shop-admin-gateway/internal/dto"
	"shop-admin-gateway/internal/entities"
	"shop-admin-gateway/internal/services"
	"shop-admin-gateway/pkg/utils"
)

type AuditController struct {
	auditService services.AuditServiceInterface
	logger       *zap.Logger
}

func NewAuditController(auditService services.AuditServiceInterface, logger *zap.Logger) *AuditController {
	return &AuditController{auditService: auditService, logger: logger}
}

func (ctrl *AuditController) GetEvents(c echo.Context) error {
	filter, format := ctrl.parseFilters(c)

	events, total, err := ctrl.auditService.GetAll(c.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if format == "xlsx" {
		return ctrl.respondWithXLSX(c, events)
	}

	return utils.SuccessResponse(c, events, "Журнал сессий успешно сформирован", http.StatusOK, total)
}

func (ctrl *AuditController) parseFilters(c echo.Context) (dto.AuditFilterDTO, string) {
	filter := dto.AuditFilterDTO{Page: 1, Limit: 50}
	format := strings.ToLower(c.QueryParam("format"))

	if format == "xlsx" {
		// Выгружаем всё для экспорта
		filter.Limit = 100000
	}

	if kind := c.QueryParam("kind"); kind != "" {
		filter.Kind = null.StringFrom(kind)
	}
	if email := c.QueryParam("email"); email != "" {
		filter.Email = null.StringFrom(email)
	}
	if df := c.QueryParam("date_from"); df != "" {
		if t, err := time.Parse(time.RFC3339, df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := c.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			filter.DateTo = &t
		}
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 && format != "xlsx" {
		filter.Limit = limit
	}

	return filter, format
}

var auditHeaders = []interface{}{"ID", "Тип события", "Email", "Роль", "Отпечаток токена", "Время"}

func (ctrl *AuditController) respondWithXLSX(c echo.Context, events []*entities.SessionEvent) error {
	f := excelize.NewFile()
	sheet := "Журнал сессий"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &auditHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "F1", style)

	for i, event := range events {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			event.ID,
			event.Kind,
			event.Email,
			event.Role,
			event.TokenHash,
			event.CreatedAt.Format(time.RFC3339),
		}
		f.SetSheetRow(sheet, cell, &row)
	}

	f.SetColWidth(sheet, "A", "A", 38)
	f.SetColWidth(sheet, "B", "D", 22)
	f.SetColWidth(sheet, "E", "F", 26)

	fileName := fmt.Sprintf("session_events_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response().Writer)
}
