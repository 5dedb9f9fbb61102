package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PagesController отдаёт оболочку SPA. Содержимое экранов живёт на
// фронте; шлюзу важно лишь, чтобы публичные и закрытые пути
// существовали и проходили через edge-проверку.
type PagesController struct{}

func NewPagesController() *PagesController {
	return &PagesController{}
}

const shellHTML = `<!DOCTYPE html>
<html lang="ru">
<head><meta charset="utf-8"><title>Админка магазина</title></head>
<body><div id="root"></div><script src="/assets/app.js"></script></body>
</html>`

func (ctrl *PagesController) Shell(c echo.Context) error {
	return c.HTML(http.StatusOK, shellHTML)
}
