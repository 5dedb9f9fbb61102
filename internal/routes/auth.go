package routes

import (
	"github.com/labstack/echo/v4"

	"shop-admin-gateway/internal/controllers"
)

func runAuthRouter(e *echo.Echo, authCtrl *controllers.AuthController) {
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/reset-password", authCtrl.ResetPassword)
		authGroup.POST("/logout", authCtrl.Logout)
		authGroup.GET("/me", authCtrl.Me)
	}
}
