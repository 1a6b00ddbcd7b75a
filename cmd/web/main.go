// @title           MasterHub API
// @version         1.0
// @description     Маркетплейс услуг: заказы, отклики, чат и отзывы на нескольких языках.
// @BasePath        /api/v1

package main

import (
	"masterhub_backend/internal/app"
	"masterhub_backend/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	// .env не обязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "error", err.Error())
	}
	app.Run()
}
