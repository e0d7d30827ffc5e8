package main

import (
	"hangout-api/core/logger"
	"hangout-api/core/server"
)

// @title Hangout API
// @version 1.0
// @description Group scheduling backend: hangouts progress through availability,
// @description suggestion and voting stages toward a decided time slot.

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
