package main

import (
	"campusmarket/cmd/app"
)

// @title           Campus Market API
// @version         1.0
// @description     Campus services marketplace with realtime messaging.

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        Authorization

func main() {
	app.GetApp().LetsGo()
}
