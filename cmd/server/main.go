package main

import "crmdesk/internal/app"

// @title                       crmdesk API
// @version                     1.0
// @description                 Customer roster, goal plans and lead capture.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.Run()
}
