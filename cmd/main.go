package main

import "medresearch/internal/app"

// @title        MedResearch API
// @version      1.0
// @description  Research-data management backend: admin-gated registration, password+TOTP login, patients, projects and data files.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
