/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
// @title           Launch Gin API
// @version         1.0
// @description     Launch task orchestration API server

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
package main

import "github.com/mautops/launch-gin/cmd"

func main() {
	cmd.Execute()
}
