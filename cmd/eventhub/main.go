// Package main is the entry point for the eventhub binary.
package main

import (
	"os"

	"github.com/gdsc/eventhub/internal/cli"
)

//	@title			Eventhub API
//	@version		1.0
//	@description	Event management API with JWT authentication and user/admin roles.
//	@BasePath		/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.

func main() {
	os.Exit(cli.Execute())
}
