// Package api provides the MySQL management REST API.
//
//	@title						SQLGate API
//	@version					1.0
//	@description				REST facade for managing MySQL databases, tables, and users
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package api
