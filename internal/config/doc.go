// Package config manages application configuration for the Gatherly API.
//
// Configuration is loaded from environment variables via caarlos0/env and
// validated once at startup, so a misconfigured process fails before it
// accepts traffic.
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: token verification settings shared with the auth collaborator
//   - RealtimeConfig: websocket hub tuning (deadlines, buffer sizes)
//
// # Environment Variables
//
// Key environment variables:
//
//	PORT                   - HTTP server port (default: 8080)
//	SURREAL_HOST           - SurrealDB host
//	SURREAL_PORT           - SurrealDB port
//	SURREAL_USER           - Database username
//	SURREAL_PASSWORD       - Database password (required in production)
//	SURREAL_NAMESPACE      - Database namespace
//	SURREAL_DATABASE       - Database name
//	JWT_SECRET             - HS256 verification secret (required)
//	JWT_ISSUER             - Expected token issuer
//	CORS_ALLOWED_ORIGINS   - Comma-separated list of allowed origins
//	WS_SEND_BUFFER         - Per-client outbound frame buffer
package config
