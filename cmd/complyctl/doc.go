// Package main provides the complyctl CLI for the DORA compliance server.
//
// The server tracks third-party ICT vendors, analyzes uploaded SOC 2 reports,
// and scores the findings against DORA, NIS2, GDPR, and ISO 27001.
//
// # Architecture
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/scoring: DORA pillar/article scoring and the framework registry
//   - pkg/extraction: document analysis pipeline
//   - pkg/export: CSV and HTML report rendering
//   - pkg/encryption: symmetric encryption for data at rest
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Generate a data key for encryption
//	export COMPLY_DATA_KEY="$(complyctl data-key generate)"
//
//	# Run database migrations
//	complyctl db migrate
//
//	# Create the first admin user
//	complyctl user create admin@example.com --org "Example Bank" --role admin
//
//	# Start the server
//	complyctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUDIT_DATABASE_URL: optional separate database for audit messages
//   - COMPLY_DATA_KEY: Base64-encoded 256-bit key for data encryption
//   - COMPLY_CONFIG_PATH: config directory (default: /etc/comply/config)
//   - COMPLY_LOG_LEVEL: log level (debug, info, warn, error)
//   - PORT: server port (default: 8000)
package main
