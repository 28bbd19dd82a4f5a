package endpoints

import (
	"github.com/doracomply/doracomply/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthenticateEndpoint(srv)
	RegisterWhoamiEndpoint(srv)
	RegisterStatusEndpoints(srv)
	RegisterDocumentsEndpoints(srv)
	RegisterIntelligenceEndpoints(srv)
	RegisterVendorsEndpoints(srv)
	RegisterTasksEndpoints(srv)
	RegisterIncidentsEndpoints(srv)
	RegisterWidgetsEndpoints(srv)
	RegisterJobsEndpoints(srv)
}
