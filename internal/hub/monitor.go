package hub

import (
	"github.com/de-code-ninja/qurio-backend/internal/model"
)

// MonitorService provides methods to gather hub statistics
type MonitorService struct {
	hub *Hub
}

// NewMonitorService creates a new monitor service
func NewMonitorService(hub *Hub) *MonitorService {
	return &MonitorService{hub: hub}
}

// GetStats gathers and returns current hub statistics
func (ms *MonitorService) GetStats() model.MonitorResponse {
	clients := ms.getClientList()
	onlineIDs := ms.hub.presence.Snapshot()

	// Determine overall health status
	status := "healthy"
	if len(clients) == 0 {
		status = "idle"
	}

	return model.MonitorResponse{
		Status: status,
		Connections: model.ConnectionStats{
			TotalConnected: len(clients),
			TotalOnline:    len(onlineIDs),
		},
		OnlineUserIDs: onlineIDs,
		Clients:       clients,
	}
}

// getClientList returns the list of all connected clients. A client with an
// empty user ID is connected but has not announced itself via join yet.
func (ms *MonitorService) getClientList() []model.ClientInfo {
	targets := ms.hub.snapshotClients()

	clients := make([]model.ClientInfo, 0, len(targets))
	for _, c := range targets {
		clients = append(clients, model.ClientInfo{
			ClientID: c.ID,
			UserID:   c.UserID(),
		})
	}

	return clients
}
