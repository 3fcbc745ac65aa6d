package model

// -----------------------------------------------------------------
// Monitor API Response Models
// -----------------------------------------------------------------

// MonitorResponse is the main response for the monitor API
type MonitorResponse struct {
	Status        string          `json:"status"` // "healthy" or "idle"
	Connections   ConnectionStats `json:"connections"`
	OnlineUserIDs []string        `json:"onlineUserIds"`
	Clients       []ClientInfo    `json:"clients"`
}

// ConnectionStats holds connection-related statistics
type ConnectionStats struct {
	TotalConnected int `json:"totalConnected"` // sockets currently connected
	TotalOnline    int `json:"totalOnline"`    // identities registered via join
}

// ClientInfo contains information about a connected client
type ClientInfo struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId,omitempty"` // empty until the client joins
}
