package apimodel

// Status is the payload of GET /api/status.
type Status struct {
	Version      string `json:"version"`
	Policy       string `json:"policy"`
	Mode         string `json:"mode"`
	Simulation   bool   `json:"simulation"`
	LatestSample uint16 `json:"latest_sample"`
	Samples      uint64 `json:"samples"`
	Renders      uint64 `json:"renders"`
	Batches      uint64 `json:"batches"`
	UptimeMs     int64  `json:"uptime_ms"`
}
