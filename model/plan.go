package model

// Plan holds the commercial speed profile applied to a connection.
// Speeds are router rate strings ("25M", "512k"); burst fields are
// optional and omitted from device requests entirely when empty.
type Plan struct {
	Name string

	UploadSpeed   string
	DownloadSpeed string

	BurstUpload        string
	BurstDownload      string
	BurstThresholdUp   string
	BurstThresholdDown string
	BurstTime          string

	// PPPProfile names the router-side PPP profile for PPPoE access
	// (controls addressing and DNS; speed stays on the queue).
	PPPProfile string
}

// GetPPPProfile returns the profile name or the router default.
func (p *Plan) GetPPPProfile() string {
	if p.PPPProfile == "" {
		return "default"
	}
	return p.PPPProfile
}

// HasBurst reports whether the plan carries burst parameters.
func (p *Plan) HasBurst() bool {
	return p.BurstUpload != "" && p.BurstDownload != ""
}
