package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo is the part of a User-Agent recorded with a lead
type DeviceInfo struct {
	DeviceType string `json:"device_type" db:"device_type"` // mobile, tablet, desktop, bot
	OS         string `json:"os" db:"os"`
	Browser    string `json:"browser" db:"browser"`
}

var tabletMarkers = []string{"ipad", "tablet", "kindle", "sm-t", "nexus 7", "nexus 9", "nexus 10"}

// ParseUserAgent extracts device information from a User-Agent string
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" || userAgent == "Unknown" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)

	info := DeviceInfo{
		DeviceType: deviceType(parser),
		OS:         "Unknown",
		Browser:    "Unknown",
	}

	if os := parser.OSInfo(); os.Name != "" {
		info.OS = strings.TrimSpace(os.Name + " " + os.Version)
	}
	if name, version := parser.Browser(); name != "" {
		info.Browser = strings.TrimSpace(name + " " + version)
	}

	return info
}

func deviceType(parser *ua.UserAgent) string {
	if parser.Bot() {
		return "bot"
	}
	if !parser.Mobile() {
		return "desktop"
	}
	lower := strings.ToLower(parser.UA())
	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return "tablet"
		}
	}
	return "mobile"
}

// String renders the device info as one short line for the dashboard
func (d DeviceInfo) String() string {
	return d.DeviceType + " · " + d.OS + " · " + d.Browser
}
