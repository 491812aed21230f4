// Package useragent classifies User-Agent strings into device, browser and OS.
package useragent

import (
	"fmt"
	"os"
	"strings"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Device types.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	Unknown       = "unknown"
)

// Parser wraps the uap-go parser with device type detection.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// DeviceInfo represents parsed device information
type DeviceInfo struct {
	DeviceType string // mobile, desktop, tablet, bot, unknown
	Browser    string // Chrome, Firefox, Safari, etc.
	OS         string // Windows, iOS, Android, etc.
	Raw        string
}

// NewParser loads regexes from regexFilePath.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file %s: %w", regexFilePath, err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized", zap.String("regexes_file", regexFilePath))
	return &Parser{parser: parser, log: log}, nil
}

// NewDefault uses the regexes bundled with uap-go.
func NewDefault(log *zap.Logger) *Parser {
	return &Parser{parser: uaparser.NewFromSaved(), log: log}
}

// NewWithFallback loads regexFilePath and falls back to the bundled regexes.
func NewWithFallback(regexFilePath string, log *zap.Logger) *Parser {
	if regexFilePath != "" {
		p, err := NewParser(regexFilePath, log)
		if err == nil {
			return p
		}
		log.Warn("using bundled User-Agent regexes", zap.Error(err))
	}
	return NewDefault(log)
}

// ParseUserAgent parses a User-Agent string.
func (p *Parser) ParseUserAgent(userAgent string) *DeviceInfo {
	if userAgent == "" {
		return &DeviceInfo{
			DeviceType: Unknown,
			Browser:    Unknown,
			OS:         Unknown,
		}
	}

	client := p.parser.Parse(userAgent)

	info := &DeviceInfo{
		Browser:    family(client.UserAgent.Family),
		OS:         family(client.Os.Family),
		DeviceType: deviceType(client, userAgent),
		Raw:        userAgent,
	}

	p.log.Debug("parsed User-Agent",
		zap.String("device_type", info.DeviceType),
		zap.String("browser", info.Browser),
		zap.String("os", info.OS),
	)

	return info
}

var (
	botIndicators = []string{
		"Googlebot", "Bingbot", "Slurp", "DuckDuckBot", "Baiduspider",
		"YandexBot", "facebookexternalhit", "Twitterbot", "LinkedInBot",
		"WhatsApp", "Telegram", "SkypeUriPreview", "bot", "crawler",
		"spider", "scraper",
	}
	tabletDevices = []string{"iPad", "Tablet", "Kindle", "Surface"}
	mobileDevices = []string{"iPhone", "Android", "BlackBerry", "Windows Phone", "Mobile", "Phone"}
	mobileOS      = []string{"iOS", "Android", "Windows Phone", "BlackBerry OS", "Firefox OS", "Sailfish OS"}
	desktopOS     = []string{
		"Windows", "Mac OS X", "macOS", "Linux", "Ubuntu",
		"Chrome OS", "FreeBSD", "OpenBSD", "NetBSD",
	}
)

func deviceType(client *uaparser.Client, userAgent string) string {
	if client.Device.Family == "Spider" || containsAny(client.UserAgent.Family, botIndicators) || containsAny(userAgent, botIndicators) {
		return DeviceBot
	}

	if f := client.Device.Family; f != "" && f != "Other" {
		if containsAny(f, tabletDevices) {
			return DeviceTablet
		}
		if containsAny(f, mobileDevices) {
			return DeviceMobile
		}
	}

	osFamily := client.Os.Family
	if containsAny(osFamily, mobileOS) {
		// iPad reports iOS, Android tablets omit "Mobile"
		switch {
		case contains(osFamily, "iOS") && contains(userAgent, "iPad"):
			return DeviceTablet
		case contains(osFamily, "Android") && !contains(userAgent, "Mobile"):
			return DeviceTablet
		}
		return DeviceMobile
	}

	if containsAny(osFamily, desktopOS) {
		return DeviceDesktop
	}
	return Unknown
}

func contains(s, substr string) bool {
	if s == "" || substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if contains(s, sub) {
			return true
		}
	}
	return false
}

func family(s string) string {
	if s == "" || s == "Other" {
		return Unknown
	}
	return s
}
