package useragent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParser_ParseUserAgent(t *testing.T) {
	p := NewDefault(zap.NewNop())

	tests := []struct {
		name       string
		ua         string
		deviceType string
		browser    string
		os         string
	}{
		{
			name:       "iphone_safari",
			ua:         "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			deviceType: DeviceMobile,
			browser:    "Mobile Safari",
			os:         "iOS",
		},
		{
			name:       "ipad",
			ua:         "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			deviceType: DeviceTablet,
			os:         "iOS",
		},
		{
			name:       "windows_chrome",
			ua:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			deviceType: DeviceDesktop,
			browser:    "Chrome",
			os:         "Windows",
		},
		{
			name:       "googlebot",
			ua:         "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			deviceType: DeviceBot,
		},
		{
			name:       "whatsapp_preview",
			ua:         "WhatsApp/2.23.20.0",
			deviceType: DeviceBot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := p.ParseUserAgent(tt.ua)

			assert.Equal(t, tt.deviceType, info.DeviceType)
			assert.Equal(t, tt.ua, info.Raw)
			if tt.browser != "" {
				assert.Equal(t, tt.browser, info.Browser)
			}
			if tt.os != "" {
				assert.Equal(t, tt.os, info.OS)
			}
		})
	}
}

func TestParser_Empty(t *testing.T) {
	info := NewDefault(zap.NewNop()).ParseUserAgent("")

	assert.Equal(t, &DeviceInfo{DeviceType: Unknown, Browser: Unknown, OS: Unknown}, info)
}

func TestNewParser(t *testing.T) {
	// Test missing regexes file
	t.Run("missing_file", func(t *testing.T) {
		_, err := NewParser(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop())
		assert.Error(t, err)
	})

	// Test fallback to bundled regexes
	t.Run("fallback", func(t *testing.T) {
		p := NewWithFallback(filepath.Join(t.TempDir(), "nope.yaml"), zap.NewNop())
		require.NotNil(t, p)
		assert.Equal(t, DeviceDesktop, p.ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0").DeviceType)
	})

	// Test custom regexes file
	t.Run("custom_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "regexes.yaml")
		regexes := `user_agent_parsers:
  - regex: '(LinkBioTest)/(\d+)'
os_parsers:
  - regex: '(TestOS)'
device_parsers:
  - regex: '(TestPhone)'
`
		require.NoError(t, os.WriteFile(path, []byte(regexes), 0o600))

		p, err := NewParser(path, zap.NewNop())
		require.NoError(t, err)

		info := p.ParseUserAgent("LinkBioTest/1 TestOS")
		assert.Equal(t, "LinkBioTest", info.Browser)
		assert.Equal(t, "TestOS", info.OS)
	})
}
