package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pathwatch/internal/adapters/detector"
)

func TestDetectEnvironment_CI(t *testing.T) {
	for _, value := range []string{"true", "1"} {
		t.Run("CI="+value, func(t *testing.T) {
			t.Setenv("CI", value)
			assert.True(t, detector.IsCI())
			assert.Equal(t, detector.FormatJSON, detector.DetectEnvironment())
		})
	}
}

func TestIsCI(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "true", want: true},
		{value: "1", want: true},
		{value: "false", want: false},
		{value: "", want: false},
	}

	for _, tt := range tests {
		t.Run("CI="+tt.value, func(t *testing.T) {
			t.Setenv("CI", tt.value)
			assert.Equal(t, tt.want, detector.IsCI())
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.LogFormat
		userFlag     string
		want         detector.LogFormat
	}{
		{name: "auto keeps pretty", autoDetected: detector.FormatPretty, userFlag: "auto", want: detector.FormatPretty},
		{name: "auto keeps json", autoDetected: detector.FormatJSON, userFlag: "auto", want: detector.FormatJSON},
		{name: "empty keeps detection", autoDetected: detector.FormatPretty, userFlag: "", want: detector.FormatPretty},
		{name: "json overrides", autoDetected: detector.FormatPretty, userFlag: "json", want: detector.FormatJSON},
		{name: "pretty overrides", autoDetected: detector.FormatJSON, userFlag: "pretty", want: detector.FormatPretty},
		{name: "text is pretty", autoDetected: detector.FormatJSON, userFlag: "text", want: detector.FormatPretty},
		{name: "unknown keeps detection", autoDetected: detector.FormatJSON, userFlag: "xml", want: detector.FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveFormat(tt.autoDetected, tt.userFlag))
		})
	}
}

func TestLogFormat_String(t *testing.T) {
	assert.Equal(t, "auto", detector.FormatAuto.String())
	assert.Equal(t, "pretty", detector.FormatPretty.String())
	assert.Equal(t, "json", detector.FormatJSON.String())
}
