package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicationString(t *testing.T) {
	tests := []struct {
		name     string
		version  *Application
		expected string
	}{
		{"standard version", &Application{Name: "lux", Major: 1, Minor: 2, Patch: 3}, "lux-1.2.3"},
		{"zero version", &Application{Name: "test", Major: 0, Minor: 0, Patch: 0}, "test-0.0.0"},
		{"large numbers", &Application{Name: "big", Major: 999, Minor: 888, Patch: 777}, "big-999.888.777"},
		{"empty name", &Application{Name: "", Major: 1, Minor: 0, Patch: 0}, "-1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.version.String())
		})
	}
}

func TestApplicationCompatible(t *testing.T) {
	tests := []struct {
		name       string
		v1, v2     *Application
		compatible bool
	}{
		{"same major version", &Application{Major: 1, Minor: 2, Patch: 3}, &Application{Major: 1, Minor: 3, Patch: 0}, true},
		{"different major version", &Application{Major: 1}, &Application{Major: 2}, false},
		{"exact same version", &Application{Major: 3, Minor: 5, Patch: 7}, &Application{Major: 3, Minor: 5, Patch: 7}, true},
		{"different names same major", &Application{Major: 1, Name: "app1"}, &Application{Major: 1, Name: "app2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.compatible, tt.v1.Compatible(tt.v2))
			require.Equal(t, tt.compatible, tt.v2.Compatible(tt.v1))
		})
	}
}

func TestApplicationCompare(t *testing.T) {
	tests := []struct {
		name     string
		v1, v2   *Application
		expected int
	}{
		{"v1 < v2 (major)", &Application{Major: 1}, &Application{Major: 2}, -1},
		{"v1 > v2 (major)", &Application{Major: 3}, &Application{Major: 2}, 1},
		{"v1 < v2 (minor)", &Application{Major: 1, Minor: 2}, &Application{Major: 1, Minor: 3}, -1},
		{"v1 < v2 (patch)", &Application{Major: 1, Minor: 2, Patch: 3}, &Application{Major: 1, Minor: 2, Patch: 4}, -1},
		{"equal versions", &Application{Major: 2, Minor: 5, Patch: 8}, &Application{Major: 2, Minor: 5, Patch: 8}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.v1.Compare(tt.v2))
			require.Equal(t, -tt.expected, tt.v2.Compare(tt.v1))
		})
	}
}

func TestCurrent(t *testing.T) {
	c := Current()
	require.NotNil(t, c)
	require.Equal(t, "elara", c.Name)

	c2 := Current()
	require.Equal(t, c, c2)
}

func TestVersionByteRoundTrip(t *testing.T) {
	b := VersionByte(WireVersion, CryptoSuiteChaCha20Poly1305Ed25519)
	gotVersion, gotSuite := SplitVersionByte(b)
	require.Equal(t, WireVersion, gotVersion)
	require.Equal(t, CryptoSuiteChaCha20Poly1305Ed25519, gotSuite)
}

func TestVersionTransitivity(t *testing.T) {
	v1 := &Application{Major: 1}
	v2 := &Application{Major: 2}
	v3 := &Application{Major: 3}

	require.Equal(t, -1, v1.Compare(v2))
	require.Equal(t, -1, v2.Compare(v3))
	require.Equal(t, -1, v1.Compare(v3))
}
