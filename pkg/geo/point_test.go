package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/pkg/geo"
)

func TestPointValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		point   geo.Point
		wantErr error
	}{
		{"valid", geo.NewPoint(103.8198, 1.3521), nil},
		{"wrong type", geo.Point{Type: "Polygon", Coordinates: [2]float64{0, 0}}, geo.ErrInvalidType},
		{"missing type", geo.Point{Coordinates: [2]float64{0, 0}}, geo.ErrInvalidType},
		{"longitude too large", geo.NewPoint(181, 0), geo.ErrInvalidCoordinates},
		{"longitude too small", geo.NewPoint(-181, 0), geo.ErrInvalidCoordinates},
		{"latitude too large", geo.NewPoint(0, 91), geo.ErrInvalidCoordinates},
		{"latitude too small", geo.NewPoint(0, -91), geo.ErrInvalidCoordinates},
		{"boundary values", geo.NewPoint(180, -90), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.point.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestHaversine(t *testing.T) {
	t.Parallel()

	t.Run("zero distance", func(t *testing.T) {
		t.Parallel()
		p := geo.NewPoint(103.8198, 1.3521)
		assert.Zero(t, geo.Haversine(p, p))
	})

	t.Run("known distances", func(t *testing.T) {
		t.Parallel()

		// Reference distances from published great-circle calculators.
		tests := []struct {
			name   string
			a, b   geo.Point
			wantKM float64
		}{
			{"paris to london", geo.NewPoint(2.3522, 48.8566), geo.NewPoint(-0.1276, 51.5072), 334.6},
			{"singapore to kuala lumpur", geo.NewPoint(103.8198, 1.3521), geo.NewPoint(101.6869, 3.1390), 316.2},
			{"new york to los angeles", geo.NewPoint(-74.0060, 40.7128), geo.NewPoint(-118.2437, 34.0522), 3935.7},
		}

		for _, tt := range tests {
			got := geo.Haversine(tt.a, tt.b)
			assert.InDelta(t, tt.wantKM, got, tt.wantKM*0.01, tt.name)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		t.Parallel()
		a := geo.NewPoint(2.3522, 48.8566)
		b := geo.NewPoint(-0.1276, 51.5072)
		assert.InDelta(t, geo.Haversine(a, b), geo.Haversine(b, a), 1e-9)
	})
}
