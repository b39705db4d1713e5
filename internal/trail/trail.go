// Package trail derives deterministic trail conditions from a party's
// position on the calendar and the route. The conditions feed the
// narrative prompt so that weather and terrain stay coherent between
// turns instead of resetting with every model call.
package trail

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Scale factors keep neighboring turns correlated: a week of travel or
// forty-odd miles moves one unit through noise space.
const (
	dayScale      = 7.0
	distanceScale = 40.0
)

// Map produces condition descriptors from smooth simplex noise, so the
// same seed, day, and distance always describe the same stretch of trail.
type Map struct {
	noise opensimplex.Noise
}

// New creates a trail map for the given seed.
func New(seed int64) *Map {
	return &Map{noise: opensimplex.NewNormalized(seed)}
}

// Conditions returns a short prose descriptor for the party's current
// stretch of trail. Values come from normalized noise in [0, 1].
func (m *Map) Conditions(day, distance int) string {
	v := m.noise.Eval2(float64(distance)/distanceScale, float64(day)/dayScale)
	switch {
	case v < 0.2:
		return "Storms have swollen the rivers and the crossings are treacherous"
	case v < 0.4:
		return "Rain has turned the trail to mud and the wagons sink to their axles"
	case v < 0.6:
		return "The trail is rough but passable"
	case v < 0.8:
		return "The weather holds and the trail is dry"
	default:
		return "Clear skies over hard-packed ground, good miles to be made"
	}
}
