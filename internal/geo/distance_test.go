package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	p := Point{Lat: 55.75, Lon: 37.62}
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKmIsSymmetric(t *testing.T) {
	a := Point{Lat: 55.75, Lon: 37.62}
	b := Point{Lat: 59.94, Lon: 30.31}
	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}

func TestDistanceKmKnownPair(t *testing.T) {
	// Moscow to Saint Petersburg is roughly 634 km in a straight line.
	moscow := Point{Lat: 55.7558, Lon: 37.6173}
	spb := Point{Lat: 59.9343, Lon: 30.3351}
	assert.InDelta(t, 634, DistanceKm(moscow, spb), 5)
}

func TestDistanceKmShortHop(t *testing.T) {
	a := Point{Lat: 55.0, Lon: 37.0}
	b := Point{Lat: 55.1, Lon: 37.0}
	// 0.1 degree of latitude is about 11.1 km.
	assert.InDelta(t, 11.1, DistanceKm(a, b), 0.1)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 11.1, RoundKm(11.1234))
	assert.Equal(t, 11.2, RoundKm(11.15))
	assert.Equal(t, 0.0, RoundKm(0.04))
}
