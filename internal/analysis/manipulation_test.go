package analysis

import "testing"

// TestEqualHighsZone verifies two swing highs within tolerance form a zone
func TestEqualHighsZone(t *testing.T) {
	swings := []SwingPoint{
		{Index: 3, Price: 100.0, Type: SwingHigh},
		{Index: 9, Price: 100.1, Type: SwingHigh},
		{Index: 6, Price: 95.0, Type: SwingLow},
	}

	zones := DetectManipulationZones(swings, Config{})

	if len(zones) != 1 {
		t.Fatalf("Expected 1 zone, got %d", len(zones))
	}

	zone := zones[0]
	if zone.Type != EqualHighs {
		t.Errorf("Expected EQUAL_HIGHS, got %s", zone.Type)
	}
	if zone.Price != 100.05 {
		t.Errorf("Expected zone price 100.05, got %f", zone.Price)
	}
	if zone.StartIndex != 3 || zone.EndIndex != 9 {
		t.Errorf("Expected span [3, 9], got [%d, %d]", zone.StartIndex, zone.EndIndex)
	}
	if zone.Danger != 80 {
		t.Errorf("Expected danger 80, got %d", zone.Danger)
	}
}

// TestEqualLowsZone verifies matching swing lows form a zone
func TestEqualLowsZone(t *testing.T) {
	swings := []SwingPoint{
		{Index: 2, Price: 90.00, Type: SwingLow},
		{Index: 8, Price: 90.15, Type: SwingLow},
	}

	zones := DetectManipulationZones(swings, Config{})

	if len(zones) != 1 {
		t.Fatalf("Expected 1 zone, got %d", len(zones))
	}
	if zones[0].Type != EqualLows {
		t.Errorf("Expected EQUAL_LOWS, got %s", zones[0].Type)
	}
}

// TestDistantLevelsNoZone verifies levels outside tolerance produce nothing
func TestDistantLevelsNoZone(t *testing.T) {
	swings := []SwingPoint{
		{Index: 3, Price: 100, Type: SwingHigh},
		{Index: 9, Price: 103, Type: SwingHigh},
		{Index: 2, Price: 90, Type: SwingLow},
		{Index: 8, Price: 93, Type: SwingLow},
	}

	if zones := DetectManipulationZones(swings, Config{}); len(zones) != 0 {
		t.Errorf("Expected no zones, got %d", len(zones))
	}
}

// TestZonesCapped verifies the zone list is bounded
func TestZonesCapped(t *testing.T) {
	// Six highs at virtually the same level: 15 qualifying pairs
	var swings []SwingPoint
	for i := 0; i < 6; i++ {
		swings = append(swings, SwingPoint{
			Index: i * 3,
			Price: 100 + float64(i)*0.01,
			Type:  SwingHigh,
		})
	}

	zones := DetectManipulationZones(swings, Config{})

	if len(zones) != 5 {
		t.Errorf("Expected cap of 5 zones, got %d", len(zones))
	}
}

// TestHighsAndLowsNeverMix verifies a high never pairs with a low
func TestHighsAndLowsNeverMix(t *testing.T) {
	swings := []SwingPoint{
		{Index: 3, Price: 100.0, Type: SwingHigh},
		{Index: 6, Price: 100.05, Type: SwingLow},
	}

	if zones := DetectManipulationZones(swings, Config{}); len(zones) != 0 {
		t.Errorf("Expected no zones across types, got %d", len(zones))
	}
}
