package analysis

// Config holds the engine's policy constants. Zero values are replaced with
// the defaults below, which match the behavior the detectors are tested
// against; override individual fields to tune scoring or proximity rules.
type Config struct {
	// Swing detection window
	SwingLeftBars  int
	SwingRightBars int

	// UseTrendHeuristic switches the structure classifier from the
	// incremental state machine to the simplified 3-point trend window.
	UseTrendHeuristic bool

	// Range position thresholds (percentage of range)
	PremiumThreshold  float64
	DiscountThreshold float64

	// Order block detection
	OrderBlockLookback int     // Candles walked back from a break
	RangeAverageWindow int     // Trailing window for average candle range
	VolumeReference    float64 // Volume that yields the full volume score
	MaxOrderBlocks     int

	// FVG selection
	MaxFVGs int

	// Manipulation zones
	EqualLevelTolerance float64 // Relative price distance for equal highs/lows
	MaxZones            int
	ZoneDanger          int

	// Dynamic target
	MinRiskReward  float64
	MaxRiskReward  float64
	FallbackRR     float64
	TargetMargin   float64 // Safety margin short of the target swing
	StopLossBuffer float64 // Stop distance beyond the zone, in gap sizes

	// POI confluence scoring
	BaseScore              int
	OrderBlockBonus        int
	ClearManipulationBonus int
	ManipulationPenalty    int
	MinConfluenceScore     int
	OrderBlockProximity    float64 // Relative distance OB midpoint to FVG midpoint
	ManipulationProximity  float64 // Relative distance zone to FVG midpoint
	MaxPOIs                int
}

// DefaultConfig returns the engine defaults. These mirror the production
// policy constants and are the values all documented behavior assumes.
func DefaultConfig() Config {
	return Config{
		SwingLeftBars:  5,
		SwingRightBars: 5,

		PremiumThreshold:  60,
		DiscountThreshold: 40,

		OrderBlockLookback: 10,
		RangeAverageWindow: 20,
		VolumeReference:    1_000_000,
		MaxOrderBlocks:     3,

		MaxFVGs: 5,

		EqualLevelTolerance: 0.002,
		MaxZones:            5,
		ZoneDanger:          80,

		MinRiskReward:  2.0,
		MaxRiskReward:  15.0,
		FallbackRR:     3.0,
		TargetMargin:   0.005,
		StopLossBuffer: 0.1,

		BaseScore:              40,
		OrderBlockBonus:        30,
		ClearManipulationBonus: 20,
		ManipulationPenalty:    30,
		MinConfluenceScore:     70,
		OrderBlockProximity:    0.01,
		ManipulationProximity:  0.005,
		MaxPOIs:                5,
	}
}

// withDefaults fills zero-valued fields so a partially populated Config
// behaves like DefaultConfig for the fields left unset.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SwingLeftBars <= 0 {
		c.SwingLeftBars = d.SwingLeftBars
	}
	if c.SwingRightBars <= 0 {
		c.SwingRightBars = d.SwingRightBars
	}
	if c.PremiumThreshold <= 0 {
		c.PremiumThreshold = d.PremiumThreshold
	}
	if c.DiscountThreshold <= 0 {
		c.DiscountThreshold = d.DiscountThreshold
	}
	if c.OrderBlockLookback <= 0 {
		c.OrderBlockLookback = d.OrderBlockLookback
	}
	if c.RangeAverageWindow <= 0 {
		c.RangeAverageWindow = d.RangeAverageWindow
	}
	if c.VolumeReference <= 0 {
		c.VolumeReference = d.VolumeReference
	}
	if c.MaxOrderBlocks <= 0 {
		c.MaxOrderBlocks = d.MaxOrderBlocks
	}
	if c.MaxFVGs <= 0 {
		c.MaxFVGs = d.MaxFVGs
	}
	if c.EqualLevelTolerance <= 0 {
		c.EqualLevelTolerance = d.EqualLevelTolerance
	}
	if c.MaxZones <= 0 {
		c.MaxZones = d.MaxZones
	}
	if c.ZoneDanger <= 0 {
		c.ZoneDanger = d.ZoneDanger
	}
	if c.MinRiskReward <= 0 {
		c.MinRiskReward = d.MinRiskReward
	}
	if c.MaxRiskReward <= 0 {
		c.MaxRiskReward = d.MaxRiskReward
	}
	if c.FallbackRR <= 0 {
		c.FallbackRR = d.FallbackRR
	}
	if c.TargetMargin <= 0 {
		c.TargetMargin = d.TargetMargin
	}
	if c.StopLossBuffer <= 0 {
		c.StopLossBuffer = d.StopLossBuffer
	}
	if c.BaseScore <= 0 {
		c.BaseScore = d.BaseScore
	}
	if c.OrderBlockBonus <= 0 {
		c.OrderBlockBonus = d.OrderBlockBonus
	}
	if c.ClearManipulationBonus <= 0 {
		c.ClearManipulationBonus = d.ClearManipulationBonus
	}
	if c.ManipulationPenalty <= 0 {
		c.ManipulationPenalty = d.ManipulationPenalty
	}
	if c.MinConfluenceScore <= 0 {
		c.MinConfluenceScore = d.MinConfluenceScore
	}
	if c.OrderBlockProximity <= 0 {
		c.OrderBlockProximity = d.OrderBlockProximity
	}
	if c.ManipulationProximity <= 0 {
		c.ManipulationProximity = d.ManipulationProximity
	}
	if c.MaxPOIs <= 0 {
		c.MaxPOIs = d.MaxPOIs
	}
	return c
}
