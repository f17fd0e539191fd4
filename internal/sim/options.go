package sim

// Settings are the tunables of one fire rescue level.
type Settings struct {
	Width, Height float64

	InitialFires int
	MaxFires     int
	GraceFrames  int  // frames after the entrance before fires appear
	Spread       bool // let mature fires ignite neighbours
	Seed         int64

	TruckStyle   TruckStyle
	HydrantStyle HydrantStyle

	// SkipEntrance parks the truck immediately; used by tests and the
	// headless report.
	SkipEntrance bool
}

// DefaultSettings returns the stock level tuning.
func DefaultSettings() Settings {
	return Settings{
		Width:        1280,
		Height:       720,
		InitialFires: 3,
		MaxFires:     8,
		GraceFrames:  120,
	}
}

// Option is a builder function applied to Settings during construction.
type Option func(*Settings)

// WithCanvasSize sets the playfield dimensions.
func WithCanvasSize(w, h float64) Option {
	return func(s *Settings) {
		s.Width = w
		s.Height = h
	}
}

// WithSeed sets the RNG seed for deterministic runs. Zero keeps the
// context's generator.
func WithSeed(seed int64) Option {
	return func(s *Settings) { s.Seed = seed }
}

// WithFires sets how many fires spawn after the grace period and the
// concurrent cap.
func WithFires(initial, max int) Option {
	return func(s *Settings) {
		s.InitialFires = initial
		s.MaxFires = max
	}
}

// WithGraceFrames sets the quiet period after the entrance.
func WithGraceFrames(n int) Option {
	return func(s *Settings) { s.GraceFrames = n }
}

// WithSpread enables fire spreading.
func WithSpread(on bool) Option {
	return func(s *Settings) { s.Spread = on }
}

// WithStyles picks the cosmetic truck and hydrant styles.
func WithStyles(truck TruckStyle, hydrant HydrantStyle) Option {
	return func(s *Settings) {
		s.TruckStyle = truck
		s.HydrantStyle = hydrant
	}
}

// WithoutEntrance starts the level with the truck already parked.
func WithoutEntrance() Option {
	return func(s *Settings) { s.SkipEntrance = true }
}

// WithSettings replaces all settings at once.
func WithSettings(set Settings) Option {
	return func(s *Settings) { *s = set }
}
