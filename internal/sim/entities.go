package sim

// Kind tags every drawable entity so a renderer can dispatch on it.
type Kind int

const (
	KindBuilding Kind = iota
	KindWindow
	KindPuddle
	KindHydrant
	KindTruck
	KindHelperTruck
	KindHose
	KindNozzle
	KindFire
	KindMist
	KindWaterDrop
)

func (k Kind) String() string {
	switch k {
	case KindBuilding:
		return "building"
	case KindWindow:
		return "window"
	case KindPuddle:
		return "puddle"
	case KindHydrant:
		return "hydrant"
	case KindTruck:
		return "truck"
	case KindHelperTruck:
		return "helper_truck"
	case KindHose:
		return "hose"
	case KindNozzle:
		return "nozzle"
	case KindFire:
		return "fire"
	case KindMist:
		return "mist"
	case KindWaterDrop:
		return "water_drop"
	default:
		return "unknown"
	}
}

// Entity is anything a level hands to a renderer.
type Entity interface {
	Kind() Kind
}

// TruckStyle is the cosmetic paint scheme of the fire truck.
type TruckStyle int

const (
	TruckClassic TruckStyle = iota
	TruckModern
	TruckVintage
	truckStyleCount
)

func (s TruckStyle) String() string {
	switch s {
	case TruckClassic:
		return "classic"
	case TruckModern:
		return "modern"
	case TruckVintage:
		return "vintage"
	default:
		return "unknown"
	}
}

// Next cycles to the following style.
func (s TruckStyle) Next() TruckStyle {
	return (s + 1) % truckStyleCount
}

// ParseTruckStyle maps a stored name back to a style, defaulting to classic.
func ParseTruckStyle(name string) TruckStyle {
	for s := TruckStyle(0); s < truckStyleCount; s++ {
		if s.String() == name {
			return s
		}
	}
	return TruckClassic
}

// HydrantStyle is the cosmetic colour of the hydrant.
type HydrantStyle int

const (
	HydrantRed HydrantStyle = iota
	HydrantYellow
	hydrantStyleCount
)

func (s HydrantStyle) String() string {
	switch s {
	case HydrantRed:
		return "red"
	case HydrantYellow:
		return "yellow"
	default:
		return "unknown"
	}
}

func (s HydrantStyle) Next() HydrantStyle {
	return (s + 1) % hydrantStyleCount
}

// ParseHydrantStyle maps a stored name back to a style, defaulting to red.
func ParseHydrantStyle(name string) HydrantStyle {
	for s := HydrantStyle(0); s < hydrantStyleCount; s++ {
		if s.String() == name {
			return s
		}
	}
	return HydrantRed
}

// Window is a background window on a building. Col and Row locate it in the
// building's grid; the rectangle is recomputed on every layout pass.
type Window struct {
	Rect
	Col, Row   int
	Lit        bool
	Dynamic    bool // toggles between lit and unlit over time
	NextChange int  // frame of the next toggle
}

func (*Window) Kind() Kind { return KindWindow }

// Building is a static rectangle on which fires burn.
type Building struct {
	Rect
	Cols, Rows int
	Windows    []*Window
}

func (*Building) Kind() Kind { return KindBuilding }

// Truck is the main fire truck with its hose reel and water port.
type Truck struct {
	Rect
	TargetX  float64 // resting X once the entrance finishes
	Style    TruckStyle
	HoseCoil Circle
	Port     Circle

	// Fade is 1 when fully visible; it dips during a style change.
	Fade float64
}

func (*Truck) Kind() Kind { return KindTruck }

// placeRegions derives the hit regions from the current body rectangle.
func (t *Truck) placeRegions() {
	coilR := t.H * 0.24
	if coilR < 18 {
		coilR = 18
	}
	portR := t.H * 0.15
	if portR < 14 {
		portR = 14
	}
	t.HoseCoil = Circle{X: t.X + t.W*0.42, Y: t.Y + t.H*0.55, R: coilR}
	t.Port = Circle{X: t.X + t.W*0.93, Y: t.Y + t.H*0.72, R: portR}
}

// Hydrant is the street hydrant with a side port and a valve on top.
type Hydrant struct {
	Rect
	Style HydrantStyle
	Port  Circle
	Valve Rect
	Open  bool
}

func (*Hydrant) Kind() Kind { return KindHydrant }

func (h *Hydrant) placeRegions() {
	portR := h.W * 0.35
	if portR < 14 {
		portR = 14
	}
	h.Port = Circle{X: h.X, Y: h.Y + h.H*0.55, R: portR}

	vw := h.W * 0.8
	if vw < 28 {
		vw = 28
	}
	vh := h.H * 0.2
	if vh < 18 {
		vh = 18
	}
	h.Valve = Rect{X: h.X + h.W/2 - vw/2, Y: h.Y - vh*0.8, W: vw, H: vh}
}

// Nozzle is the end of the hose held by the firefighter.
type Nozzle struct {
	X, Y            float64
	AimX, AimY      float64
	AttachedToTruck bool
	Spraying        bool
}

func (*Nozzle) Kind() Kind { return KindNozzle }

// Hose holds the visible hose runs for the current stage.
type Hose struct {
	Lines []Line
}

func (*Hose) Kind() Kind { return KindHose }

func (*Fire) Kind() Kind         { return KindFire }
func (*WaterDrop) Kind() Kind    { return KindWaterDrop }
func (*MistParticle) Kind() Kind { return KindMist }
func (*Puddle) Kind() Kind       { return KindPuddle }
func (*HelperTruck) Kind() Kind  { return KindHelperTruck }
