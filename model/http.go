package model

// TargetRecord is a target as it is saved and sent over HTTP.
type TargetRecord struct {
	ID         uint64   `json:"id"`
	X          float32  `json:"x"`
	Y          float32  `json:"y"`
	Tick       uint64   `json:"tick"`
	TickLength uint64   `json:"tick_length"`
	Velocity   Velocity `json:"velocity"`
	Hand       HandType `json:"hand"`
	Behavior   Behavior `json:"behavior"`
	Owner      uint64   `json:"owner,omitempty"`
}

// PathParams mirrors the path builder parameters. Steps > 0 means a fixed
// count, UntilTick > 0 an end time, neither fills the anchor's length.
type PathParams struct {
	Behavior       Behavior `json:"behavior"`
	Velocity       Velocity `json:"velocity"`
	Hand           HandType `json:"hand"`
	IntervalTicks  uint64   `json:"interval_ticks"`
	InitialAngle   float64  `json:"initial_angle"`
	Angle          float64  `json:"angle"`
	AngleIncrement float64  `json:"angle_increment"`
	StepDistance   float64  `json:"step_distance"`
	StepIncrement  float64  `json:"step_increment"`
	Steps          int      `json:"steps,omitempty"`
	UntilTick      uint64   `json:"until_tick,omitempty"`
}

type PathBuilderRecord struct {
	Anchor    uint64     `json:"anchor"`
	Active    bool       `json:"active"`
	Params    PathParams `json:"params"`
	Generated []uint64   `json:"generated"`
}

type ChartSnapshot struct {
	Session  string              `json:"session"`
	Targets  []TargetRecord      `json:"targets"`
	Builders []PathBuilderRecord `json:"builders"`
}

type PlaceTargetRequest struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Tick uint64  `json:"tick"`
}

type UpdateTargetRequest struct {
	X          *float32  `json:"x,omitempty"`
	Y          *float32  `json:"y,omitempty"`
	Tick       *uint64   `json:"tick,omitempty"`
	TickLength *uint64   `json:"tick_length,omitempty"`
	Velocity   *Velocity `json:"velocity,omitempty"`
	Hand       *HandType `json:"hand,omitempty"`
	Behavior   *Behavior `json:"behavior,omitempty"`
}

type SelectionRequest struct {
	Tool     string    `json:"tool,omitempty"`
	Hand     *HandType `json:"hand,omitempty"`
	Velocity *Velocity `json:"velocity,omitempty"`
	Mode     string    `json:"mode,omitempty"`
}

type SelectionResponse struct {
	Tool     string   `json:"tool"`
	Hand     HandType `json:"hand"`
	Velocity Velocity `json:"velocity"`
	Behavior Behavior `json:"behavior"`
	Mode     string   `json:"mode"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
