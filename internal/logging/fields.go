package logging

// Standardized attribute keys. Components attach these so console rendering
// and downstream filtering stay consistent.
const (
	FieldComponent = "component"
	FieldClip      = "clip"
	FieldSource    = "source"
	FieldOutput    = "output"
	FieldCodec     = "codec"
	FieldHWAccel   = "hwaccel"
	FieldAttemptID = "attempt_id"
	FieldEventType = "event_type"
	FieldDuration  = "duration"
)
