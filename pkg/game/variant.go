package game

// VariantKey identifies a chess variant
type VariantKey int

// Supported variants
const (
	Standard VariantKey = iota
	Chess960
	FromPosition
	KingOfTheHill
	ThreeCheck
	Antichess
	Atomic
	Horde
	RacingKings
	Crazyhouse
)

var variantNames = map[VariantKey]string{
	Standard:      "standard",
	Chess960:      "chess960",
	FromPosition:  "fromPosition",
	KingOfTheHill: "kingOfTheHill",
	ThreeCheck:    "threeCheck",
	Antichess:     "antichess",
	Atomic:        "atomic",
	Horde:         "horde",
	RacingKings:   "racingKings",
	Crazyhouse:    "crazyhouse",
}

// ParseVariantKey maps a wire key to a variant. Unknown keys are standard chess.
func ParseVariantKey(s string) VariantKey {
	for k, name := range variantNames {
		if name == s {
			return k
		}
	}

	return Standard
}

func (k VariantKey) String() string {
	if name, ok := variantNames[k]; ok {
		return name
	}

	return variantNames[Standard]
}

// MarshalText encodes the key as its wire name.
func (k VariantKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a wire name.
func (k *VariantKey) UnmarshalText(text []byte) error {
	*k = ParseVariantKey(string(text))
	return nil
}

// ExplosiveCapture reports whether captures explode surrounding pieces.
func (k VariantKey) ExplosiveCapture() bool {
	return k == Atomic
}

// Variant describes the variant a game is played in
type Variant struct {
	Key  VariantKey `json:"key"`
	Name string     `json:"name,omitempty"`
}
