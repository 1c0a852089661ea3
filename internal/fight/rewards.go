package fight

// Rewards holds the reward granted for each resolution outcome.
type Rewards struct {
	Out           float64 `yaml:"out"`
	Empty         float64 `yaml:"empty"`
	Block         float64 `yaml:"block"`
	BlockAttack   float64 `yaml:"block_attack"`
	Wound         float64 `yaml:"wound"`
	Kill          float64 `yaml:"kill"`
	Death         float64 `yaml:"death"`
	TouchBlocking float64 `yaml:"touch_blocking"`
	TouchEmpty    float64 `yaml:"touch_empty"`
}

// DefaultRewards returns the canonical reward set.
func DefaultRewards() Rewards {
	return Rewards{
		Out:           -25,
		Empty:         -1,
		Block:         -5,
		BlockAttack:   25,
		Wound:         30,
		Kill:          100,
		Death:         -100,
		TouchBlocking: -2,
		TouchEmpty:    -4,
	}
}
