package dedup

const (
	DefaultWindowDays        = 14
	defaultTokenSetThreshold = 88
	defaultPartialThreshold  = 90
	defaultCombinedThreshold = 82
	defaultTokenSortFloor    = 80
	defaultBasicFloor        = 70
	defaultAmountTolerance   = 0.8
	defaultTermOverlapFloor  = 0.3
	defaultKeyTermBoostFloor = 0.5
)

// Config carries the similarity thresholds and the rolling-window length.
// The defaults were calibrated against a labelled set of Indian AI news
// titles; override per deployment rather than editing constants.
type Config struct {
	// TokenSetThreshold gates the token-set classification rules (0-100).
	TokenSetThreshold int
	// PartialThreshold gates the subset-title rule (0-100).
	PartialThreshold int
	// CombinedThreshold is the weighted-average base; the entity-confirmed
	// rule fires at CombinedThreshold+5.
	CombinedThreshold float64
	// TokenSortFloor is the token-sort companion to PartialThreshold.
	TokenSortFloor int
	// BasicFloor is the edit-ratio companion to TokenSetThreshold.
	BasicFloor int
	// WindowDays bounds how far back cross-cycle comparisons look.
	WindowDays int
	// AmountTolerance is the min/max ratio above which two monetary
	// amounts are treated as the same value (rounding slack).
	AmountTolerance float64
	// TermOverlapFloor is the distinguishing-term overlap below which two
	// titles are treated as different subjects.
	TermOverlapFloor float64
	// KeyTermBoostFloor is the key-term overlap ratio above which the
	// scorer grants an overlap boost.
	KeyTermBoostFloor float64
}

func DefaultConfig() Config {
	return Config{
		TokenSetThreshold: defaultTokenSetThreshold,
		PartialThreshold:  defaultPartialThreshold,
		CombinedThreshold: defaultCombinedThreshold,
		TokenSortFloor:    defaultTokenSortFloor,
		BasicFloor:        defaultBasicFloor,
		WindowDays:        DefaultWindowDays,
		AmountTolerance:   defaultAmountTolerance,
		TermOverlapFloor:  defaultTermOverlapFloor,
		KeyTermBoostFloor: defaultKeyTermBoostFloor,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.TokenSetThreshold <= 0 {
		c.TokenSetThreshold = defaults.TokenSetThreshold
	}
	if c.PartialThreshold <= 0 {
		c.PartialThreshold = defaults.PartialThreshold
	}
	if c.CombinedThreshold <= 0 {
		c.CombinedThreshold = defaults.CombinedThreshold
	}
	if c.TokenSortFloor <= 0 {
		c.TokenSortFloor = defaults.TokenSortFloor
	}
	if c.BasicFloor <= 0 {
		c.BasicFloor = defaults.BasicFloor
	}
	if c.WindowDays <= 0 {
		c.WindowDays = defaults.WindowDays
	}
	if c.AmountTolerance <= 0 || c.AmountTolerance >= 1 {
		c.AmountTolerance = defaults.AmountTolerance
	}
	if c.TermOverlapFloor <= 0 || c.TermOverlapFloor >= 1 {
		c.TermOverlapFloor = defaults.TermOverlapFloor
	}
	if c.KeyTermBoostFloor <= 0 || c.KeyTermBoostFloor >= 1 {
		c.KeyTermBoostFloor = defaults.KeyTermBoostFloor
	}
	return c
}
