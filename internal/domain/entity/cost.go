package entity

// CostType determines how a cost rule converts a block invocation into credits
type CostType string

// Cost types
const (
	// CostTypeRun charges a flat amount per run
	CostTypeRun CostType = "RUN"
	// CostTypeSecond charges amount * run time in seconds
	CostTypeSecond CostType = "SECOND"
	// CostTypeByte charges amount * processed data size in bytes
	CostTypeByte CostType = "BYTE"
)

// BlockCost is a single cost rule for a block type. Rules are evaluated in
// order and the first rule whose CostFilter matches the invocation input wins.
type BlockCost struct {
	CostType   CostType       `mapstructure:"cost_type" json:"cost_type"`
	CostAmount int64          `mapstructure:"cost_amount" json:"cost_amount"`
	CostFilter map[string]any `mapstructure:"cost_filter" json:"cost_filter"`
}

// CostSchedule maps a block ID to its ordered list of cost rules.
// A block with no entry is charged nothing.
type CostSchedule map[string][]BlockCost
