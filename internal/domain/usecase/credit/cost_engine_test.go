package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
)

func TestCostEngine_Compute(t *testing.T) {
	schedule := entity.CostSchedule{
		"llm-block": {
			{
				CostType:   entity.CostTypeRun,
				CostAmount: 5,
				CostFilter: map[string]any{"model": "gpt-4"},
			},
			{
				CostType:   entity.CostTypeRun,
				CostAmount: 1,
				CostFilter: map[string]any{},
			},
		},
		"transcoder-block": {
			{
				CostType:   entity.CostTypeSecond,
				CostAmount: 3,
				CostFilter: map[string]any{},
			},
		},
		"storage-block": {
			{
				CostType:   entity.CostTypeByte,
				CostAmount: 2,
				CostFilter: map[string]any{},
			},
		},
	}
	engine := NewCostEngine(schedule)

	t.Run("should charge flat amount for matching RUN rule", func(t *testing.T) {
		amount, matched := engine.Compute("llm-block", map[string]any{
			"model":       "gpt-4",
			"temperature": 0.2,
		}, 0, 0)

		assert.Equal(t, int64(5), amount)
		assert.Equal(t, map[string]any{"model": "gpt-4"}, matched)
	})

	t.Run("should fall through to next rule when filter does not match", func(t *testing.T) {
		amount, matched := engine.Compute("llm-block", map[string]any{
			"model": "gpt-3.5",
		}, 0, 0)

		// The empty filter matches any input
		assert.Equal(t, int64(1), amount)
		assert.Equal(t, map[string]any{}, matched)
	})

	t.Run("should multiply by run time for SECOND rule, truncating toward zero", func(t *testing.T) {
		amount, _ := engine.Compute("transcoder-block", nil, 0, 2.9)
		assert.Equal(t, int64(8), amount) // 2.9 * 3 = 8.7 -> 8
	})

	t.Run("should multiply by data size for BYTE rule, truncating toward zero", func(t *testing.T) {
		amount, _ := engine.Compute("storage-block", nil, 10.7, 0)
		assert.Equal(t, int64(21), amount) // 10.7 * 2 = 21.4 -> 21
	})

	t.Run("should charge zero for a block without a schedule", func(t *testing.T) {
		amount, matched := engine.Compute("unknown-block", map[string]any{"x": 1}, 100, 100)
		assert.Equal(t, int64(0), amount)
		assert.Nil(t, matched)
	})

	t.Run("should charge zero when no rule matches", func(t *testing.T) {
		strict := NewCostEngine(entity.CostSchedule{
			"llm-block": {
				{
					CostType:   entity.CostTypeRun,
					CostAmount: 5,
					CostFilter: map[string]any{"model": "gpt-4"},
				},
			},
		})

		amount, matched := strict.Compute("llm-block", map[string]any{"model": "gpt-3.5"}, 0, 0)
		assert.Equal(t, int64(0), amount)
		assert.Nil(t, matched)
	})

	t.Run("should match numeric filter values across decoder types", func(t *testing.T) {
		// The schedule decodes from YAML (2 arrives as int), block input
		// decodes from JSON (2 arrives as float64); the rule must still match.
		mixed := NewCostEngine(entity.CostSchedule{
			"llm-block": {
				{
					CostType:   entity.CostTypeRun,
					CostAmount: 30,
					CostFilter: map[string]any{"max_tokens": 2},
				},
			},
		})

		amount, matched := mixed.Compute("llm-block", map[string]any{"max_tokens": float64(2)}, 0, 0)

		assert.Equal(t, int64(30), amount)
		assert.Equal(t, map[string]any{"max_tokens": 2}, matched)
	})

	t.Run("should handle nil schedule", func(t *testing.T) {
		empty := NewCostEngine(nil)
		amount, _ := empty.Compute("anything", nil, 1, 1)
		assert.Equal(t, int64(0), amount)
	})
}

func TestIsCostFilterMatch(t *testing.T) {
	tests := []struct {
		name   string
		filter any
		input  any
		want   bool
	}{
		{
			name:   "subset filter matches larger input",
			filter: map[string]any{"model": "gpt-4"},
			input:  map[string]any{"model": "gpt-4", "temperature": 0.2},
			want:   true,
		},
		{
			name:   "filter rejects different value",
			filter: map[string]any{"model": "gpt-4"},
			input:  map[string]any{"model": "gpt-3.5"},
			want:   false,
		},
		{
			name:   "empty filter matches any input",
			filter: map[string]any{},
			input:  map[string]any{"anything": "goes"},
			want:   true,
		},
		{
			name:   "filter key missing from input fails",
			filter: map[string]any{"model": "gpt-4"},
			input:  map[string]any{},
			want:   false,
		},
		{
			name:   "empty filter value matches absent input key",
			filter: map[string]any{"model": ""},
			input:  map[string]any{},
			want:   true,
		},
		{
			name:   "nil filter value matches empty input value",
			filter: map[string]any{"model": nil},
			input:  map[string]any{"model": ""},
			want:   true,
		},
		{
			name:   "nested filter matches depth-first",
			filter: map[string]any{"options": map[string]any{"cached": true}},
			input:  map[string]any{"options": map[string]any{"cached": true, "retries": 3}},
			want:   true,
		},
		{
			name:   "nested filter rejects mismatch",
			filter: map[string]any{"options": map[string]any{"cached": true}},
			input:  map[string]any{"options": map[string]any{"cached": false}},
			want:   false,
		},
		{
			name:   "int filter value matches equal float64 input value",
			filter: map[string]any{"max_tokens": 2},
			input:  map[string]any{"max_tokens": float64(2)},
			want:   true,
		},
		{
			name:   "int filter value rejects different float64 input value",
			filter: map[string]any{"max_tokens": 2},
			input:  map[string]any{"max_tokens": float64(3)},
			want:   false,
		},
		{
			name:   "int64 filter value matches equal int input value",
			filter: int64(7),
			input:  7,
			want:   true,
		},
		{
			name:   "numeric filter value rejects numeric string",
			filter: map[string]any{"max_tokens": 2},
			input:  map[string]any{"max_tokens": "2"},
			want:   false,
		},
		{
			name:   "scalar filter requires equality",
			filter: "gpt-4",
			input:  "gpt-4",
			want:   true,
		},
		{
			name:   "scalar filter rejects different scalar",
			filter: "gpt-4",
			input:  "gpt-3.5",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCostFilterMatch(tt.filter, tt.input))
		})
	}
}
