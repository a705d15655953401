package credit

import (
	"reflect"

	"github.com/blockforge/credit-ledger/internal/domain/entity"
)

// CostEngine turns a block invocation into a credit amount by matching the
// invocation input against the block's ordered cost rules.
type CostEngine struct {
	schedule entity.CostSchedule
}

// NewCostEngine creates a cost engine over a static cost schedule
func NewCostEngine(schedule entity.CostSchedule) *CostEngine {
	if schedule == nil {
		schedule = entity.CostSchedule{}
	}
	return &CostEngine{schedule: schedule}
}

// Compute returns the charge for a block invocation and the cost filter that
// matched. The first rule whose filter matches the input wins.
//
// A block with no registered schedule and a block whose rules all fail to
// match are both charged zero; neither is an error. The schedule is the only
// registry of chargeable blocks, so "unknown block" and "free block" are
// deliberately the same outcome here.
func (e *CostEngine) Compute(blockID string, inputData map[string]any, dataSize, runTime float64) (int64, map[string]any) {
	for _, rule := range e.schedule[blockID] {
		if !isCostFilterMatch(rule.CostFilter, anyMap(inputData)) {
			continue
		}

		switch rule.CostType {
		case entity.CostTypeRun:
			return rule.CostAmount, rule.CostFilter
		case entity.CostTypeSecond:
			return int64(runTime * float64(rule.CostAmount)), rule.CostFilter
		case entity.CostTypeByte:
			return int64(dataSize * float64(rule.CostAmount)), rule.CostFilter
		}
	}
	return 0, nil
}

// isCostFilterMatch applies structural subset comparison, depth-first.
//
// Rules:
//   - If both sides are mappings, every filter key must either be empty in
//     both the filter and the input, or present (non-empty) in the input and
//     recursively match.
//   - Otherwise the values must be equal, with empty values (nil, "", 0,
//     false, empty collections) all treated as equal to each other.
func isCostFilterMatch(costFilter, input any) bool {
	filterMap, filterIsMap := asMap(costFilter)
	inputMap, inputIsMap := asMap(input)
	if !filterIsMap || !inputIsMap {
		if isEmptyValue(costFilter) && isEmptyValue(input) {
			return true
		}
		// Numbers are compared by value: the schedule decodes from YAML
		// (ints) while block input decodes from JSON (float64), so the
		// same number arrives as two different Go types.
		if filterNum, ok := asFloat(costFilter); ok {
			inputNum, ok := asFloat(input)
			return ok && filterNum == inputNum
		}
		return reflect.DeepEqual(costFilter, input)
	}

	for key, filterValue := range filterMap {
		inputValue := inputMap[key]
		if isEmptyValue(inputValue) && isEmptyValue(filterValue) {
			continue
		}
		if !isEmptyValue(inputValue) && isCostFilterMatch(filterValue, inputValue) {
			continue
		}
		return false
	}
	return true
}

// asMap normalizes the mapping shapes a decoded input can carry
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// anyMap widens a typed map to any, keeping nil maps nil
func anyMap(m map[string]any) any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// asFloat widens any decoded numeric value to float64
func asFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint:
		return float64(value), true
	case uint64:
		return float64(value), true
	case float32:
		return float64(value), true
	case float64:
		return value, true
	default:
		return 0, false
	}
}

// isEmptyValue reports whether a decoded value counts as unset for filter
// matching purposes
func isEmptyValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case bool:
		return !value
	case int:
		return value == 0
	case int64:
		return value == 0
	case float64:
		return value == 0
	case map[string]any:
		return len(value) == 0
	case []any:
		return len(value) == 0
	default:
		return false
	}
}
