package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"
)

// Scenario lists the contracts a standalone node deploys and the
// expectations set on them.
type Scenario struct {
	Contracts []ContractSpec `json:"contracts"`
}

// ContractSpec deploys one contract.
type ContractSpec struct {
	// Name identifies the contract in logs and in sequences.
	Name string `json:"name"`
	// ABI is the path of the contract interface, relative to the scenario file.
	ABI string `json:"abi,omitempty"`
	// ABIJSON is an inline contract interface, used when ABI is empty.
	ABIJSON json.RawMessage `json:"abiJson,omitempty"`

	Expectations []ExpectationSpec `json:"expectations"`
}

// TimesSpec is a cardinality. Exactly wins over Min and Max; a missing Max is unbounded.
type TimesSpec struct {
	Exactly *uint64 `json:"exactly,omitempty"`
	Min     uint64  `json:"min,omitempty"`
	Max     *uint64 `json:"max,omitempty"`
}

// EventSpec is a log emitted by a transaction.
type EventSpec struct {
	// Event is the ABI name of the event; its arguments are packed into topics and data.
	Event string          `json:"event,omitempty"`
	Args  json.RawMessage `json:"args,omitempty"`
	// Topics and Data describe a raw log when Event is empty.
	Topics []string `json:"topics,omitempty"`
	Data   string   `json:"data,omitempty"`
}

// ExpectationSpec is one expectation. At most one of Returns, Revert, Reverts
// and Error may be set; none means zero return values.
type ExpectationSpec struct {
	Method string `json:"method"`
	// Args restricts the expectation to calls with exactly these arguments.
	Args  json.RawMessage `json:"args,omitempty"`
	Times *TimesSpec      `json:"times,omitempty"`
	// Sequence names a sequence shared by every expectation of the scenario using it.
	Sequence string `json:"sequence,omitempty"`

	Returns json.RawMessage `json:"returns,omitempty"`
	Revert  *string         `json:"revert,omitempty"`
	Reverts bool            `json:"reverts,omitempty"`
	Error   *string         `json:"error,omitempty"`

	Confirmations uint64      `json:"confirmations,omitempty"`
	Gas           *uint64     `json:"gas,omitempty"`
	Emits         []EventSpec `json:"emits,omitempty"`

	AllowCalls        *bool `json:"allowCalls,omitempty"`
	AllowTransactions *bool `json:"allowTransactions,omitempty"`
}

// LoadScenario reads a YAML or JSON scenario file and resolves ABI paths
// relative to it.
func LoadScenario(path string) (*Scenario, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read scenario: %w", err)
	}

	s, err := ParseScenario(bz)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range s.Contracts {
		c := &s.Contracts[i]
		if c.ABI == "" {
			continue
		}
		abiPath := c.ABI
		if !filepath.IsAbs(abiPath) {
			abiPath = filepath.Join(dir, abiPath)
		}
		if c.ABIJSON, err = os.ReadFile(abiPath); err != nil {
			return nil, fmt.Errorf("can't read abi of contract %q: %w", c.Name, err)
		}
	}
	return s, nil
}

// ParseScenario parses a YAML or JSON scenario.
func ParseScenario(bz []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(bz, &s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario shape. Values are checked against the ABI when
// the scenario is applied.
func (s *Scenario) Validate() error {
	names := make(map[string]bool, len(s.Contracts))
	for i, c := range s.Contracts {
		if c.Name == "" {
			return fmt.Errorf("contract %d has no name", i)
		}
		if names[c.Name] {
			return fmt.Errorf("contract name %q is used twice", c.Name)
		}
		names[c.Name] = true

		if c.ABI == "" && len(c.ABIJSON) == 0 {
			return fmt.Errorf("contract %q has neither abi nor abiJson", c.Name)
		}
		for j, e := range c.Expectations {
			if err := e.validate(); err != nil {
				return fmt.Errorf("expectation %d of contract %q: %w", j, c.Name, err)
			}
		}
	}
	return nil
}

func (e ExpectationSpec) validate() error {
	if e.Method == "" {
		return fmt.Errorf("method is required")
	}

	responses := 0
	if len(e.Returns) > 0 {
		responses++
	}
	if e.Revert != nil || e.Reverts {
		responses++
	}
	if e.Error != nil {
		responses++
	}
	if responses > 1 {
		return fmt.Errorf("%s sets more than one of returns, revert and error", e.Method)
	}

	if e.Times != nil && e.Times.Exactly == nil && e.Times.Max != nil && *e.Times.Max < e.Times.Min {
		return fmt.Errorf("%s: times max %d is below min %d", e.Method, *e.Times.Max, e.Times.Min)
	}
	for i, ev := range e.Emits {
		if ev.Event == "" && len(ev.Topics) == 0 && ev.Data == "" {
			return fmt.Errorf("%s: log %d is empty", e.Method, i)
		}
	}
	return nil
}

// Values converts a JSON array into Go values accepted by ABI coercion:
// numbers stay exact as json.Number, objects become maps and a non-array
// value is a single value.
func Values(raw json.RawMessage) []any {
	if len(raw) == 0 {
		return nil
	}
	result := gjson.ParseBytes(raw)
	if !result.IsArray() {
		return []any{value(result)}
	}
	items := result.Array()
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = value(item)
	}
	return out
}

func value(r gjson.Result) any {
	switch {
	case r.IsArray():
		items := r.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = value(item)
		}
		return out
	case r.IsObject():
		out := make(map[string]any)
		r.ForEach(func(key, val gjson.Result) bool {
			out[key.String()] = value(val)
			return true
		})
		return out
	}

	switch r.Type {
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.String:
		return r.Str
	case gjson.True:
		return true
	case gjson.False:
		return false
	default:
		return nil
	}
}
