// Package idset implements the FAT-1 non-fungible token ID set algebra: a
// sequence of disjoint singleton IDs and {min,max} ranges that together
// represent the set of token IDs moved by an input or output.
package idset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"fattoken/errs"
)

// Element is one entry of a Set: either a single ID or an inclusive range.
type Element struct {
	single bool
	value  uint64
	min    uint64
	max    uint64
}

// Singleton builds an Element covering exactly one ID.
func Singleton(id uint64) Element {
	return Element{single: true, value: id}
}

// Range builds an Element covering the inclusive range [min, max].
func Range(min, max uint64) Element {
	return Element{min: min, max: max}
}

// IsSingleton reports whether e is a single-ID element.
func (e Element) IsSingleton() bool { return e.single }

// Bounds returns the inclusive [lo, hi] span covered by e.
func (e Element) Bounds() (lo, hi uint64) {
	if e.single {
		return e.value, e.value
	}
	return e.min, e.max
}

func (e Element) MarshalJSON() ([]byte, error) {
	if e.single {
		return json.Marshal(e.value)
	}
	return json.Marshal(struct {
		Min uint64 `json:"min"`
		Max uint64 `json:"max"`
	}{e.min, e.max})
}

func (e *Element) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errs.IdSet(errs.ReasonNonInteger, "empty element")
	}

	if trimmed[0] == '{' {
		var obj map[string]json.Number
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return errs.Wrap(errs.InvalidIdSet, "malformed range element", err)
		}
		if len(obj) != 2 {
			return errs.IdSet(errs.ReasonNonInteger, "range element must have exactly min and max")
		}
		minN, okMin := obj["min"]
		maxN, okMax := obj["max"]
		if !okMin || !okMax {
			return errs.IdSet(errs.ReasonNonInteger, "range element must have exactly min and max")
		}
		min, err := parseNonNegativeInt(minN)
		if err != nil {
			return err
		}
		max, err := parseNonNegativeInt(maxN)
		if err != nil {
			return err
		}
		if min > max {
			return errs.IdSet(errs.ReasonEmptyRange, fmt.Sprintf("range min %d exceeds max %d", min, max))
		}
		*e = Range(min, max)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return errs.IdSet(errs.ReasonNonInteger, "element is neither an integer nor a range object")
	}
	v, err := parseNonNegativeInt(n)
	if err != nil {
		return err
	}
	*e = Singleton(v)
	return nil
}

func parseNonNegativeInt(n json.Number) (uint64, error) {
	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		if _, ferr := n.Float64(); ferr == nil {
			return 0, errs.IdSet(errs.ReasonNonInteger, fmt.Sprintf("%s is not an integer", n.String()))
		}
		return 0, errs.IdSet(errs.ReasonNonInteger, fmt.Sprintf("%s is not a number", n.String()))
	}
	if i < 0 {
		return 0, errs.IdSet(errs.ReasonNegativeBound, fmt.Sprintf("%d is negative", i))
	}
	return uint64(i), nil
}

// Set is an ordered sequence of Elements, interpreted as the union of the
// IDs they cover.
type Set []Element

// UnmarshalJSON rejects any payload that is not a JSON array up front, so a
// malformed "not an array" input surfaces as a typed ReasonNotAnArray error
// rather than a generic decode failure.
func (s *Set) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return errs.IdSet(errs.ReasonNotAnArray, "token ID set must be a JSON array")
	}
	var raw []Element
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		if e, ok := err.(*errs.Error); ok {
			return e
		}
		return errs.Wrap(errs.InvalidIdSet, "malformed token ID set", err)
	}
	*s = raw
	return nil
}

// Validate confirms every element is well-formed and that no two elements'
// covered ranges intersect. Overlap is detected by sorting on lower bound
// (ties broken by larger upper bound first) and sweeping once, O(n log n).
func Validate(s Set) error {
	if s == nil {
		return errs.IdSet(errs.ReasonNotAnArray, "token ID set must be a JSON array")
	}

	sorted := make([]Element, len(s))
	copy(sorted, s)
	sort.Slice(sorted, func(i, j int) bool {
		loI, hiI := sorted[i].Bounds()
		loJ, hiJ := sorted[j].Bounds()
		if loI != loJ {
			return loI < loJ
		}
		return hiI > hiJ
	})

	var prevHi uint64
	havePrev := false
	for _, e := range sorted {
		lo, hi := e.Bounds()
		if lo > hi {
			return errs.IdSet(errs.ReasonEmptyRange, fmt.Sprintf("range min %d exceeds max %d", lo, hi))
		}
		if havePrev && lo <= prevHi {
			return errs.IdSet(errs.ReasonOverlap, fmt.Sprintf("element [%d,%d] overlaps a preceding element ending at %d", lo, hi, prevHi))
		}
		prevHi = hi
		havePrev = true
	}
	return nil
}

// Expand flattens a valid Set into its covered IDs in ascending order.
// Intended only for small sets, e.g. FAT-1 input/output equality checks.
func Expand(s Set) ([]uint64, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	sorted := make([]Element, len(s))
	copy(sorted, s)
	sort.Slice(sorted, func(i, j int) bool {
		loI, _ := sorted[i].Bounds()
		loJ, _ := sorted[j].Bounds()
		return loI < loJ
	})

	var out []uint64
	for _, e := range sorted {
		lo, hi := e.Bounds()
		for id := lo; id <= hi; id++ {
			out = append(out, id)
			if id == math.MaxUint64 {
				break
			}
		}
	}
	return out, nil
}

// Count returns the cardinality of a valid Set without materializing it.
func Count(s Set) (uint64, error) {
	if err := Validate(s); err != nil {
		return 0, err
	}
	var total uint64
	for _, e := range s {
		lo, hi := e.Bounds()
		total += hi - lo + 1
	}
	return total, nil
}

// Reduce returns the canonical minimal-range form of s: sorted by lower
// bound, with adjacent runs coalesced. A set with overlapping elements
// fails Validate and is rejected rather than merged. A run of length one
// is emitted as a singleton, otherwise as a range. Reduce is idempotent:
// Reduce(Reduce(s)) always equals Reduce(s).
func Reduce(s Set) (Set, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return Set{}, nil
	}

	sorted := make([]Element, len(s))
	copy(sorted, s)
	sort.Slice(sorted, func(i, j int) bool {
		loI, _ := sorted[i].Bounds()
		loJ, _ := sorted[j].Bounds()
		return loI < loJ
	})

	var out Set
	lo, hi := sorted[0].Bounds()
	for _, e := range sorted[1:] {
		elo, ehi := e.Bounds()
		adjacent := elo <= hi || (hi != math.MaxUint64 && elo == hi+1)
		if adjacent {
			if ehi > hi {
				hi = ehi
			}
			continue
		}
		out = append(out, coalesce(lo, hi))
		lo, hi = elo, ehi
	}
	out = append(out, coalesce(lo, hi))
	return out, nil
}

func coalesce(lo, hi uint64) Element {
	if lo == hi {
		return Singleton(lo)
	}
	return Range(lo, hi)
}
