package abi

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type jsonEntry struct {
	Type            string      `json:"type"`
	Name            string      `json:"name"`
	Inputs          []Component `json:"inputs"`
	Outputs         []Component `json:"outputs"`
	StateMutability string      `json:"stateMutability"`
	Constant        bool        `json:"constant"`
	Payable         bool        `json:"payable"`
}

// ParseJSON loads the callable entries of a compiler-emitted JSON ABI.
// Events and errors are skipped. Entries written before stateMutability
// existed fall back to the legacy constant and payable flags.
func ParseJSON(data []byte) ([]*Function, error) {
	var entries []jsonEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(ErrParse, "json abi: %v", err)
	}

	fns := make([]*Function, 0, len(entries))
	for i, e := range entries {
		kind := FunctionKind(e.Type)
		switch kind {
		case "":
			kind = KindFunction
		case KindFunction, KindConstructor, KindReceive, KindFallback:
		case "event", "error":
			continue
		default:
			return nil, errors.Wrapf(ErrParse, "json abi entry %d: unknown type %q", i, e.Type)
		}
		if kind == KindFunction && !isIdentifier(e.Name) {
			return nil, errors.Wrapf(ErrParse, "json abi entry %d: invalid function name %q", i, e.Name)
		}

		fn := &Function{
			Name:       e.Name,
			Kind:       kind,
			Inputs:     e.Inputs,
			Outputs:    e.Outputs,
			Mutability: jsonMutability(e),
		}
		if kind != KindFunction {
			fn.Name = string(kind)
		}
		for _, list := range [][]Component{fn.Inputs, fn.Outputs} {
			if _, err := NewTupleType(list); err != nil {
				return nil, errors.WithMessagef(err, "json abi entry %d (%s)", i, fn.Name)
			}
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

func jsonMutability(e jsonEntry) Mutability {
	switch Mutability(e.StateMutability) {
	case Pure, View, NonPayable, Payable:
		return Mutability(e.StateMutability)
	}
	switch {
	case e.Payable:
		return Payable
	case e.Constant:
		return View
	}
	return NonPayable
}
