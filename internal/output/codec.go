package output

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/dmagro/abikit/internal/abi"
)

// SignatureDisplay holds a parsed signature for rendering
type SignatureDisplay struct {
	Function  *abi.Function
	Signature string
	Selector  []byte // nil for constructors and receive functions
}

type paramJSON struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Canonical string `json:"canonical"`
	Dynamic   bool   `json:"dynamic"`
}

// RenderSignature outputs the parsed function and its parameter tables
func RenderSignature(w io.Writer, sd *SignatureDisplay, format string) error {
	inputs, err := describeParams(sd.Function.Inputs)
	if err != nil {
		return err
	}
	outputs, err := describeParams(sd.Function.Outputs)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		return writeJSON(w, map[string]interface{}{
			"name":       sd.Function.Name,
			"kind":       sd.Function.Kind,
			"mutability": sd.Function.Mutability,
			"signature":  sd.Signature,
			"selector":   hexOrEmpty(sd.Selector),
			"inputs":     inputs,
			"outputs":    outputs,
		})
	}

	renderHeading(w, sd.Function.String())
	renderField(w, "Kind", string(sd.Function.Kind))
	renderField(w, "Mutability", string(sd.Function.Mutability))
	renderField(w, "Signature", sd.Signature)
	if sd.Selector != nil {
		renderField(w, "Selector", green(hexOrEmpty(sd.Selector)))
	}
	renderParams(w, "Inputs", inputs)
	renderParams(w, "Outputs", outputs)
	fmt.Fprintln(w)
	return nil
}

func describeParams(cs []abi.Component) ([]paramJSON, error) {
	params := make([]paramJSON, len(cs))
	for i, c := range cs {
		t, err := c.Resolve()
		if err != nil {
			return nil, err
		}
		params[i] = paramJSON{Name: c.Name, Type: c.Type, Canonical: t.String(), Dynamic: t.IsDynamic()}
	}
	return params, nil
}

func renderParams(w io.Writer, title string, params []paramJSON) {
	fmt.Fprintln(w)
	if len(params) == 0 {
		fmt.Fprintf(w, "%s %s\n", bold(title), dim("(none)"))
		return
	}
	fmt.Fprintln(w, bold(title))
	tbl := newTable(w, "#", "Name", "Type", "Canonical", "Dynamic")
	for i, p := range params {
		tbl.AddRow(i, p.Name, p.Type, p.Canonical, yesNo(p.Dynamic))
	}
	tbl.Print()
}

// EncodedDisplay holds calldata or an encoded argument list
type EncodedDisplay struct {
	Signature string
	Selector  []byte // nil when the data carries no selector
	Data      []byte
}

// RenderEncoded outputs encoded bytes, one 32-byte word per line on terminals
func RenderEncoded(w io.Writer, ed *EncodedDisplay, format string) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]interface{}{
			"signature": ed.Signature,
			"selector":  hexOrEmpty(ed.Selector),
			"data":      "0x" + hex.EncodeToString(ed.Data),
			"size":      len(ed.Data),
		})
	}

	renderHeading(w, ed.Signature)
	renderField(w, "Size", fmt.Sprintf("%d bytes", len(ed.Data)))
	fmt.Fprintln(w)
	for i, line := range wrapHex(ed.Data, ed.Selector != nil) {
		if i == 0 {
			line = "0x" + line
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)
	return nil
}

// DecodedDisplay holds decoded values alongside the parameters they belong to
type DecodedDisplay struct {
	Signature string
	Params    []abi.Component
	Values    []interface{}
}

// RenderDecoded outputs one row per top-level parameter
func RenderDecoded(w io.Writer, dd *DecodedDisplay, format string) error {
	if format == FormatJSON {
		values := make([]map[string]interface{}, len(dd.Values))
		for i, v := range dd.Values {
			values[i] = map[string]interface{}{
				"name":  dd.Params[i].Name,
				"type":  dd.Params[i].Type,
				"value": Normalize(v),
			}
		}
		return writeJSON(w, map[string]interface{}{
			"signature": dd.Signature,
			"values":    values,
		})
	}

	renderHeading(w, dd.Signature)
	if len(dd.Values) == 0 {
		fmt.Fprintln(w, dim("  (no values)"))
		fmt.Fprintln(w)
		return nil
	}
	tbl := newTable(w, "#", "Name", "Type", "Value")
	for i, v := range dd.Values {
		tbl.AddRow(i, dd.Params[i].Name, dd.Params[i].Type, FormatValue(v))
	}
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}

// AddressDisplay holds the outcome of a checksum or validation command
type AddressDisplay struct {
	Input    string
	Checksum string
	Valid    bool
	Lenient  bool
}

// RenderAddress outputs an address check
func RenderAddress(w io.Writer, ad *AddressDisplay, format string) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]interface{}{
			"input":    ad.Input,
			"checksum": ad.Checksum,
			"valid":    ad.Valid,
			"lenient":  ad.Lenient,
		})
	}

	fmt.Fprintln(w)
	renderField(w, "Input", ad.Input)
	if ad.Checksum != "" {
		renderField(w, "Checksum", green(ad.Checksum))
	}
	if ad.Valid {
		renderField(w, "Valid", green("✓ valid"))
	} else {
		renderField(w, "Valid", red("✗ invalid"))
	}
	if ad.Lenient {
		renderField(w, "Mode", dim("lenient"))
	}
	fmt.Fprintln(w)
	return nil
}

func hexOrEmpty(b []byte) string {
	if b == nil {
		return ""
	}
	return "0x" + hex.EncodeToString(b)
}
