// Package vectors runs encoding conformance vectors from a YAML file.
//
// A vector names a function signature and its arguments, and optionally the
// calldata a reference encoder produced for them, return data to decode, or
// the error class the arguments must be rejected with:
//
//	vectors:
//	  - name: erc20 transfer
//	    signature: "transfer(address to, uint256 amount)"
//	    args: ["0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", "1000"]
//	    calldata: "0xa9059cbb..."
//	  - name: uint8 overflow
//	    signature: "f(uint8)"
//	    args: [256]
//	    error: range
//
// Integers that do not fit an int64 must be quoted.
package vectors

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/dmagro/abikit/internal/abi"
	"github.com/dmagro/abikit/internal/stats"
)

type File struct {
	Vectors []Vector `yaml:"vectors"`
}

type Vector struct {
	Name      string        `yaml:"name"`
	Signature string        `yaml:"signature"`
	Args      []interface{} `yaml:"args"`
	Calldata  string        `yaml:"calldata,omitempty"`
	Returns   string        `yaml:"returns,omitempty"`
	Error     string        `yaml:"error,omitempty"`
}

// Result is the outcome of one vector.
type Result struct {
	Name     string `json:"name"`
	Selector string `json:"selector,omitempty"`
	Calldata string `json:"calldata,omitempty"`
	Passed   bool   `json:"passed"`
	Reason   string `json:"reason,omitempty"`

	Duration time.Duration `json:"duration_ns"`
}

type Report struct {
	Results []Result      `json:"results"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Timing  stats.Summary `json:"timing_ns"`
}

// Load reads a vectors file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read vectors")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse vectors")
	}
	for i := range f.Vectors {
		if f.Vectors[i].Signature == "" {
			return nil, errors.Errorf("vector %d (%s): signature is required", i, f.Vectors[i].Name)
		}
		if f.Vectors[i].Name == "" {
			f.Vectors[i].Name = f.Vectors[i].Signature
		}
	}
	return &f, nil
}

type Runner struct {
	log     *zap.Logger
	workers int
}

func NewRunner(l *zap.Logger, workers int) *Runner {
	if l == nil {
		l = zap.NewNop()
	}
	if workers <= 0 {
		workers = 1
	}
	return &Runner{log: l, workers: workers}
}

// Run checks every vector concurrently, at most workers at a time. Results
// keep the input order. A vector failing is not an error; only context
// cancellation stops the run.
func (r *Runner) Run(ctx context.Context, vs []Vector) (*Report, error) {
	results := make([]Result, len(vs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, v := range vs {
		i, v := i, v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res := r.check(v)
			res.Duration = time.Since(start)
			r.log.Debug("vector checked",
				zap.String("name", v.Name),
				zap.Bool("passed", res.Passed),
				zap.String("reason", res.Reason))

			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results}
	durations := make([]time.Duration, len(results))
	for i, res := range results {
		durations[i] = res.Duration
		if res.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
	}
	report.Timing = stats.Summarize(durations)
	return report, nil
}

func (r *Runner) check(v Vector) Result {
	res := Result{Name: v.Name}
	fail := func(format string, args ...interface{}) Result {
		res.Reason = fmt.Sprintf(format, args...)
		return res
	}

	fn, err := abi.ParseSignature(v.Signature)
	if err != nil {
		return r.expectError(res, v, err)
	}
	if fn.Kind != abi.KindConstructor && fn.Kind != abi.KindReceive {
		sel, err := fn.Selector()
		if err != nil {
			return r.expectError(res, v, err)
		}
		res.Selector = "0x" + hex.EncodeToString(sel[:])
	}

	enc := abi.NewEncoder(r.log)
	data, err := enc.EncodeFunctionCall(fn, v.Args...)
	if err != nil {
		return r.expectError(res, v, err)
	}
	res.Calldata = "0x" + hex.EncodeToString(data)
	if v.Error != "" {
		return fail("expected %s error, encoding succeeded", v.Error)
	}

	if v.Calldata != "" {
		want, err := decodeHex(v.Calldata)
		if err != nil {
			return fail("calldata: %v", err)
		}
		if !bytes.Equal(want, data) {
			return fail("calldata mismatch: want %s", strings.ToLower(v.Calldata))
		}
	}

	// Decoding the calldata and encoding it again must reproduce it.
	body := data
	if fn.Kind == abi.KindFunction || fn.Kind == abi.KindFallback {
		body = data[abi.SelectorLength:]
	}
	vals, err := abi.DecodePositional(body, fn.Inputs)
	if err != nil {
		return fail("decode calldata: %v", err)
	}
	again, err := enc.EncodeFunctionCall(fn, vals...)
	if err != nil {
		return fail("re-encode decoded arguments: %v", err)
	}
	if !bytes.Equal(again, data) {
		return fail("round trip mismatch: got 0x%x", again)
	}

	if v.Returns != "" {
		ret, err := decodeHex(v.Returns)
		if err != nil {
			return fail("returns: %v", err)
		}
		outs, err := abi.DecodePositional(ret, fn.Outputs)
		if err != nil {
			return fail("decode returns: %v", err)
		}
		re, err := enc.EncodeArgs(fn.Outputs, outs)
		if err != nil {
			return fail("re-encode returns: %v", err)
		}
		if !bytes.Equal(re, ret) {
			return fail("returns round trip mismatch: got 0x%x", re)
		}
	}

	res.Passed = true
	return res
}

func (r *Runner) expectError(res Result, v Vector, err error) Result {
	got := abi.Category(err)
	if v.Error != "" && got == v.Error {
		res.Passed = true
		return res
	}
	res.Reason = err.Error()
	return res
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	return hex.DecodeString(s)
}
