package cmd

import (
	"io"
	"log"

	"github.com/rs/xid"
	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/policy"
	"github.com/sarchlab/vmsim/sim"
	"github.com/sarchlab/vmsim/trace"
	"github.com/sarchlab/vmsim/tracing"
)

// Run simulates one trace and prints the report to stdout. Nothing is printed
// if the trace cannot be read to the end.
func Run(cfg Config, stdout, stderr io.Writer) error {
	r, err := trace.Open(cfg.TracePath)
	if err != nil {
		return err
	}
	defer r.Close()

	decoder := trace.NewDecoder(r)
	decoder.RequireCycles = cfg.Algorithm == policy.Aging

	var src trace.Source = decoder

	policyBuilder := policy.MakeBuilder().
		WithNumFrames(cfg.NumFrames).
		WithRefreshInterval(cfg.Refresh)

	if cfg.Algorithm == policy.OPT {
		records, err := trace.LoadAll(decoder)
		if err != nil {
			return err
		}

		policyBuilder = policyBuilder.WithTrace(records)
		src = trace.NewSliceSource(records)
	}

	p, err := policyBuilder.Build(cfg.Algorithm)
	if err != nil {
		return err
	}

	simBuilder := sim.MakeBuilder().
		WithPolicy(p).
		WithSource(src)

	if cfg.Verbose {
		logger := log.New(stderr, "", 0)
		simBuilder = simBuilder.WithHook(tracing.NewLogTracer(logger))
	}

	if cfg.RecordPath != "" {
		tracer, err := newDBTracer(cfg)
		if err != nil {
			return err
		}

		simBuilder = simBuilder.WithHook(tracer)
	}

	report, err := simBuilder.Build().Run()
	if err != nil {
		return err
	}

	_, err = report.WriteTo(stdout)

	return err
}

func newDBTracer(cfg Config) (*tracing.DBTracer, error) {
	path := cfg.RecordPath
	if path == autoRecordName {
		path = datarecording.DefaultName()
	}

	recorder, err := datarecording.New(path)
	if err != nil {
		return nil, err
	}

	return tracing.NewDBTracer(recorder, xid.New().String(), cfg.Refresh), nil
}
