// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/db47h/comphdl"
	"github.com/db47h/comphdl/internal/config"
	"github.com/db47h/comphdl/internal/inputs"
	"github.com/db47h/comphdl/internal/metrics"
	"github.com/db47h/comphdl/netlist"
	"github.com/db47h/comphdl/waveform"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// defaultStdin is read by Stdin components if it exists in the current
// directory and no other input file is given.
const defaultStdin = "stdin.txt"

type runOptions struct {
	config string
	vars   []string
	run    *config.Run
}

func newRunCmd(a *app) *cobra.Command {
	o := &runOptions{run: config.Default()}
	cmd := &cobra.Command{
		Use:   "run [FILE TOP]",
		Short: "Simulate a component",
		Long: `Run instantiates component TOP from FILE and ticks it, driving its inputs
with a generated pattern. The counter and repeat patterns count up in binary,
each value being held for --repeat ticks with the repeat pattern. The constant
pattern holds --value.`,
		Args: cobra.MaximumNArgs(2),
	}
	cmd.RunE = a.execute(func(cmd *cobra.Command, args []string) error {
		r, err := o.resolve(cmd, args)
		if err != nil {
			return err
		}
		return a.run(cmd, r)
	})

	f := cmd.Flags()
	r := o.run
	f.StringVarP(&o.config, "config", "c", "", "run file")
	f.StringArrayVar(&o.vars, "var", nil, "run file variable, as name=value")
	f.IntVarP(&r.Ticks, "ticks", "n", r.Ticks, "number of ticks")
	f.StringVar(&r.Input.Pattern, "pattern", r.Input.Pattern, "input pattern (counter, repeat or constant)")
	f.IntVar(&r.Input.Repeat, "repeat", r.Input.Repeat, "ticks per input value with the repeat pattern")
	f.StringVar(&r.Input.Value, "value", "", "input value with the constant pattern")
	f.StringVar(&r.Stdin, "stdin", "", "input file for Stdin components (default "+defaultStdin+" if it exists, else standard input)")
	f.StringVar(&r.Output.VCD, "vcd", "", "write a VCD trace to `file`")
	f.StringVar(&r.Output.Wave, "wave", "", "write a WaveDrom trace of the boundary signals to `file`")
	f.StringVar(&r.Output.Netlist, "netlist", "", "write the netlist to `file` (.yaml or .yml for YAML, JSON otherwise)")
	f.StringVar(&r.Output.Metrics, "metrics", "", "write Prometheus metrics to `file`")
	return cmd
}

// resolve merges the run file, if any, with the command line. Flags set
// explicitly take precedence.
//
func (o *runOptions) resolve(cmd *cobra.Command, args []string) (*config.Run, error) {
	r := o.run
	if o.config != "" {
		vars, err := config.ParseVars(o.vars)
		if err != nil {
			return nil, err
		}
		c, err := config.Load(o.config, vars)
		if err != nil {
			return nil, err
		}
		fs := cmd.Flags()
		setUnchanged(fs, "stdin", &r.Stdin, c.Stdin)
		setUnchanged(fs, "pattern", &r.Input.Pattern, c.Input.Pattern)
		setUnchanged(fs, "value", &r.Input.Value, c.Input.Value)
		setUnchanged(fs, "vcd", &r.Output.VCD, c.Output.VCD)
		setUnchanged(fs, "wave", &r.Output.Wave, c.Output.Wave)
		setUnchanged(fs, "netlist", &r.Output.Netlist, c.Output.Netlist)
		setUnchanged(fs, "metrics", &r.Output.Metrics, c.Output.Metrics)
		if !fs.Changed("ticks") {
			r.Ticks = c.Ticks
		}
		if !fs.Changed("repeat") {
			r.Input.Repeat = c.Input.Repeat
		}
		r.Source, r.Top = c.Source, c.Top
	} else if len(o.vars) > 0 {
		return nil, errors.New("--var requires --config")
	}
	switch len(args) {
	case 2:
		r.Source, r.Top = args[0], args[1]
	case 0:
		if o.config == "" {
			return nil, errors.New("missing FILE and TOP arguments")
		}
	default:
		return nil, errors.New("expected FILE and TOP arguments")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// setUnchanged sets *dst to v unless the named flag was set on the command
// line.
//
func setUnchanged(fs *pflag.FlagSet, name string, dst *string, v string) {
	if !fs.Changed(name) {
		*dst = v
	}
}

// inputSequence returns the input pattern for a component with n inputs.
//
func inputSequence(in *config.Input, n int) (inputs.Sequence, error) {
	switch in.Pattern {
	case config.PatternCounter:
		return inputs.NewCounter(n), nil
	case config.PatternRepeat:
		return inputs.NewRepeat(n, in.Repeat), nil
	case config.PatternConstant:
		v := make([]comphdl.Bit, n)
		if in.Value != "" {
			bs, err := comphdl.Bits(in.Value)
			if err != nil {
				return nil, err
			}
			if len(bs) != n {
				return nil, errors.Errorf("constant input has %d bits, expected %d", len(bs), n)
			}
			v = bs
		}
		return inputs.Constant(v), nil
	}
	return nil, errors.Errorf("unknown input pattern %q", in.Pattern)
}

func (a *app) openStdin(path string) (*comphdl.ByteSource, func(), error) {
	if path == "" {
		if _, err := os.Stat(defaultStdin); err == nil {
			path = defaultStdin
		}
	}
	if path == "" {
		return comphdl.NewByteSource(a.stdin), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	a.log.WithField("file", path).Info("reading input")
	return comphdl.NewByteSource(f), func() { f.Close() }, nil
}

func (a *app) run(cmd *cobra.Command, r *config.Run) (err error) {
	ctx := cmd.Context()
	src, closeSrc, err := a.openStdin(r.Stdin)
	if err != nil {
		return err
	}
	defer closeSrc()

	f, err := a.load(r.Source, comphdl.WithInput(src), comphdl.WithOutput(comphdl.NewByteSink(a.stdout)))
	if err != nil {
		return err
	}
	c, err := f.Instantiate(r.Top)
	if err != nil {
		return err
	}
	s := comphdl.CloneAsStructural(c)
	seq, err := inputSequence(r.Input, s.NumInputs())
	if err != nil {
		return err
	}

	var vcd *waveform.VCD
	if r.Output.VCD != "" {
		var w *os.File
		if w, err = os.Create(r.Output.VCD); err != nil {
			return errors.WithStack(err)
		}
		defer func() {
			if e := w.Close(); err == nil && e != nil {
				err = errors.WithStack(e)
			}
		}()
		if vcd, err = waveform.NewVCD(w, s); err != nil {
			return errors.Wrap(err, r.Output.VCD)
		}
	}
	var wave *waveform.WaveJSON
	if r.Output.Wave != "" {
		wave = waveform.NewWaveJSON(s)
	}
	rec := metrics.New(r.Top)

	log := a.log.WithField("component", r.Top)
	log.WithFields(logrus.Fields{
		"ticks":   r.Ticks,
		"pattern": r.Input.Pattern,
	}).Info("simulating")
	for t := 0; t < r.Ticks; t++ {
		if t&1023 == 0 && ctx != nil && ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "tick %d", t)
		}
		in := seq.Next()
		out := s.Tick(in)
		if log.Logger.IsLevelEnabled(logrus.TraceLevel) {
			log.WithField("tick", t).Tracef("%s -> %s", comphdl.BitsString(in), comphdl.BitsString(out))
		}
		if vcd != nil {
			if err := vcd.Sample(uint64(t)); err != nil {
				return errors.Wrap(err, r.Output.VCD)
			}
		}
		if wave != nil {
			wave.Update()
		}
	}
	if vcd != nil {
		if err := vcd.Close(); err != nil {
			return errors.Wrap(err, r.Output.VCD)
		}
	}
	if wave != nil {
		data, err := wave.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(r.Output.Wave, data, 0o644); err != nil {
			return errors.WithStack(err)
		}
	}

	rec.Observe(s)
	st := s.Stats()
	log.WithFields(logrus.Fields{
		"ticks":        st.Ticks,
		"evaluations":  st.Evaluations,
		"propagations": st.Propagations,
		"slots":        st.Slots,
		"output":       comphdl.BitsString(s.Output()),
	}).Info("done")
	if r.Output.Metrics != "" {
		if err := rec.WriteFile(r.Output.Metrics); err != nil {
			return err
		}
	}
	if r.Output.Netlist != "" {
		if err := writeNetlist(r.Output.Netlist, netlist.FromStructural(s), formatOf(r.Output.Netlist)); err != nil {
			return err
		}
	}
	return nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}
