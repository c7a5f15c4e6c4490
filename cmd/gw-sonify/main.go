// Command gw-sonify renders a gravitational-wave strain waveform as a WAV file.
//
// Usage:
//
//	gw-sonify -input waveform.txt GW150914 L1
//	gw-sonify -input waveform.txt GW150914 L1 --pitch_shift 2 --gain 0.8
//	gw-sonify -input strain.wav -time_stretch 4 -file_name_out slow.wav GW170817 H1
//
// Retrieving posterior samples and projecting the waveform onto a detector are
// done upstream; the projected strain is passed with -input, either as a WAV
// file or as text with "time strain" (or single value) rows.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	sonify "github.com/tphakala/go-gw-sonify"
)

const (
	// CLI defaults
	defaultApproximant = "SEOBNRv4PHM"
	requiredArgs       = 2
)

// approximants lists the waveform models the upstream retrieval accepts.
var approximants = []string{"SEOBNRv4PHM", "Mixed", "IMRPhenomXPHM"}

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

type options struct {
	event       string
	detector    string
	fileNameOut string
	pitchShift  float64
	timeStretch float64
	gain        float64
	approximant string
	input       string
	interval    float64
	quiet       bool
}

// outputName returns the explicit output name or the event/detector default.
func (o *options) outputName() string {
	if o.fileNameOut != "" {
		return o.fileNameOut
	}
	return sonify.DefaultFileName(o.event, o.detector)
}

func (o *options) params() sonify.Parameters {
	return sonify.Parameters{
		PitchShift:  o.pitchShift,
		TimeStretch: o.timeStretch,
		Gain:        o.gain,
	}
}

// parseArgs parses flags that may appear before, between or after the two
// positional arguments.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("gw-sonify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.fileNameOut, "file_name_out", "", "Output audio filename (default: <event>_<detector>_audio.wav)")
	fs.Float64Var(&opts.pitchShift, "pitch_shift", sonify.DefaultPitchShift, "Pitch shift factor (also rescales the sample rate)")
	fs.Float64Var(&opts.timeStretch, "time_stretch", sonify.DefaultTimeStretch, "Time stretch factor")
	fs.Float64Var(&opts.gain, "gain", sonify.DefaultGain, "Output gain, clamped to [0, 1]")
	fs.StringVar(&opts.approximant, "approximant", defaultApproximant, "Waveform approximant: "+strings.Join(approximants, ", "))
	fs.StringVar(&opts.input, "input", "", "Projected strain waveform (.wav, or text with time/strain columns)")
	fs.Float64Var(&opts.interval, "dt", 0, "Sample interval in seconds for single-column text input")
	fs.BoolVar(&opts.quiet, "q", false, "Suppress progress output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: gw-sonify [options] event_name detector_id\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  gw-sonify -input GW150914_L1.txt GW150914 L1\n")
		fmt.Fprintf(stderr, "  gw-sonify -input GW150914_L1.txt GW150914 L1 --pitch_shift 2 --time_stretch 4\n")
	}

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, errUsage
			}
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	if len(positional) != requiredArgs {
		fs.Usage()
		return nil, fmt.Errorf("%w: expected event_name and detector_id, got %d arguments", errUsage, len(positional))
	}
	opts.event, opts.detector = positional[0], positional[1]

	if !slices.Contains(approximants, opts.approximant) {
		return nil, fmt.Errorf("unknown approximant %q (want one of %s)", opts.approximant, strings.Join(approximants, ", "))
	}
	if opts.input == "" {
		return nil, fmt.Errorf("no waveform: posterior retrieval is not built in, pass the projected strain with -input")
	}

	return opts, nil
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	wf, err := loadWaveform(opts.input, opts.interval)
	if err != nil {
		return err
	}

	if !opts.quiet {
		log.Printf("Event %s, detector %s, approximant %s", opts.event, opts.detector, opts.approximant)
		log.Printf("Loaded %d samples at %.1f Hz from %s", len(wf.Samples()), wf.SampleRate(), opts.input)
	}

	reporter := sonify.NewLogReporter(nil)
	reporter.Quiet = opts.quiet

	s := sonify.New(&sonify.Config{Reporter: reporter})
	if _, err := s.Sonify(wf, opts.outputName(), opts.params()); err != nil {
		return err
	}
	return nil
}
