package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/cmd"
	"github.com/vsariola/levelscope/config"
	"github.com/vsariola/levelscope/report"
	"github.com/vsariola/levelscope/version"
)

type options struct {
	stdout      bool
	directory   string
	format      string
	templateDir string
	wavOut      bool
	pcm         bool
	gainDB      float64
	zoom        float64
	pause       bool
	scroll      float64
	anchor      int
}

func main() {
	var o options
	configPath := flag.String("config", "", "read configuration from yaml `file`")
	flag.BoolVar(&o.stdout, "s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	flag.StringVar(&o.directory, "o", "", "Directory where to output all files. The directory and its parents are created if needed. By default, everything is placed in the current directory.")
	flag.StringVar(&o.format, "f", "summary.txt", "Output format: yaml, json or the name of a report template (summary.txt, levels.csv, levels.md).")
	flag.StringVar(&o.templateDir, "t", "", "Read report templates from this directory instead of the built in ones.")
	flag.BoolVar(&o.wavOut, "w", false, "Also output the processed audio as .wav file.")
	flag.BoolVar(&o.pcm, "c", false, "Convert audio to 16-bit signed PCM when outputting.")
	flag.Float64Var(&o.gainDB, "gain", 0, "Gain in dB applied to both channels.")
	flag.Float64Var(&o.zoom, "zoom", 0, "Normalized zoom in [0,1].")
	flag.BoolVar(&o.pause, "pause", false, "Pause at the end of the file before applying -scroll.")
	flag.Float64Var(&o.scroll, "scroll", 1, "Normalized scroll position of a paused history, 1 is the most recent.")
	flag.IntVar(&o.anchor, "anchor", levelscope.HistorySize-1, "Column kept in place when zooming a paused history.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.Describe("levelscope-cli"))
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	cfg, err := cmd.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	reporter, err := newReporter(o.templateDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	retval := 0
	for _, param := range flag.Args() {
		files := []string{param}
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files, err = filepath.Glob(filepath.Join(param, "*.wav"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for wav files: %v\n", param, err)
				retval = 1
				continue
			}
		}
		for _, file := range files {
			if err := process(file, *cfg, reporter, o); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func newReporter(dir string) (*report.Reporter, error) {
	if dir == "" {
		return report.New()
	}
	return report.NewFromTemplates(dir)
}

// analyze runs buffer through a processor and returns the final view.
func analyze(buffer levelscope.AudioBuffer, cfg *config.Config, o options) (levelscope.HistoryData, error) {
	broker := cfg.NewBroker()
	proc, err := broker.NewProcessor(cfg.Processor())
	if err != nil {
		return levelscope.HistoryData{}, err
	}
	params := levelscope.DefaultParams()
	gain := float32(math.Pow(10, o.gainDB/20))
	params.Gain = [2]float32{gain, gain}
	params.Zoom = o.zoom
	proc.Process(buffer, params)
	if o.pause {
		params.Paused = true
		proc.Process(nil, params)
		params.ZoomAnchor = o.anchor
		params.Scroll = o.scroll
		proc.Process(nil, params)
	}
	var d levelscope.HistoryData
	proc.Snapshot(&d)
	d.Sequence = broker.Stats.Published() + broker.Stats.Dropped()
	return d, nil
}

func process(filename string, cfg config.Config, reporter *report.Reporter, o options) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	buffer, sampleRate, err := levelscope.ReadWav(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("could not read wav: %v", err)
	}
	cfg.Audio.SampleRate = sampleRate
	cfg.Audio.BlockSize = max(cfg.Audio.BlockSize, 1)
	if err := cfg.Validate(); err != nil {
		return err
	}
	h, err := analyze(buffer, &cfg, o)
	if err != nil {
		return err
	}
	data := report.Summarize(&h, cfg.History.BatchMillis)
	var out []byte
	ext := filepath.Ext(o.format)
	switch o.format {
	case "yaml":
		if out, err = yaml.Marshal(data); err != nil {
			return fmt.Errorf("could not marshal yaml: %v", err)
		}
		ext = ".yml"
	case "json":
		if out, err = json.MarshalIndent(data, "", "  "); err != nil {
			return fmt.Errorf("could not marshal json: %v", err)
		}
		ext = ".json"
	default:
		var b bytes.Buffer
		if err := reporter.Render(&b, o.format, data); err != nil {
			return err
		}
		out = b.Bytes()
	}
	if err := output(filename, ext, out, o); err != nil {
		return fmt.Errorf("error outputting %v file: %v", ext, err)
	}
	if o.wavOut {
		wav, err := levelscope.Wav(buffer, sampleRate, o.pcm)
		if err != nil {
			return fmt.Errorf("could not generate .wav file: %v", err)
		}
		if err := output(filename, ".processed.wav", wav, o); err != nil {
			return fmt.Errorf("error outputting .wav file: %v", err)
		}
	}
	return nil
}

func output(filename, extension string, contents []byte, o options) error {
	if o.stdout {
		if extension == ".processed.wav" {
			return nil
		}
		_, err := os.Stdout.Write(contents)
		return err
	}
	dir := o.directory
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
		}
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %v", dir, err)
	}
	_, name := filepath.Split(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
	f := filepath.Join(dir, name)
	if err := os.WriteFile(f, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %v", f, err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "levelscope command line utility for analyzing .wav files.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
