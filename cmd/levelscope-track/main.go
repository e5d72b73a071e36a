package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"gioui.org/app"
	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/cmd"
	"github.com/vsariola/levelscope/gioui"
	"github.com/vsariola/levelscope/oto"
	"github.com/vsariola/levelscope/version"
)

var configPath = flag.String("config", "", "read configuration from yaml `file`")
var loop = flag.Bool("loop", false, "play the file over and over")
var midiInput = flag.String("midi-input", "", "connect MIDI input to the first device whose name contains this")
var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")
var versionFlag = flag.Bool("v", false, "print version")

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.Describe("levelscope-track"))
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	var f *os.File
	if *cpuprofile != "" {
		var err error
		f, err = os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
	}
	cfg, err := cmd.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if isFlagPassed("midi-input") {
		cfg.MIDI.Input = *midiInput
	}
	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	buffer, sampleRate, err := levelscope.ReadWav(file)
	file.Close()
	if err != nil {
		log.Fatalf("could not read %v: %v", flag.Arg(0), err)
	}
	cfg.Audio.SampleRate = sampleRate
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	log.Print(cmd.Describe(cfg))
	broker := cfg.NewBroker()
	proc, err := broker.NewProcessor(cfg.Processor())
	if err != nil {
		log.Fatal(err)
	}
	cmd.ServeMetrics(cfg.Metrics.Listen, broker.Stats)
	midiContext := cmd.OpenMIDI(cfg.MIDI, broker.Params)
	defer midiContext.Close()

	audioContext, err := oto.NewContext(sampleRate, 0)
	if err != nil {
		log.Fatal(err)
	}
	src := &levelscope.BufferSource{Buffer: buffer, Loop: *loop}
	player := audioContext.Play(oto.NewProcessorStream(src, proc, broker.Params))
	go cmd.RunPlayer(broker, player)

	_, name := filepath.Split(flag.Arg(0))
	viewer := gioui.NewViewer(broker, "levelscope - "+name)
	viewer.OpenFile = func(r io.ReadCloser) error {
		defer r.Close()
		buffer, rate, err := levelscope.ReadWav(r)
		if err != nil {
			return err
		}
		if rate != sampleRate {
			return fmt.Errorf("sample rate %d Hz differs from the playing %d Hz", rate, sampleRate)
		}
		player.SetSource(&levelscope.BufferSource{Buffer: buffer, Loop: *loop})
		return nil
	}
	go func() {
		viewer.Main()
		cmd.StopPlayer(broker, 3*time.Second)
		if *cpuprofile != "" {
			pprof.StopCPUProfile()
			f.Close()
		}
		if *memprofile != "" {
			f, err := os.Create(*memprofile)
			if err != nil {
				log.Fatal("could not create memory profile: ", err)
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatal("could not write memory profile: ", err)
			}
		}
		os.Exit(0)
	}()
	app.Main()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Plays a .wav file and shows its level history.\nUsage: %s [flags] file.wav\n", os.Args[0])
	flag.PrintDefaults()
}
