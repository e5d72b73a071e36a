package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/cmd"
	"github.com/vsariola/levelscope/oto"
	"github.com/vsariola/levelscope/term"
	"github.com/vsariola/levelscope/version"
)

func main() {
	configPath := flag.String("config", "", "read configuration from yaml `file`")
	loop := flag.Bool("loop", false, "play the file over and over")
	versionFlag := flag.Bool("v", false, "print version")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Plays a .wav file and shows its level history in the terminal.\nUsage: %s [flags] file.wav\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.Describe("levelscope-term"))
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*configPath, flag.Arg(0), *loop); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, path string, loop bool) error {
	// the log would mess up the terminal
	logFile, err := os.CreateTemp("", "levelscope-*.log")
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}
	cfg, err := cmd.LoadConfig(configPath)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	buffer, sampleRate, err := levelscope.ReadWav(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("could not read %v: %w", path, err)
	}
	cfg.Audio.SampleRate = sampleRate
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Print(cmd.Describe(cfg))
	broker := cfg.NewBroker()
	proc, err := broker.NewProcessor(cfg.Processor())
	if err != nil {
		return err
	}
	cmd.ServeMetrics(cfg.Metrics.Listen, broker.Stats)
	midiContext := cmd.OpenMIDI(cfg.MIDI, broker.Params)
	defer midiContext.Close()

	audioContext, err := oto.NewContext(sampleRate, 0)
	if err != nil {
		return err
	}
	src := &levelscope.BufferSource{Buffer: buffer, Loop: loop}
	player := audioContext.Play(oto.NewProcessorStream(src, proc, broker.Params))
	go cmd.RunPlayer(broker, player)
	defer cmd.StopPlayer(broker, 3*time.Second)

	prog := tea.NewProgram(term.New(broker), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = prog.Run()
	return err
}
