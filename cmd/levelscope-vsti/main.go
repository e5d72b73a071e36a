//go:build plugin

package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"pipelined.dev/audio/vst2"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/cmd"
	"github.com/vsariola/levelscope/config"
	"github.com/vsariola/levelscope/gioui"
	"github.com/vsariola/levelscope/gomidi"
	"github.com/vsariola/levelscope/processor"
)

var (
	PLUGIN_ID   = [4]byte{'L', 'v', 'S', 'c'}
	PLUGIN_NAME = "levelscope"
)

func init() {
	var (
		version = int32(100)
	)
	vst2.PluginAllocator = func(h vst2.Host) (vst2.Plugin, vst2.Dispatcher) {
		cfg := loadConfig()
		broker := cfg.NewBroker()
		proc, err := broker.NewProcessor(cfg.Processor())
		if err != nil {
			log.Fatal(err)
		}
		mapper := gomidi.NewMapper(cfg.MIDI, broker.Params)
		viewer := gioui.NewViewer(broker, PLUGIN_NAME)
		go viewer.Main()
		buf := make(levelscope.AudioBuffer, cfg.Audio.BlockSize)
		return vst2.Plugin{
				UniqueID:       PLUGIN_ID,
				Version:        version,
				InputChannels:  2,
				OutputChannels: 2,
				Name:           PLUGIN_NAME,
				Vendor:         "vsariola/levelscope",
				Category:       vst2.PluginCategoryAnalysis,
				ProcessFloatFunc: func(in, out vst2.FloatBuffer) {
					if len(buf) < out.Frames {
						buf = append(buf, make(levelscope.AudioBuffer, out.Frames-len(buf))...)
					}
					buf = buf[:out.Frames]
					left, right := in.Channel(0), in.Channel(1)
					for i := range buf {
						buf[i] = [2]float32{left[i], right[i]}
					}
					proc.Process(buf, broker.Params.Load())
					left, right = out.Channel(0), out.Channel(1)
					for i := range buf {
						left[i], right[i] = buf[i][0], buf[i][1]
					}
				},
			}, vst2.Dispatcher{
				CanDoFunc: func(pcds vst2.PluginCanDoString) vst2.CanDoResponse {
					switch pcds {
					case vst2.PluginCanReceiveEvents, vst2.PluginCanReceiveMIDIEvent:
						return vst2.YesCanDo
					}
					return vst2.NoCanDo
				},
				ProcessEventsFunc: func(ev *vst2.EventsPtr) {
					for i := 0; i < ev.NumEvents(); i++ {
						if v, ok := ev.Event(i).(*vst2.MIDIEvent); ok {
							mapper.Handle(midi.Message(v.Data[:]))
						}
					}
				},
				CloseFunc: func() {
					processor.TrySend(broker.CloseGUI, struct{}{})
					select {
					case <-broker.FinishedGUI:
					case <-time.After(3 * time.Second):
					}
				},
				GetChunkFunc: func(isPreset bool) []byte {
					b, err := broker.Params.State().Marshal()
					if err != nil {
						log.Print(err)
						return nil
					}
					return b
				},
				SetChunkFunc: func(data []byte, isPreset bool) {
					s, err := levelscope.UnmarshalState(data)
					if err != nil {
						log.Print(err)
						return
					}
					broker.Params.SetState(s)
				},
			}
	}
}

func main() {}

// loadConfig reads $UserConfigDir/levelscope/levelscope.yml if it exists.
func loadConfig() *config.Config {
	path := ""
	if dir, err := os.UserConfigDir(); err == nil {
		if p := filepath.Join(dir, "levelscope", "levelscope.yml"); fileExists(p) {
			path = p
		}
	}
	cfg, err := cmd.LoadConfig(path)
	if err != nil {
		log.Printf("using default configuration: %v", err)
		d := config.Default()
		return &d
	}
	return cfg
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
