package processor

import (
	"time"

	"github.com/vsariola/levelscope"
	"github.com/vsariola/levelscope/spsc"
)

type (
	// Broker connects the audio thread, the UI and the other goroutines of
	// an application. Snapshots flow from the audio thread to the UI through
	// a wait-free queue; parameters flow the other way through a ParamStore.
	//
	// For closing goroutines, the broker has two channels for each goroutine:
	// CloseXXX and FinishedXXX. CloseXXX has a capacity of 1, so an empty
	// message can always be sent with TrySend without blocking; if the
	// channel is full, someone has already requested the closure. FinishedXXX
	// is never sent to, only closed when the goroutine has cleaned up. Wait
	// for it with a timeout:
	//    select {
	//      case <-FinishedXXX:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		Snapshots spsc.Queue[levelscope.HistoryData]
		Params    *ParamStore
		Stats     *Stats

		CloseGUI    chan struct{}
		FinishedGUI chan struct{}

		ClosePlayer    chan struct{}
		FinishedPlayer chan struct{}
	}
)

// NewBroker creates a broker whose snapshot queue holds capacity snapshots.
func NewBroker(variant spsc.Variant, capacity int) *Broker {
	return &Broker{
		Snapshots:      spsc.New[levelscope.HistoryData](variant, capacity),
		Params:         NewParamStore(),
		Stats:          new(Stats),
		CloseGUI:       make(chan struct{}, 1),
		FinishedGUI:    make(chan struct{}),
		ClosePlayer:    make(chan struct{}, 1),
		FinishedPlayer: make(chan struct{}),
	}
}

// NewProcessor creates a processor publishing to the broker's queue and
// counting into its Stats.
func (b *Broker) NewProcessor(cfg Config) (*Processor, error) {
	return NewProcessor(cfg, b.Snapshots, b.Stats)
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
