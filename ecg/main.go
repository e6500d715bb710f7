package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goecg/pkg/config"
	"github.com/itohio/goecg/pkg/ecg"
	"github.com/itohio/goecg/pkg/monitor"
	"github.com/itohio/goecg/pkg/qrs"
	"github.com/itohio/goecg/pkg/sample"
	"github.com/itohio/goecg/pkg/scope"
)

// Scope refresh is capped at ~30 FPS.
const updateInterval = 33 * time.Millisecond

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use emulated board instead of serial port")
		batchFlag  = flag.Int("batch", 0, "Samples per processing batch (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *batchFlag > 0 {
		cfg.Batch.Size = *batchFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if timer, err := cfg.Signal.Timer(); err == nil {
		log.Printf("[ECG] Board Timer1 /%d compare %d: %.1f Hz", timer.Prescaler, timer.Compare, timer.Frequency(cfg.Signal.BoardClock))
	}

	application := app.NewWithID("com.itohio.goecg")

	window := application.NewWindow("ECG Monitor")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		window:     window,
		useMock:    *mockFlag,
		processor:  qrs.NewProcessor(cfg),
		traces:     newTraces(cfg.Plot.BufferSize),
	}

	state.scopeWidget = scope.New(cfg)
	toolbar := createToolbar(state)

	window.SetContent(container.NewBorder(toolbar, nil, nil, nil, state.scopeWidget))
	window.SetOnClosed(func() {
		disconnect(state)
	})
	window.ShowAndRun()
}

// measurementChain tracks the components of the measurement chain for graceful shutdown.
type measurementChain struct {
	device        ecg.Device
	batches       <-chan sample.Batch
	processorDone chan struct{} // Closed when the processor goroutine exits
	monitorCancel context.CancelFunc
	monitorDone   chan struct{}
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	configPath  string
	processor   *qrs.Processor
	traces      *traces
	scopeWidget *scope.ScopeWidget
	window      fyne.Window
	connectBtn  *widget.Button
	useMock     bool
	chain       *measurementChain // nil if not connected

	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

func (s *appState) connected() bool {
	return s.chain != nil && s.chain.device.IsConnected()
}

// createToolbar creates the application toolbar with Connect and Settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("Connect", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	return container.NewHBox(connectBtn, settingsBtn)
}

// closeMeasurementChain gracefully closes the measurement chain.
// Closing the device closes its sample channel, which drains the batcher
// and then ends the processor goroutine.
func closeMeasurementChain(chain *measurementChain) {
	if chain == nil {
		return
	}

	if chain.device != nil {
		if err := chain.device.Close(); err != nil {
			log.Printf("[ECG] Close failed: %v", err)
		}
	}

	if chain.processorDone != nil {
		<-chain.processorDone
	}

	if chain.monitorCancel != nil {
		chain.monitorCancel()
		<-chain.monitorDone
	}
}

func disconnect(state *appState) {
	if state.chain == nil {
		return
	}
	closeMeasurementChain(state.chain)
	state.chain = nil
	state.processor.ClearCallbacks()
	state.connectBtn.SetText("Connect")
	fmt.Println("Disconnected")
}

func newDevice(state *appState) ecg.Device {
	if state.useMock {
		fmt.Println("Using emulated board")
		return ecg.NewMock(state.cfg)
	}
	return ecg.New(state.cfg.Serial.Port, state.cfg.Serial.BaudRate, ecg.DefaultBufferSize).
		WithSettle(state.cfg.Serial.Settle).
		WithMaxValue(state.cfg.Signal.MaxValue)
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.connected() {
		disconnect(state)
		return
	}

	device := newDevice(state)
	if err := device.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to start emulated board: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	if !state.useMock {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}
	state.connectBtn.SetText("Disconnect")

	// A fresh processor so filter state and BPM history start clean
	state.processor = qrs.NewProcessor(state.cfg)
	state.traces.reset()

	// Register before starting the chain so no batch is missed
	state.processor.OnUpdate(func(u qrs.Update) {
		state.traces.push(u.Result)

		state.updateMu.Lock()
		now := time.Now()
		if now.Sub(state.lastUpdateTime) < updateInterval {
			state.updateMu.Unlock()
			return
		}
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		snap := state.traces.snapshot()
		fyne.Do(func() {
			state.scopeWidget.UpdateData(snap.signal, snap.mwi, snap.threshold, snap.peaks, snap.bpm)
		})
	})

	batches := sample.NewBatcher(state.cfg.Batch.Size, 100)(device.Samples())

	processorDone := make(chan struct{})
	go func() {
		defer close(processorDone)
		state.processor.ProcessBatches(batches)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	monitorDone := make(chan struct{})
	mon := monitor.New(nil, state.cfg.Monitor.Interval, state.processor)
	go func() {
		defer close(monitorDone)
		mon.Run(ctx)
	}()

	state.chain = &measurementChain{
		device:        device,
		batches:       batches,
		processorDone: processorDone,
		monitorCancel: cancel,
		monitorDone:   monitorDone,
	}
}
