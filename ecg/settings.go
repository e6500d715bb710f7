package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goecg/pkg/config"
	"github.com/itohio/goecg/pkg/ecg"
)

// showSettingsDialog displays a settings dialog. Changes take effect on the
// next connect.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createDetectionTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 450))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 450))
	d.Show()
}

// updateConfig applies edit to a copy of cfg and keeps it only when it
// validates and saves.
func updateConfig(cfg *config.Config, path string, edit func(*config.Config)) error {
	next := *cfg
	edit(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := next.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	*cfg = next
	return nil
}

// saveConfig applies a settings form submission.
func saveConfig(state *appState, edit func(*config.Config)) {
	if err := updateConfig(state.cfg, state.configPath, edit); err != nil {
		dialog.ShowError(err, state.window)
	}
}

func parseFloat32(s string) (float32, bool) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := ecg.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // display name -> port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	settleEntry := widget.NewEntry()
	settleEntry.SetText(state.cfg.Serial.Settle.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Reset Settle", Widget: settleEntry},
		},
		OnSubmit: func() {
			saveConfig(state, func(c *config.Config) {
				if portSelect.Selected != "" {
					selectedPort := portMap[portSelect.Selected]
					if selectedPort == "" {
						selectedPort = portSelect.Selected
					}
					c.Serial.Port = selectedPort
				}
				if d, err := time.ParseDuration(settleEntry.Text); err == nil {
					c.Serial.Settle = d
				}
			})
		},
	}

	return container.NewTabItem("Serial", form)
}

// createDetectionTab creates the QRS detection configuration tab.
func createDetectionTab(state *appState) *container.TabItem {
	batchEntry := widget.NewEntry()
	batchEntry.SetText(strconv.Itoa(state.cfg.Batch.Size))

	cutoffEntry := widget.NewEntry()
	cutoffEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Filter.HighpassCutoff))

	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(strconv.Itoa(state.cfg.Peak.IntervalMS))

	tauEntry := widget.NewEntry()
	tauEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Peak.Tau))

	minThresholdEntry := widget.NewEntry()
	minThresholdEntry.SetText(strconv.Itoa(state.cfg.Peak.MinThreshold))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Batch Size", Widget: batchEntry},
			{Text: "Highpass Cutoff (Hz)", Widget: cutoffEntry},
			{Text: "Refractory (ms)", Widget: intervalEntry},
			{Text: "Threshold Decay (s)", Widget: tauEntry},
			{Text: "Min Threshold", Widget: minThresholdEntry},
		},
		OnSubmit: func() {
			saveConfig(state, func(c *config.Config) {
				if v, err := strconv.Atoi(batchEntry.Text); err == nil {
					c.Batch.Size = v
				}
				if v, ok := parseFloat32(cutoffEntry.Text); ok {
					c.Filter.HighpassCutoff = v
				}
				if v, err := strconv.Atoi(intervalEntry.Text); err == nil {
					c.Peak.IntervalMS = v
				}
				if v, ok := parseFloat32(tauEntry.Text); ok {
					c.Peak.Tau = v
				}
				if v, err := strconv.Atoi(minThresholdEntry.Text); err == nil {
					c.Peak.MinThreshold = v
				}
			})
		},
	}

	return container.NewTabItem("Detection", form)
}

// createMockTab creates the emulated board configuration tab.
func createMockTab(state *appState) *container.TabItem {
	heartRateEntry := widget.NewEntry()
	heartRateEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Mock.HeartRate))

	amplitudeEntry := widget.NewEntry()
	amplitudeEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Mock.Amplitude))

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.Noise))

	wanderEntry := widget.NewEntry()
	wanderEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.Wander))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Heart Rate (BPM)", Widget: heartRateEntry},
			{Text: "R Amplitude (counts)", Widget: amplitudeEntry},
			{Text: "Noise (counts)", Widget: noiseEntry},
			{Text: "Wander (counts)", Widget: wanderEntry},
		},
		OnSubmit: func() {
			saveConfig(state, func(c *config.Config) {
				if v, ok := parseFloat32(heartRateEntry.Text); ok {
					c.Mock.HeartRate = v
				}
				if v, ok := parseFloat32(amplitudeEntry.Text); ok {
					c.Mock.Amplitude = v
				}
				if v, ok := parseFloat32(noiseEntry.Text); ok {
					c.Mock.Noise = v
				}
				if v, ok := parseFloat32(wanderEntry.Text); ok {
					c.Mock.Wander = v
				}
			})
		},
	}

	return container.NewTabItem("Mock", form)
}
