// Command seatdriver enumerates evdev input devices, attaches each one
// that classifies into a known capability to a single seat, and forwards
// every notification to a virtual uinput mouse/keyboard/touchpad. It is
// a thin demonstration of the device/seat/sink pipeline, not a daemon
// meant for unattended production use — it has no udev hotplug watch, no
// systemd integration, and runs until SIGINT or SIGTERM.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"seatinput/broker"
	"seatinput/device"
	"seatinput/evdevio"
	"seatinput/seat"
	"seatinput/uinputsink"
)

func main() {
	keyword := flag.String("match", "", "only attach devices whose name contains this substring (case-insensitive)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seatdriver: logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	paths, err := evdevio.ListDevices(*keyword)
	if err != nil {
		logger.Fatal("enumerate input devices", zap.Error(err))
	}
	if len(paths) == 0 {
		logger.Fatal("no matching input devices found", zap.String("match", *keyword))
	}

	vsink := uinputsink.NewSink(logger, 0, 32767, 0, 32767)
	defer vsink.Close()

	st := seat.New()
	br := broker.Direct{}

	var devices []*device.Device
	for _, path := range paths {
		d, err := device.Create(br, path, st, vsink, logger, device.DefaultConfig())
		if err != nil {
			if errors.Is(err, device.ErrUnhandledDevice) {
				logger.Debug("skipping unhandled device", zap.String("path", path))
				continue
			}
			logger.Warn("failed to attach device", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Info("attached device", zap.String("path", path), zap.String("name", d.DeviceName()))
		devices = append(devices, d)
	}

	if len(devices) == 0 {
		logger.Fatal("no device classified into a known capability")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	pollDevices(devices, sigCh, logger)

	for _, d := range devices {
		d.Remove()
	}
}

// pollDevices repeatedly drains every device's pending events until a
// termination signal arrives. Real evdev fds are opened non-blocking, so
// Dispatch itself never blocks; the small sleep keeps this demo from
// busy-spinning a core between polls.
func pollDevices(devices []*device.Device, sigCh <-chan os.Signal, logger *zap.Logger) {
	tick := time.NewTicker(4 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-sigCh:
			logger.Info("shutting down")
			return
		case <-tick.C:
			for _, d := range devices {
				d.Dispatch()
			}
		}
	}
}
