// Command lightning-sensor monitors an AS3935 lightning detector and reports
// detection events, periodically retuning the antenna oscillator and running
// the chip's built-in test.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/lightning-sensor/internal/as3935"
	"github.com/sweeney/lightning-sensor/internal/event"
	"github.com/sweeney/lightning-sensor/internal/irq"
	"github.com/sweeney/lightning-sensor/internal/logic"
	"github.com/sweeney/lightning-sensor/internal/maint"
	"github.com/sweeney/lightning-sensor/internal/report"
	"github.com/sweeney/lightning-sensor/internal/status"
)

func main() {
	poll := flag.Duration("poll", 10*time.Millisecond, "Event polling interval")
	heartbeat := flag.Duration("heartbeat", time.Second, "Heartbeat period")
	calibration := flag.Duration("calibration", 30*time.Minute, "Oscillator calibration period")
	selfTest := flag.Duration("self-test", 60*time.Minute, "Built-in test period")
	i2cBus := flag.String("i2c-bus", "", "I2C bus name (empty = first available)")
	i2cAddr := flag.Int("i2c-addr", as3935.Addr, "I2C address of the detector")
	gpioChip := flag.String("gpio-chip", irq.DefaultChip, "GPIO chip device name")
	irqPin := flag.Int("irq-pin", irq.DefaultPin, "BCM pin number of the interrupt line")
	printState := flag.Bool("print-state", false, "Print current chip state and exit")

	flag.Parse()

	if err := run(*poll, *heartbeat, *calibration, *selfTest, *i2cBus, *i2cAddr, *gpioChip, *irqPin, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll, heartbeat, calibration, selfTest time.Duration, i2cBus string, i2cAddr int, gpioChip string, irqPin int, printState bool) error {
	// Initialize the register bus
	bus, err := as3935.NewRealBus(i2cBus, uint16(i2cAddr))
	if err != nil {
		return fmt.Errorf("init i2c: %w", err)
	}
	dev := as3935.NewDevice(bus)
	defer dev.Close()

	// Print state mode
	if printState {
		tc, err := dev.TuneCap()
		if err != nil {
			return fmt.Errorf("read tune cap: %w", err)
		}
		pwd, err := dev.PoweredDown()
		if err != nil {
			return fmt.Errorf("read power state: %w", err)
		}
		fmt.Printf("TUN_CAP: %d, PWD: %s\n", tc, onOff(pwd))
		return nil
	}

	// Chip bring-up: datasheet reset, RC-oscillator calibration, power up.
	if err := initChip(dev); err != nil {
		return fmt.Errorf("init chip: %w", err)
	}

	// Attach the interrupt line; it starts in the Normal role.
	state := &event.State{}
	line, err := irq.NewRealLine(gpioChip, irqPin, state)
	if err != nil {
		return fmt.Errorf("init irq: %w", err)
	}
	defer line.Close()

	reporter := report.NewWriter(os.Stdout)
	tracker := status.NewTracker(time.Now(), status.Config{
		HeartbeatMs:   heartbeat.Milliseconds(),
		CalibrationMs: calibration.Milliseconds(),
		SelfTestMs:    selfTest.Milliseconds(),
		I2CBus:        i2cBus,
		IRQPin:        irqPin,
	})

	if err := reporter.Line(report.StartupLine); err != nil {
		return fmt.Errorf("report startup: %w", err)
	}
	log.Printf("started: poll=%v heartbeat=%v calibration=%v self-test=%v pin=%d", poll, heartbeat, calibration, selfTest, irqPin)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// No noise-generator hardware is wired up yet, so the built-in test
	// runs with a no-op stimulus and will report failure each period.
	// TODO: drive the noise generator's trigger pin once it is attached.
	stim := maint.NoopStimulus{}

	return runLoop(dev, line, state, stim, reporter, tracker, heartbeat, calibration, selfTest, time.Now, time.Sleep, ticker.C, sigCh)
}

// initChip resets the detector to datasheet defaults, recalibrates its
// internal RC oscillators, and brings it out of power-down. The short waits
// follow the command-completion times in the datasheet.
func initChip(dev *as3935.Device) error {
	if err := dev.PresetDefaults(); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	if err := dev.CalibrateRCO(); err != nil {
		return err
	}
	time.Sleep(2 * time.Millisecond)
	return dev.SetPowerDown(false)
}

// runLoop is the cooperative scheduler: one execution context servicing the
// detection flag and three independent deadlines. Maintenance routines block
// the loop for their full duration; that is fine, the daemon has exactly one
// active task at a time and the edge handler keeps running underneath.
func runLoop(dev *as3935.Device, line irq.Binder, state *event.State, stim maint.Stimulus, reporter report.Reporter, tracker *status.Tracker, heartbeat, calibration, selfTest time.Duration, now func() time.Time, sleep maint.Sleep, tick <-chan time.Time, sig <-chan os.Signal) error {
	start := now()
	ticks := func() logic.Ticks { return logic.TicksSince(start, now()) }

	hbDeadline := logic.NextDeadline(ticks(), heartbeat)
	calDeadline := logic.NextDeadline(ticks(), calibration)
	bitDeadline := logic.NextDeadline(ticks(), selfTest)

	tuner := &maint.Tuner{Line: line, State: state, Chip: dev, Sleep: sleep}
	bit := &maint.SelfTest{Line: line, State: state, Chip: dev, Stim: stim, Sleep: sleep}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if err := reporter.Line(tracker.Snapshot().Summary()); err != nil {
				log.Printf("report summary error: %v", err)
			}
			return nil

		case <-tick:
			// Detection events first: classify and report.
			if state.TakeNormalFlag() {
				// The reason register is not valid until the erratum
				// delay after the edge.
				sleep(as3935.IntSettleDelay)
				code, err := dev.InterruptReason()
				if err != nil {
					log.Printf("interrupt reason read error: %v", err)
				} else {
					reason := logic.ReasonFromCode(code)
					tracker.CountReason(reason)
					if err := reporter.Line(report.EventPrefix + reason.String()); err != nil {
						log.Printf("report event error: %v", err)
					}
				}
			}

			// Deadlines fire independently, in declaration order. Each is
			// rescheduled from the current time before its routine runs, so
			// execution delay shifts later firings (see logic.NextDeadline).
			if t := ticks(); logic.Due(t, hbDeadline) {
				hbDeadline = logic.NextDeadline(t, heartbeat)
				if err := reporter.Heartbeat(); err != nil {
					log.Printf("report heartbeat error: %v", err)
				}
			}

			if t := ticks(); logic.Due(t, calDeadline) {
				calDeadline = logic.NextDeadline(t, calibration)
				passed, best, err := tuner.Run()
				if err != nil {
					log.Printf("calibration error: %v", err)
					passed = false
				}
				tracker.SetCalibration(passed, best.TuneCap)
				if !passed {
					if err := reporter.Line(report.CalibrationFailedLine); err != nil {
						log.Printf("report calibration error: %v", err)
					}
				} else {
					log.Printf("calibration: tune_cap=%d count=%d err=%d", best.TuneCap, best.Count, best.Err)
				}
			}

			if t := ticks(); logic.Due(t, bitDeadline) {
				bitDeadline = logic.NextDeadline(t, selfTest)
				passed, err := bit.Run()
				if err != nil {
					log.Printf("self-test error: %v", err)
					passed = false
				}
				tracker.SetSelfTest(passed)
				if !passed {
					if err := reporter.Line(report.SelfTestFailedLine); err != nil {
						log.Printf("report self-test error: %v", err)
					}
				}
			}
		}
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
