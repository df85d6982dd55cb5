// Command park-assist measures parking distance with an ultrasonic sensor
// and lights a WS2812 strip as a green-to-red proximity bar.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/park-assist/internal/display"
	"github.com/sweeney/park-assist/internal/ledstrip"
	"github.com/sweeney/park-assist/internal/logic"
	"github.com/sweeney/park-assist/internal/mqtt"
	"github.com/sweeney/park-assist/internal/ranging"
	"github.com/sweeney/park-assist/internal/status"
	"github.com/sweeney/park-assist/internal/web"
)

// loopTick is the cooperative loop granularity. Every periodic action is
// gated on its own timer; this only bounds how often those gates are polled.
const loopTick = 10 * time.Millisecond

func main() {
	numLEDs := flag.Int("num-leds", 24, "strip length in pixels (must be even)")
	minTrigger := flag.Float64("min-trigger", 4, "lower trigger bound in cm")
	maxTrigger := flag.Float64("max-trigger", 100, "upper trigger bound in cm")
	minDisplay := flag.Float64("min-display", 10, "display clamp minimum in cm")
	maxDisplay := flag.Float64("max-display", 80, "display clamp maximum in cm")
	hysteresis := flag.Float64("hysteresis", 4, "motion threshold in cm")
	inactivity := flag.Duration("inactivity", 30*time.Second, "no-motion timeout before PARKED")
	fast := flag.Duration("fast-interval", 100*time.Millisecond, "sensor cadence while PARKING")
	slow := flag.Duration("slow-interval", 500*time.Millisecond, "sensor cadence while AWAY/PARKED")
	fps := flag.Int("fps", 20, "maximum frames per second pushed to the strip")
	levelPolicy := flag.String("level-policy", "linear", `level policy: "linear" or "sweet-spot"`)
	sweetSpot := flag.Float64("sweet-spot", 31, "full-level distance in cm (sweet-spot policy)")
	parkedExit := flag.String("parked-exit", "receded", `PARKED exit policy: "receded" or "any-reading"`)
	mode := flag.String("mode", "sync", `acquisition mode: "sync" (pull) or "async" (callback)`)
	rangeTimeout := flag.Duration("range-timeout", ranging.DefaultTimeout, "echo timeout")
	triggerPin := flag.Int("trigger-pin", ranging.DefaultTriggerPin, "BCM pin number for the trigger line")
	echoPin := flag.Int("echo-pin", ranging.DefaultEchoPin, "BCM pin number for the echo line")
	spiPort := flag.String("spi", "", "SPI port for the strip (empty for first available)")
	broker := flag.String("broker", "off", `MQTT broker address ("off" disables telemetry)`)
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	verbose := flag.Bool("verbose", false, "log every accepted reading and lit-pixel count")
	printDistance := flag.Bool("print-distance", false, "take one measurement, print it, and exit")

	flag.Parse()

	cfg := logic.Config{
		MinTrigger:   *minTrigger,
		MaxTrigger:   *maxTrigger,
		MinDisplay:   *minDisplay,
		MaxDisplay:   *maxDisplay,
		Hysteresis:   *hysteresis,
		Inactivity:   *inactivity,
		FastInterval: *fast,
		SlowInterval: *slow,
		ParkedExit:   logic.ParkedExitPolicy(*parkedExit),
	}
	rcfg := display.Config{
		NumLEDs:    *numLEDs,
		MinDisplay: *minDisplay,
		MaxDisplay: *maxDisplay,
		SweetSpot:  *sweetSpot,
		Policy:     display.LevelPolicy(*levelPolicy),
	}

	if err := run(cfg, rcfg, options{
		mode:          *mode,
		fps:           *fps,
		rangeTimeout:  *rangeTimeout,
		triggerPin:    *triggerPin,
		echoPin:       *echoPin,
		spiPort:       *spiPort,
		broker:        *broker,
		heartbeat:     *heartbeat,
		httpAddr:      *httpAddr,
		verbose:       *verbose,
		printDistance: *printDistance,
	}); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// options collects the wiring knobs that are not part of the core configs.
type options struct {
	mode          string
	fps           int
	rangeTimeout  time.Duration
	triggerPin    int
	echoPin       int
	spiPort       string
	broker        string
	heartbeat     time.Duration
	httpAddr      string
	verbose       bool
	printDistance bool
}

func run(cfg logic.Config, rcfg display.Config, opts options) error {
	// Validate everything up front; an inconsistent setup must refuse to
	// start rather than produce an undefined mapping.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.mode != "sync" && opts.mode != "async" {
		return fmt.Errorf("config: unknown mode %q", opts.mode)
	}

	renderer, err := display.NewRenderer(rcfg, display.DefaultPalette())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sensor, err := ranging.NewHCSR04(opts.triggerPin, opts.echoPin, opts.rangeTimeout)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer sensor.Close()

	if opts.printDistance {
		cm, ok, err := sensor.Measure()
		if err != nil {
			return fmt.Errorf("measure: %w", err)
		}
		if !ok {
			fmt.Println("no echo")
			return nil
		}
		fmt.Printf("%.0f cm\n", cm)
		return nil
	}

	strip, err := ledstrip.NewSPIStrip(opts.spiPort, rcfg.NumLEDs)
	if err != nil {
		return fmt.Errorf("init strip: %w", err)
	}
	defer strip.Close()

	// The callback-driven mode pushes once per accepted reading; only the
	// polling mode rate-limits frames.
	fps := opts.fps
	if opts.mode == "async" {
		fps = 0
	}
	driver := display.NewDriver(renderer, strip, fps)

	startTime := time.Now()
	ctrl := logic.NewController(cfg, startTime)

	tracker := status.NewTracker(startTime, status.Config{
		NumLEDs:      rcfg.NumLEDs,
		MinTriggerCM: cfg.MinTrigger,
		MaxTriggerCM: cfg.MaxTrigger,
		MinDisplayCM: cfg.MinDisplay,
		MaxDisplayCM: cfg.MaxDisplay,
		HysteresisCM: cfg.Hysteresis,
		InactivityMs: cfg.Inactivity.Milliseconds(),
		FastMs:       cfg.FastInterval.Milliseconds(),
		SlowMs:       cfg.SlowInterval.Milliseconds(),
		FPS:          opts.fps,
		LevelPolicy:  string(rcfg.Policy),
		ParkedExit:   string(cfg.ParkedExit),
		Broker:       brokerOrEmpty(opts.broker),
		HTTPAddr:     opts.httpAddr,
	})

	deps := &loopDeps{
		ctrl:      ctrl,
		sensor:    sensor,
		driver:    driver,
		renderer:  renderer,
		tracker:   tracker,
		heartbeat: opts.heartbeat,
		verbose:   opts.verbose,
	}

	if opts.broker != "off" && opts.broker != "" {
		publisher, err := mqtt.NewRealPublisher(opts.broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer publisher.Close()
		deps.publisher = publisher
		deps.mqttStatus = publisher

		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	if opts.mode == "async" {
		deps.poller = ranging.NewPoller(sensor, &loopHandler{deps: deps}, cfg.SlowInterval)
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: leds=%d trigger=%v-%vcm display=%v-%vcm mode=%s policy=%s",
		rcfg.NumLEDs, cfg.MinTrigger, cfg.MaxTrigger, cfg.MinDisplay, cfg.MaxDisplay, opts.mode, rcfg.Policy)

	ticker := time.NewTicker(loopTick)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(deps, time.Now, ticker.C, sigCh)
}

// loopDeps holds everything the run loop drives. publisher, mqttStatus,
// poller, and tracker may be nil.
type loopDeps struct {
	ctrl       *logic.Controller
	sensor     ranging.Sensor
	poller     *ranging.Poller
	driver     *display.Driver
	renderer   *display.Renderer
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  time.Duration
	verbose    bool
}

// loopHandler feeds poller callbacks into the controller and applies the
// resulting outputs. Callbacks run to completion before Dispatch returns.
type loopHandler struct {
	deps *loopDeps
}

func (h *loopHandler) OnReading(cm float64, now time.Time) {
	if h.deps.verbose {
		log.Printf("reading: %.0f cm", cm)
	}
	h.deps.apply(h.deps.ctrl.OnReading(cm, now), now)
}

func (h *loopHandler) OnTimeout(now time.Time) {
	h.deps.apply(h.deps.ctrl.OnTimeout(now), now)
}

func runLoop(d *loopDeps, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			t := now()
			if err := d.driver.Blank(t); err != nil {
				log.Printf("display error: %v", err)
			}
			if d.publisher != nil {
				signalName := "UNKNOWN"
				if s == syscall.SIGINT {
					signalName = "SIGINT"
				} else if s == syscall.SIGTERM {
					signalName = "SIGTERM"
				}
				event := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "SHUTDOWN",
					Reason:    signalName,
					Retained:  true,
				}
				if d.tracker != nil {
					if d.mqttStatus != nil {
						d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
					}
					snap := d.tracker.Snapshot()
					event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
				}
				if err := d.publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()
			out := d.ctrl.Tick(t)
			d.apply(out, t)

			if d.poller != nil {
				// Callback mode: the poller owns the cadence and hands
				// results to the controller through loopHandler.
				if _, err := d.poller.Dispatch(t); err != nil {
					log.Printf("ranging error: %v", err)
				}
			} else if out.Measure {
				cm, ok, err := d.sensor.Measure()
				switch {
				case err != nil:
					log.Printf("ranging error: %v", err)
				case !ok:
					d.apply(d.ctrl.OnTimeout(t), t)
				default:
					if d.verbose {
						log.Printf("reading: %.0f cm", cm)
					}
					d.apply(d.ctrl.OnReading(cm, t), t)
				}
			}

			if hb := d.ctrl.CheckHeartbeat(t, d.heartbeat); hb != nil {
				log.Printf("heartbeat: uptime=%v state=%s away_to_parking=%d parking_to_parked=%d parked_to_away=%d",
					hb.Uptime, hb.State, hb.Counts.AwayToParking, hb.Counts.ParkingToParked, hb.Counts.ParkedToAway)

				if d.publisher != nil {
					hbEvent := mqtt.SystemEvent{
						Timestamp: hb.Timestamp,
						Event:     "HEARTBEAT",
					}
					if d.tracker != nil {
						if d.mqttStatus != nil {
							d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
						}
						snap := d.tracker.Snapshot()
						hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
					}
					if err := d.publisher.PublishSystem(hbEvent); err != nil {
						log.Printf("heartbeat publish error: %v", err)
					}
				}
			}

			if d.tracker != nil {
				d.tracker.Update(d.ctrl.State(), d.ctrl.Counts())
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
			}
		}
	}
}

// apply carries out the side effects a controller call asked for.
func (d *loopDeps) apply(out logic.Output, now time.Time) {
	if out.Cadence != nil && d.poller != nil {
		d.poller.SetInterval(*out.Cadence)
	}

	if out.Transition != nil {
		log.Printf("%s", *out.Transition)
		if d.publisher != nil {
			event := mqtt.Event{
				Timestamp:  now,
				State:      *out.Transition,
				DistanceCM: out.Show,
			}
			if err := d.publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}
	}

	if out.Blank {
		if err := d.driver.Blank(now); err != nil {
			log.Printf("display error: %v", err)
		}
		if d.tracker != nil {
			d.tracker.ClearDistance()
		}
	}

	if out.Show != nil {
		lit := d.renderer.LitCountForDistance(*out.Show)
		if d.verbose {
			log.Printf("lit: %d", lit)
		}
		if err := d.driver.Show(*out.Show, now); err != nil {
			log.Printf("display error: %v", err)
		}
		if d.tracker != nil {
			d.tracker.SetDistance(*out.Show, lit)
		}
	}

	if d.tracker != nil {
		d.tracker.Update(d.ctrl.State(), d.ctrl.Counts())
	}
}

// brokerOrEmpty normalizes the -broker flag for status display.
func brokerOrEmpty(broker string) string {
	if broker == "off" {
		return ""
	}
	return broker
}
