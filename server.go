package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iochen/lcglab/lcg"
	"github.com/iochen/lcglab/utils/base64"
)

const (
	requestIDKey = "requestid"
	// side of the square image the UI asks for when nothing is given
	defaultSize = 256
)

type server struct {
	config *Config
	log    *logrus.Logger
}

// paramsQuery is the query string shared by /analyze and /sequence.
// Absent a, c or m fall back to the preset, then to the configured defaults.
type paramsQuery struct {
	A      *int64 `query:"a"`
	C      *int64 `query:"c"`
	M      *int64 `query:"m"`
	Preset string `query:"preset"`
	Size   *int   `query:"size"`
	Length *int   `query:"length"`
}

type analyzeResponse struct {
	Params lcg.Params `json:"params"`
	lcg.Verdict
}

type sequenceResponse struct {
	Params  lcg.Params  `json:"params"`
	Size    int         `json:"size,omitempty"`
	Length  int         `json:"length"`
	Values  []float64   `json:"values"`
	Summary lcg.Summary `json:"summary"`
}

func newApp(config *Config, log *logrus.Logger) *fiber.App {
	s := &server{config: config, log: log}

	// create a go-fiber app
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(ctx *fiber.Ctx, e error) error {
			var fe *fiber.Error
			var de *lcg.DomainError
			switch {
			case errors.As(e, &fe):
			case errors.As(e, &de):
				fe = fiber.NewError(fiber.StatusBadRequest, de.Error())
			default:
				log.WithError(e).WithField("request_id", requestID(ctx)).Error("unhandled error")
				fe = fiber.NewError(fiber.StatusInternalServerError, "internal server error")
			}
			return ctx.Status(fe.Code).JSON(fe)
		},
	})

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(accessLog(log))
	app.Use(recover.New())

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/presets", s.presets)
	app.Get("/analyze", s.analyze)

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}
	app.Get("/sequence", limit(limiter), s.sequence)

	return app
}

// limit rejects requests beyond the token bucket l. A nil l lets every
// request through.
func limit(l *rate.Limiter) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if l != nil && !l.Allow() {
			return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		return ctx.Next()
	}
}

func requestID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(requestIDKey).(string)
	return id
}

func (s *server) presets(ctx *fiber.Ctx) error {
	out := make(map[string]lcg.Params)
	for _, name := range lcg.Presets() {
		out[name], _ = lcg.Preset(name)
	}
	return ctx.JSON(out)
}

// parse reads the query into q and resolves the generator parameters.
// Malformed numbers never reach the engine.
func (s *server) parse(ctx *fiber.Ctx, q *paramsQuery) (lcg.Params, error) {
	if err := ctx.QueryParser(q); err != nil {
		return lcg.Params{}, fiber.NewError(fiber.StatusBadRequest, "invalid query: "+err.Error())
	}
	p := s.config.Defaults
	if q.Preset != "" {
		preset, ok := lcg.Preset(q.Preset)
		if !ok {
			return lcg.Params{}, fiber.NewError(fiber.StatusBadRequest, "unknown preset \""+q.Preset+"\"")
		}
		p = preset
	}
	if q.A != nil {
		p.Multiplier = *q.A
	}
	if q.C != nil {
		p.Increment = *q.C
	}
	if q.M != nil {
		p.Modulus = *q.M
	}
	// factoring m is O(sqrt(m)), so its size is capped per request
	if p.Modulus > s.config.MaxModulus {
		return lcg.Params{}, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("m must not exceed %d, got %d", s.config.MaxModulus, p.Modulus))
	}
	return p, nil
}

func (s *server) analyze(ctx *fiber.Ctx) error {
	q := &paramsQuery{}
	p, err := s.parse(ctx, q)
	if err != nil {
		return err
	}
	v, err := lcg.Analyze(p)
	if err != nil {
		return err
	}
	return ctx.JSON(&analyzeResponse{Params: p, Verdict: v})
}

// length resolves the requested sequence length: size*size for a square
// image, or an explicit length, but not both.
func (s *server) length(q *paramsQuery) (size, length int, err error) {
	switch {
	case q.Size != nil && q.Length != nil:
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "size and length are mutually exclusive")
	case q.Length != nil:
		return 0, *q.Length, nil
	case q.Size != nil:
		size = *q.Size
	default:
		size = defaultSize
	}
	if size < 0 || size > s.config.MaxSize {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("size must be between 0 and %d, got %d", s.config.MaxSize, size))
	}
	return size, size * size, nil
}

func (s *server) sequence(ctx *fiber.Ctx) error {
	q := &paramsQuery{}
	p, err := s.parse(ctx, q)
	if err != nil {
		return err
	}
	size, length, err := s.length(q)
	if err != nil {
		return err
	}

	seq, err := lcg.Generate(p, length)
	if err != nil {
		return err
	}

	// the body is a pure function of the parameters, so they make the tag
	etag := `"` + base64.Key(uint64(p.Multiplier), uint64(p.Increment), uint64(p.Modulus), uint64(size), uint64(length)) + `"`
	ctx.Set(fiber.HeaderETag, etag)
	if ctx.Get(fiber.HeaderIfNoneMatch) == etag {
		return ctx.SendStatus(fiber.StatusNotModified)
	}

	return ctx.JSON(&sequenceResponse{
		Params:  p,
		Size:    size,
		Length:  length,
		Values:  seq,
		Summary: lcg.Summarize(seq),
	})
}

// serve runs the app until SIGINT or SIGTERM.
func serve(config *Config, log *logrus.Logger) error {
	app := newApp(config, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.WithField("listen", config.Listen).Info("lcglab listening")
		if config.TLSCert != "" {
			errc <- app.ListenTLS(config.Listen, config.TLSCert, config.TLSKey)
			return
		}
		errc <- app.Listen(config.Listen)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}
