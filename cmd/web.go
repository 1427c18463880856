package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/zalepa/campuscrime/config"
	"github.com/zalepa/campuscrime/dataset"
	"github.com/zalepa/campuscrime/logger"
	"github.com/zalepa/campuscrime/stats"
)

//go:embed web.html
var htmlContent embed.FS

// errNotLoaded is returned when summaries are requested before a dataset of
// that kind was loaded.
var errNotLoaded = errors.New("no dataset loaded")

var webPreload bool

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the interactive dashboard and JSON API",
	Long: `Start an HTTP server with the dashboard page and its JSON API:

  GET  /api/files                  configured dataset files per kind
  POST /api/{kind}/load?file=NAME  load a file (or "Combine All Files")
  GET  /api/{kind}/metadata        filter choices of the loaded dataset
  GET  /api/{kind}/summaries       summaries of the loaded dataset
  GET  /healthz                    liveness
  GET  /metrics                    Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := appLog.Component("web")
		reg := prometheus.NewRegistry()
		srv := newServer(newLoader(cfg, appLog), cfg, log, reg)
		if webPreload {
			srv.preload(ctx)
		}

		httpSrv := &http.Server{
			Addr:              cfg.Web.Addr,
			Handler:           srv.routes(reg),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			log.WithField("addr", cfg.Web.Addr).Info("serving dashboard")
			errc <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

func init() {
	webCmd.Flags().String("addr", "", "listen address (default from web.addr)")
	_ = v.BindPFlag("web.addr", webCmd.Flags().Lookup("addr"))
	webCmd.Flags().BoolVar(&webPreload, "preload", false, "load the combined daily and yearly datasets at startup")
	rootCmd.AddCommand(webCmd)
}

type serverMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	loads    *prometheus.CounterVec
	records  *prometheus.GaugeVec
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campuscrime",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campuscrime",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campuscrime",
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by kind and result (loaded, cached, failed).",
		}, []string{"kind", "result"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "campuscrime",
			Name:      "dataset_records",
			Help:      "Records in the current dataset by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.requests, m.duration, m.loads, m.records)
	return m
}

// server holds the current dataset per kind. Snapshots are immutable and
// swapped atomically, so handlers never lock.
type server struct {
	loader  *dataset.Loader
	cache   *gocache.Cache
	log     *logger.Logger
	metrics *serverMetrics
	top     int

	daily  atomic.Pointer[dataset.Snapshot]
	yearly atomic.Pointer[dataset.Snapshot]
}

func newServer(loader *dataset.Loader, c config.Config, log *logger.Logger, reg prometheus.Registerer) *server {
	return &server{
		loader:  loader,
		cache:   gocache.New(c.Cache.TTL, 2*c.Cache.TTL),
		log:     log,
		metrics: newServerMetrics(reg),
		top:     c.TopLocations,
	}
}

func (s *server) current(kind dataset.Kind) *atomic.Pointer[dataset.Snapshot] {
	if kind == dataset.Yearly {
		return &s.yearly
	}
	return &s.daily
}

func (s *server) routes(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, "ok")
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/files", s.handleFiles)
		r.Route("/{kind}", func(r chi.Router) {
			r.Post("/load", s.handleLoad)
			r.Get("/metadata", s.handleMetadata)
			r.Get("/summaries", s.handleSummaries)
		})
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			if id := middleware.GetReqID(r.Context()); id != "" {
				r.Header.Set("X-Request-ID", id)
			}
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())

		s.log.WithRequest(r).
			WithField("status", status).
			WithField("duration_ms", elapsed.Milliseconds()).
			Debug("request")
	})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := htmlContent.ReadFile("web.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

type filesResponse struct {
	Daily  []string `json:"daily"`
	Yearly []string `json:"yearly"`
}

func (s *server) handleFiles(w http.ResponseWriter, r *http.Request) {
	list := func(kind dataset.Kind) []string {
		return append([]string{dataset.CombineAll}, s.loader.Files[kind]...)
	}
	render.JSON(w, r, filesResponse{Daily: list(dataset.Daily), Yearly: list(dataset.Yearly)})
}

func (s *server) handleLoad(w http.ResponseWriter, r *http.Request) {
	kind, err := dataset.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := r.URL.Query().Get("file")
	if name == "" {
		name = dataset.CombineAll
	}
	reload, _ := strconv.ParseBool(r.URL.Query().Get("reload"))

	snap, err := s.load(r.Context(), kind, name, reload)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, stats.Describe(snap))
}

// load makes name the current dataset of kind, reusing a cached snapshot
// unless reload is set.
func (s *server) load(ctx context.Context, kind dataset.Kind, name string, reload bool) (*dataset.Snapshot, error) {
	key := string(kind) + "/" + name
	if !reload {
		if v, ok := s.cache.Get(key); ok {
			snap := v.(*dataset.Snapshot)
			s.current(kind).Store(snap)
			s.metrics.loads.WithLabelValues(string(kind), "cached").Inc()
			s.metrics.records.WithLabelValues(string(kind)).Set(float64(snap.Len()))
			return snap, nil
		}
	}

	snap, err := s.loader.Load(ctx, kind, name)
	if err != nil {
		s.metrics.loads.WithLabelValues(string(kind), "failed").Inc()
		return nil, err
	}
	s.cache.SetDefault(key, snap)
	s.current(kind).Store(snap)
	s.metrics.loads.WithLabelValues(string(kind), "loaded").Inc()
	s.metrics.records.WithLabelValues(string(kind)).Set(float64(snap.Len()))
	return snap, nil
}

func (s *server) preload(ctx context.Context) {
	for _, kind := range []dataset.Kind{dataset.Daily, dataset.Yearly} {
		if _, err := s.load(ctx, kind, dataset.CombineAll, false); err != nil {
			s.log.WithError(err).WithField("kind", kind).Warn("preload failed")
		}
	}
}

func (s *server) loaded(r *http.Request) (*dataset.Snapshot, error) {
	kind, err := dataset.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, err
	}
	snap := s.current(kind).Load()
	if snap == nil {
		return nil, fmt.Errorf("%w: POST /api/%s/load first", errNotLoaded, kind)
	}
	return snap, nil
}

func (s *server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	snap, err := s.loaded(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, stats.Describe(snap))
}

type summariesResponse struct {
	Dataset  string                 `json:"dataset"`
	Kind     dataset.Kind           `json:"kind"`
	LoadedAt time.Time              `json:"loadedAt"`
	Daily    *stats.DailySummaries  `json:"daily,omitempty"`
	Yearly   *stats.YearlySummaries `json:"yearly,omitempty"`
}

func (s *server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	kind, err := dataset.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()

	resp := summariesResponse{Kind: kind}
	var compute func(*dataset.Snapshot)
	switch kind {
	case dataset.Daily:
		f := stats.DailyFilters{
			CrimeType:     q.Get("crimeType"),
			TimeCrimeType: q.Get("timeCrimeType"),
			StartMonth:    q.Get("start"),
			EndMonth:      q.Get("end"),
			TopLocations:  s.top,
		}
		if top := q.Get("top"); top != "" {
			n, err := strconv.Atoi(top)
			if err != nil {
				s.fail(w, r, fmt.Errorf("%w: top must be a number, got %q", stats.ErrInvalidFilter, top))
				return
			}
			f.TopLocations = n
		}
		if err := f.Validate(); err != nil {
			s.fail(w, r, err)
			return
		}
		compute = func(snap *dataset.Snapshot) {
			d := stats.ComputeDaily(snap.Incidents, f)
			resp.Daily = &d
		}
	case dataset.Yearly:
		f := stats.YearlyFilters{
			Offense:  q.Get("offense"),
			Year:     q.Get("year"),
			Location: q.Get("location"),
		}
		if err := f.Validate(); err != nil {
			s.fail(w, r, err)
			return
		}
		compute = func(snap *dataset.Snapshot) {
			y := stats.ComputeYearly(snap.Offenses, f)
			resp.Yearly = &y
		}
	}

	snap, err := s.loaded(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	compute(snap)
	resp.Dataset = snap.Name
	resp.LoadedAt = snap.LoadedAt
	render.JSON(w, r, resp)
}

// errResponse is the JSON body of every API error.
type errResponse struct {
	HTTPStatusCode int    `json:"-"`
	Status         string `json:"status"`
	Error          string `json:"error"`
	RequestID      string `json:"requestId,omitempty"`
}

func (e *errResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, dataset.ErrUnknownKind),
		errors.Is(err, dataset.ErrInvalidName),
		errors.Is(err, stats.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errNotLoaded):
		return http.StatusConflict
	case errors.Is(err, dataset.ErrNoValidRecords),
		errors.Is(err, dataset.ErrAllSourcesFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errStatus(err)
	entry := s.log.WithRequest(r).WithField("status", code).WithField("error", err.Error())
	if code >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	_ = render.Render(w, r, &errResponse{
		HTTPStatusCode: code,
		Status:         http.StatusText(code),
		Error:          err.Error(),
		RequestID:      middleware.GetReqID(r.Context()),
	})
}
