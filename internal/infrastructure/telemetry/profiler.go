package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

const defaultProfileRate = 5

// profileKinds maps configured profile names to pyroscope profile types.
// "mutex" and "block" also switch on the matching runtime sampling.
var profileKinds = map[string][]pyroscope.ProfileType{
	"cpu":        {pyroscope.ProfileCPU},
	"alloc":      {pyroscope.ProfileAllocObjects, pyroscope.ProfileAllocSpace},
	"inuse":      {pyroscope.ProfileInuseObjects, pyroscope.ProfileInuseSpace},
	"goroutines": {pyroscope.ProfileGoroutines},
	"mutex":      {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":      {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// DefaultProfiles is used when ProfilerSettings.Profiles is empty
var DefaultProfiles = []string{"cpu", "alloc", "inuse", "goroutines"}

// ProfilerSettings configures continuous profiling against a Pyroscope server
type ProfilerSettings struct {
	Enabled         bool
	ServerAddress   string
	ApplicationName string
	// Basic auth is only sent when both are set
	BasicAuthUser     string
	BasicAuthPassword string
	// Profiles names the profile kinds to collect, see profileKinds
	Profiles []string
}

// Profiler owns a running pyroscope session. The zero-session profiler
// returned when profiling is disabled is safe to Stop.
type Profiler struct {
	session  *pyroscope.Profiler
	logger   *zap.Logger
	settings ProfilerSettings
	mu       sync.Mutex
	stopped  bool
}

// StartProfiler validates s and starts pushing profiles. With profiling
// disabled it returns a profiler that does nothing.
func StartProfiler(s ProfilerSettings, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger, settings: s}
	if !s.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}

	if s.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}
	if s.ApplicationName == "" {
		return nil, fmt.Errorf("profiler application name is required when profiling is enabled")
	}
	types, err := profileTypes(s.Profiles)
	if err != nil {
		return nil, err
	}

	for _, name := range s.Profiles {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "mutex":
			runtime.SetMutexProfileFraction(defaultProfileRate)
		case "block":
			runtime.SetBlockProfileRate(defaultProfileRate)
		}
	}

	cfg := pyroscope.Config{
		ApplicationName: s.ApplicationName,
		ServerAddress:   s.ServerAddress,
		Logger:          pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:            hostTags(),
		ProfileTypes:    types,
	}
	if s.BasicAuthUser != "" && s.BasicAuthPassword != "" {
		cfg.BasicAuthUser = s.BasicAuthUser
		cfg.BasicAuthPassword = s.BasicAuthPassword
	}

	session, err := pyroscope.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.session = session

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", s.ServerAddress),
		zap.String("application_name", s.ApplicationName),
		zap.Int("profile_types", len(types)),
	)
	return p, nil
}

// profileTypes expands profile names into pyroscope types, in a stable
// order and without repeats
func profileTypes(names []string) ([]pyroscope.ProfileType, error) {
	if len(names) == 0 {
		names = DefaultProfiles
	}
	seen := make(map[pyroscope.ProfileType]bool)
	var out []pyroscope.ProfileType
	for _, name := range names {
		kinds, ok := profileKinds[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown profile kind %q", name)
		}
		for _, k := range kinds {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func hostTags() map[string]string {
	tags := map[string]string{}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		tags["hostname"] = hostname
	}
	if pod := os.Getenv("POD_NAME"); pod != "" {
		tags["pod"] = pod
	}
	return tags
}

// Enabled reports whether a pyroscope session is running
func (p *Profiler) Enabled() bool {
	return p.session != nil
}

// Stop flushes pending profiles. Calls after the first are no-ops.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || p.session == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true

	if err := p.session.Stop(); err != nil {
		p.logger.Error("Error stopping profiler", zap.Error(err))
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.logger.Info("Pyroscope profiler stopped")
	return nil
}

// pyroscopeLogger routes pyroscope's own logging through zap
type pyroscopeLogger struct {
	s *zap.SugaredLogger
}

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
