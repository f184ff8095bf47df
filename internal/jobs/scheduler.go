package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"roomtrack/api/internal/config"
	"roomtrack/api/internal/ids"
	"roomtrack/api/internal/service"
	"roomtrack/api/internal/storage"
)

// Scheduler runs the background maintenance jobs: the nightly archive
// export and the stale-checkin janitor. Both are disabled by default
// and opted into via config.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.JobsConfig
	checkins service.CheckinStore
	archive  *storage.ArchiveStore
	log      zerolog.Logger
}

func NewScheduler(cfg config.JobsConfig, checkins service.CheckinStore, archive *storage.ArchiveStore, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		checkins: checkins,
		archive:  archive,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.cfg.ArchiveEnabled && s.archive != nil {
		if _, err := s.cron.AddFunc(s.cfg.ArchiveSchedule, s.runArchive); err != nil {
			return err
		}
	}

	if s.cfg.JanitorEnabled {
		spec := "@every " + s.cfg.JanitorInterval.String()
		if _, err := s.cron.AddFunc(spec, s.runJanitor); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop; running jobs finish on their own timeouts.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runArchive exports closed records older than the retention window to
// the archive bucket. Failures only log; the next run picks the batch
// up again.
func (s *Scheduler) runArchive() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.cfg.ArchiveRetention)
	checkins, err := s.checkins.ListClosedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("archive job: list closed checkins failed")
		return
	}
	if len(checkins) == 0 {
		return
	}

	key, err := s.archive.PutCheckins(ctx, ids.New(), checkins)
	if err != nil {
		s.log.Error().Err(err).Msg("archive job: upload failed")
		return
	}

	s.log.Info().Int("count", len(checkins)).Str("object", key).Msg("archived closed checkins")
}

// runJanitor force-closes records that have been open longer than the
// configured maximum, for deployments where people forget to check out.
func (s *Scheduler) runJanitor() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.cfg.MaxOpenDuration)
	closed, err := s.checkins.CloseOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("janitor job: close stale checkins failed")
		return
	}
	if closed > 0 {
		s.log.Info().Int64("closed", closed).Msg("janitor closed stale checkins")
	}
}
