package heatmap

import (
	"context"
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"codeboard/internal/heatmap/interfaces"
	"codeboard/internal/providers"
	"codeboard/internal/repository"
	"codeboard/internal/structures"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	records  repository.HeatmapRepositoryI
	exporter *Exporter
	cron     *gron.Cron
	opsMu    sync.Mutex
	now      func() time.Time
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	if s.config.Backup.Enabled {
		s.cron.AddFunc(gron.Every(s.config.Backup.Interval), func() {
			if err := s.Backup(); err != nil {
				s.logger.Errorf(providers.TypeApp, "Error while exporting backup: %s", err)
			}
		})
	}

	if s.config.Cleanup.Enabled {
		s.cron.AddFunc(gron.Every(s.config.Cleanup.Interval), func() {
			s.opsMu.Lock()
			defer s.opsMu.Unlock()

			cutoff := s.now().Add(-s.config.Cleanup.MaxAge)
			removed, err := s.records.DeleteStale(context.Background(), cutoff)
			if err != nil {
				s.logger.Errorf(providers.TypeStore, "Error while removing stale records: %s", err)
				return
			}
			if removed > 0 {
				s.logger.Infof(providers.TypeStore, "Removed %d stale heatmap records", removed)
			}
		})
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Backup() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.exporter.SaveToFile(context.Background(), s.config.Backup.FilePath)
	if err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Exported heatmap snapshot to %s", s.config.Backup.FilePath)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, records repository.HeatmapRepositoryI, exporter *Exporter) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		records:  records,
		exporter: exporter,
		now:      time.Now,
	}
}
